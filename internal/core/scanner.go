package core

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/mlegrand/immoscan/internal/cache"
	"github.com/mlegrand/immoscan/internal/discovery"
	"github.com/mlegrand/immoscan/internal/extract"
	"github.com/mlegrand/immoscan/internal/httpx"
	"github.com/mlegrand/immoscan/internal/observability"
	"github.com/mlegrand/immoscan/internal/page"
	"github.com/mlegrand/immoscan/internal/store"
)

// Target is one search the scanner runs: a location and a query string.
type Target struct {
	City  string `json:"city"`
	Query string `json:"query"`
}

// ScanSummary reports what a scan pass did.
type ScanSummary struct {
	PagesFetched int `json:"pages_fetched"`
	AdsSeen      int `json:"ads_seen"`
	AdsExtracted int `json:"ads_extracted"`
	AdsCached    int `json:"ads_cached"`
	Errors       int `json:"errors"`
}

// ScanService walks search results for each target, fetches every ad not
// yet in the cache, runs the financial extraction, and persists the result.
type ScanService struct {
	search   *httpx.CollyFetcher
	pages    *httpx.PoliteClient
	cache    *cache.FileCache
	store    *store.Store // optional
	targets  []Target
	maxPages int
	exclude  []string
}

func NewScanService(search *httpx.CollyFetcher, pages *httpx.PoliteClient, c *cache.FileCache, st *store.Store, targets []Target) *ScanService {
	return &ScanService{
		search:   search,
		pages:    pages,
		cache:    c,
		store:    st,
		targets:  targets,
		maxPages: 3,
		exclude:  []string{"viager", "local commercial", "parking", "garage", "terrain"},
	}
}

// WithMaxPages bounds how many result pages each target walks.
func (s *ScanService) WithMaxPages(n int) *ScanService {
	if n > 0 {
		s.maxPages = n
	}
	return s
}

func (s *ScanService) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	go s.scanLoop(ctx, interval)
	if s.store != nil {
		go s.cleanupLoop(ctx, 24*time.Hour, 30*24*time.Hour)
	}
}

func (s *ScanService) scanLoop(ctx context.Context, interval time.Duration) {
	s.ScanOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ScanOnce(ctx)
		}
	}
}

// ScanOnce runs one pass over every target and flushes the cache.
func (s *ScanService) ScanOnce(ctx context.Context) ScanSummary {
	var summary ScanSummary
	for _, t := range s.targets {
		select {
		case <-ctx.Done():
			return summary
		default:
		}
		s.scanTarget(ctx, t, &summary)
	}

	if err := s.cache.Flush(); err != nil {
		log.Printf("Scan: failed to flush cache: %v", err)
		observability.IncError(observability.ErrorStore, "scanner")
		summary.Errors++
	}

	log.Printf("Scan: %d pages, %d ads seen, %d extracted, %d already cached, %d errors",
		summary.PagesFetched, summary.AdsSeen, summary.AdsExtracted, summary.AdsCached, summary.Errors)
	return summary
}

func (s *ScanService) scanTarget(ctx context.Context, t Target, summary *ScanSummary) {
	for pageNum := 1; pageNum <= s.maxPages; pageNum++ {
		searchURL := discovery.SearchURL(t.City, t.Query, pageNum)
		body, _, err := s.search.FetchBytes(ctx, searchURL)
		if err != nil {
			log.Printf("Scan: search fetch failed for %s: %v", searchURL, err)
			observability.IncError(observability.ClassifyFetchError(err), "scanner")
			summary.Errors++
			return
		}
		summary.PagesFetched++
		observability.IncPageFetched()

		base, err := url.Parse(searchURL)
		if err != nil {
			return
		}
		links := discovery.AdLinks(body, base)
		if len(links) == 0 {
			return
		}

		for _, link := range links {
			select {
			case <-ctx.Done():
				return
			default:
			}
			s.processAd(ctx, link, summary)
		}
	}
}

func (s *ScanService) processAd(ctx context.Context, link string, summary *ScanSummary) {
	summary.AdsSeen++
	if _, ok := s.cache.Get(link); ok {
		summary.AdsCached++
		return
	}

	entry, err := s.fetchAndExtract(ctx, link)
	if err != nil {
		if !errors.Is(err, errAdSkipped) {
			log.Printf("Scan: %s: %v", link, err)
			summary.Errors++
		}
		return
	}
	summary.PagesFetched++
	summary.AdsExtracted++

	s.cache.Put(link, entry)
	if s.store != nil {
		listing := store.Listing{Record: entry.Record, AdText: entry.AdText}
		if err := s.store.SaveListing(ctx, listing); err != nil {
			log.Printf("Scan: failed to save %s: %v", link, err)
			observability.IncError(observability.ErrorStore, "scanner")
			summary.Errors++
		}
	}
	observability.IncListingExtracted()
}

// errAdSkipped marks ads dropped on purpose (excluded keywords), which are
// not errors.
var errAdSkipped = errors.New("ad skipped")

func (s *ScanService) fetchAndExtract(ctx context.Context, link string) (cache.Entry, error) {
	body, err := s.pages.FetchPage(ctx, link)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "scanner")
		return cache.Entry{}, err
	}
	observability.IncPageFetched()

	listing, err := page.Parse(link, body)
	if err != nil {
		observability.IncError(observability.ErrorParsing, "scanner")
		return cache.Entry{}, err
	}
	if MatchesKeywords(listing.Title, s.exclude) {
		return cache.Entry{}, errAdSkipped
	}

	adText := listing.Text
	if listing.Structured != nil && listing.Structured.Body != "" {
		adText = listing.Structured.Body
	}

	rec, err := extract.Extract(listing.Text, listing.Structured)
	if err != nil {
		observability.IncError(observability.ErrorParsing, "scanner")
		return cache.Entry{}, err
	}
	rec.URL = listing.URL
	rec.Title = listing.Title

	return cache.Entry{Record: rec, AdText: adText, ScannedAt: time.Now()}, nil
}

// Refresh re-fetches a single ad, bypassing the cache, and persists the
// fresh extraction.
func (s *ScanService) Refresh(ctx context.Context, link string) (extract.Record, error) {
	entry, err := s.fetchAndExtract(ctx, link)
	if err != nil {
		return extract.Record{}, err
	}

	if prev, ok := s.cache.Get(link); ok {
		entry.UserStatus = prev.UserStatus
		entry.Analysis = prev.Analysis
	}
	s.cache.Put(link, entry)
	if err := s.cache.Flush(); err != nil {
		log.Printf("Scan: failed to flush cache: %v", err)
	}

	if s.store != nil {
		listing := store.Listing{Record: entry.Record, AdText: entry.AdText}
		if err := s.store.SaveListing(ctx, listing); err != nil {
			return extract.Record{}, err
		}
	}
	return entry.Record, nil
}

func (s *ScanService) cleanupLoop(ctx context.Context, interval, retention time.Duration) {
	s.cleanup(ctx, retention)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx, retention)
		}
	}
}

func (s *ScanService) cleanup(ctx context.Context, retention time.Duration) {
	deleted, err := s.store.DeleteOldListings(ctx, retention)
	if err != nil {
		log.Printf("Scan: cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Scan: cleanup removed %d stale listings", deleted)
	}
}
