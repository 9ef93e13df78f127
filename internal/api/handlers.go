package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/mlegrand/immoscan/internal/core"
	"github.com/mlegrand/immoscan/internal/export"
	"github.com/mlegrand/immoscan/internal/observability"
	"github.com/mlegrand/immoscan/internal/store"
)

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)

	if s.store != nil {
		listings, total, err := s.store.ListListings(r.Context(), limit, offset)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch listings: "+err.Error())
			return
		}
		if listings == nil {
			listings = []store.Listing{}
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"items":  listings,
			"limit":  limit,
			"offset": offset,
			"total":  total,
		})
		return
	}

	entries := s.cache.All()
	total := len(entries)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  entries[offset:end],
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (s *Server) handleListingDetail(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	entry, found := s.cache.Get(url)
	if !found {
		respondError(w, http.StatusNotFound, "Listing not scanned yet")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"record":      entry.Record,
		"user_status": entry.UserStatus,
		"analysis":    entry.Analysis,
		"scanned_at":  entry.ScannedAt,
		"investment":  core.ComputeInvestment(entry.Record),
	})
}

type urlRequest struct {
	URL string `json:"url"`
}

func decodeURLRequest(w http.ResponseWriter, r *http.Request) (urlRequest, bool) {
	var req urlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	entry, found := s.cache.Get(req.URL)
	if !found {
		respondError(w, http.StatusNotFound, "Listing not scanned yet")
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), entry.Record, entry.AdText)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}
	observability.IncVerdict(analysis.Verdict)

	s.cache.SetAnalysis(req.URL, *analysis)
	if err := s.cache.Flush(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to persist analysis: "+err.Error())
		return
	}
	if s.store != nil {
		if err := s.store.SaveAnalysis(r.Context(), req.URL, *analysis); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to persist analysis: "+err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, analysis)
}

type statusRequest struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// validStatuses are the triage decisions a user can attach to a listing.
// Empty resets the status.
var validStatuses = map[string]bool{
	"interesse":     true,
	"pas_interesse": true,
	"hesitant":      true,
	"":              true,
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !validStatuses[req.Status] {
		respondError(w, http.StatusBadRequest, "Unknown status: "+req.Status)
		return
	}

	if !s.cache.SetStatus(req.URL, req.Status) {
		respondError(w, http.StatusNotFound, "Listing not scanned yet")
		return
	}
	if err := s.cache.Flush(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to persist status: "+err.Error())
		return
	}
	if s.store != nil {
		if err := s.store.SetUserStatus(r.Context(), req.URL, req.Status); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to persist status: "+err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": req.URL, "status": req.Status})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeURLRequest(w, r)
	if !ok {
		return
	}

	rec, err := s.scanner.Refresh(r.Context(), req.URL)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Refresh failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

var scanMu sync.Mutex

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !scanMu.TryLock() {
		respondError(w, http.StatusConflict, "A scan is already running")
		return
	}

	// The request context dies with the handler; the scan keeps its own.
	go func() {
		defer scanMu.Unlock()
		s.scanner.ScanOnce(context.Background())
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "scan started"})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="listings.csv"`)
	if err := export.WriteCSV(w, s.cache.All()); err != nil {
		respondError(w, http.StatusInternalServerError, "Export failed: "+err.Error())
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, export.Summarize(s.cache.All()))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
