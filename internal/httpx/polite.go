// Package httpx provides polite HTTP fetching for listing sites: per-host
// rate limits, robots.txt checks, retry with backoff, and rotation across
// a pool of browser user agents.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// userAgents is the pool rotated across requests. Listing sites answer 403
// to clients that keep a single non-browser agent, so each attempt presents
// a different desktop browser.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

// PoliteClient fetches ad pages while enforcing per-host rate limits and
// robots.txt rules, rotating user agents and backing off on block statuses.
type PoliteClient struct {
	client      *http.Client
	uaIndex     atomic.Uint64
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewPoliteClient() *PoliteClient {
	return &PoliteClient{
		client:      &http.Client{Timeout: 15 * time.Second},
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

func (p *PoliteClient) nextUserAgent() string {
	i := p.uaIndex.Add(1)
	return userAgents[int(i)%len(userAgents)]
}

func (p *PoliteClient) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(time.Second), 2) // 1 req/s, burst 2
	p.limiters[host] = l
	return l
}

// FetchPage GETs an ad page and returns its body. The URL defaults to https
// when no scheme is given.
func (p *PoliteClient) FetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &FetchError{Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Hostname()
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.nextUserAgent())

	if err := p.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}

// Do executes the request respecting robots.txt and rate limits. Block and
// throttle statuses trigger a retry under a different user agent.
func (p *PoliteClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	u := req.URL
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	if ok := p.allowed(ctx, u, req.Method); !ok {
		return nil, fmt.Errorf("blocked by robots.txt: %s", u)
	}

	host := u.Hostname()
	limiter := p.limiterFor(host)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", p.nextUserAgent())
		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if shouldBackoff(resp.StatusCode) {
			lastErr = &FetchError{Status: resp.StatusCode}
			resp.Body.Close()
			backoff := time.Duration(500*(1<<attempt)) * time.Millisecond
			if err := sleepWithContext(ctx, backoff); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("polite client: failed without error")
	}
	return nil, lastErr
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL, method string) bool {
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true // fail open to avoid blocking everything
	}
	group := data.FindGroup("*")
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if !group.Test(path) {
		return false
	}
	// Only read operations go through this client.
	if !strings.EqualFold(method, http.MethodGet) && !strings.EqualFold(method, http.MethodHead) {
		return false
	}
	return true
}
