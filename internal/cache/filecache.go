// Package cache persists scan results in a single JSON file keyed by ad
// URL, so re-running a scan skips ads already extracted and keeps the
// user's decisions between sessions.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mlegrand/immoscan/internal/ai"
	"github.com/mlegrand/immoscan/internal/extract"
)

// Entry is one cached ad.
type Entry struct {
	Record     extract.Record `json:"record"`
	AdText     string         `json:"ad_text,omitempty"`
	UserStatus string         `json:"user_status,omitempty"`
	Analysis   ai.Analysis    `json:"analysis,omitempty"`
	ScannedAt  time.Time      `json:"scanned_at"`
}

type FileCache struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
	dirty   bool
}

// Open loads the cache file at path, starting empty when it does not exist.
func Open(path string) (*FileCache, error) {
	c := &FileCache{
		path:    path,
		entries: map[string]Entry{},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache %s: %w", path, err)
	}
	return c, nil
}

func (c *FileCache) Get(url string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	return e, ok
}

func (c *FileCache) Put(url string, e Entry) {
	if e.ScannedAt.IsZero() {
		e.ScannedAt = time.Now()
	}
	c.mu.Lock()
	c.entries[url] = e
	c.dirty = true
	c.mu.Unlock()
}

// SetStatus records the user's triage decision. Unknown URLs are ignored.
func (c *FileCache) SetStatus(url, status string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return false
	}
	e.UserStatus = status
	c.entries[url] = e
	c.dirty = true
	return true
}

// SetAnalysis attaches an AI analysis to a cached ad.
func (c *FileCache) SetAnalysis(url string, a ai.Analysis) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok {
		return false
	}
	e.Analysis = a
	c.entries[url] = e
	c.dirty = true
	return true
}

func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// All returns cached entries ordered by gross yield, best first; entries
// without a yield come last, ordered by URL for stable output.
func (c *FileCache) All() []Entry {
	c.mu.Lock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	c.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		yi, yj := out[i].Record.GrossYieldPct, out[j].Record.GrossYieldPct
		switch {
		case yi != nil && yj != nil:
			if *yi != *yj {
				return *yi > *yj
			}
		case yi != nil:
			return true
		case yj != nil:
			return false
		}
		return out[i].Record.URL < out[j].Record.URL
	})
	return out
}

// Flush writes the cache to disk if anything changed since the last flush.
// The file is replaced atomically.
func (c *FileCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache: %w", err)
	}

	c.dirty = false
	return nil
}
