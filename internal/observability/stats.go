// Package observability keeps process-wide counters for the scan pipeline,
// exposed by the API's stats endpoint.
package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched      uint64            `json:"pages_fetched"`
	ListingsExtracted uint64            `json:"listings_extracted"`
	AICalls           uint64            `json:"ai_calls"`
	ErrorsTotal       uint64            `json:"errors_total"`
	Verdicts          map[string]uint64 `json:"verdicts,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched      uint64
	listingsExtracted uint64
	aiCalls           uint64
	errorsTotal       uint64

	statsMu           sync.Mutex
	verdicts          = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPageFetched() {
	atomic.AddUint64(&pagesFetched, 1)
}

func IncListingExtracted() {
	atomic.AddUint64(&listingsExtracted, 1)
}

func IncAICall(_ string) {
	atomic.AddUint64(&aiCalls, 1)
}

// IncVerdict counts AI verdicts as they come back.
func IncVerdict(verdict string) {
	if verdict == "" {
		verdict = "unknown"
	}
	statsMu.Lock()
	verdicts[verdict]++
	statsMu.Unlock()
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	verdictsCopy := copyMap(verdicts)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	return StatsSnapshot{
		PagesFetched:      atomic.LoadUint64(&pagesFetched),
		ListingsExtracted: atomic.LoadUint64(&listingsExtracted),
		AICalls:           atomic.LoadUint64(&aiCalls),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		Verdicts:          verdictsCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
