package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/mlegrand/immoscan/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorParsing   = "parsing"
	ErrorAI        = "ai"
	ErrorRateLimit = "rate_limit"
	ErrorStore     = "store"
	ErrorUnknown   = "unknown"
)

// ClassifyFetchError buckets a fetch failure for the error counters. Block
// statuses count as rate limiting since they clear after backing off.
func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Status == http.StatusTooManyRequests || fe.Status == http.StatusForbidden:
			return ErrorRateLimit
		default:
			return ErrorNetwork
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorNetwork
}
