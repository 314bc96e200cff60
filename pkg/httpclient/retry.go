package httpclient

import (
	"net/http"
	"time"
)

// RetryPolicy controls how many times a request is re-issued and on which outcomes.
// A request is retried when the round-trip fails or the response status is listed
// in RetryStatuses, waiting a fixed Delay between attempts.
type RetryPolicy struct {
	MaxRetries    int
	Delay         time.Duration
	RetryStatuses []int
}

const (
	defaultMaxRetries = 6
	defaultRetryDelay = 10 * time.Second
)

// DefaultRetryPolicy mirrors what the Infomedia API needs: it answers 404/500/502
// while indexes are being swapped, so those are retried alongside network failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    defaultMaxRetries,
		Delay:         defaultRetryDelay,
		RetryStatuses: []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway},
	}
}

// NoRetry disables retries entirely.
func NoRetry() RetryPolicy { return RetryPolicy{} }

func (p RetryPolicy) retryableStatus(code int) bool {
	for _, s := range p.RetryStatuses {
		if s == code {
			return true
		}
	}
	return false
}
