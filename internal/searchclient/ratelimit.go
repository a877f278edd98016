package searchclient

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default throttling: the API runs a literature query per search.
const (
	DefaultRate  = 2.0
	DefaultBurst = 1

	// defaultBackoff applies after a 429 without Retry-After.
	defaultBackoff = 30 * time.Second
	// maxBackoff caps what a Retry-After header can impose.
	maxBackoff = 5 * time.Minute
)

// limiter throttles requests with a token bucket and honours 429 backoff.
type limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// newLimiter returns a limiter; a non-positive rps disables throttling.
func newLimiter(rps float64, burst int) *limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &limiter{bucket: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (l *limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.bucket.Wait(ctx)
}

// Backoff records a 429 response. retryAfter is the raw header value.
func (l *limiter) Backoff(retryAfter string, now time.Time) {
	d := parseRetryAfter(retryAfter, now)

	l.mu.Lock()
	defer l.mu.Unlock()
	if at := now.Add(d); at.After(l.retryAt) {
		l.retryAt = at
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	d := defaultBackoff
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		d = time.Duration(secs) * time.Second
	} else if t, err := time.Parse(time.RFC1123, v); err == nil {
		d = t.Sub(now)
	}
	return min(max(d, 0), maxBackoff)
}
