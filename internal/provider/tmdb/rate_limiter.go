package tmdb

import (
	"context"
	"sync"
	"time"
)

// rateLimiter implements a simple sliding window rate limiter
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// newRateLimiter creates a new rate limiter
func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, maxRequests),
		now:         time.Now,
	}
}

// wait blocks until a request fits in the window or ctx is done
func (r *rateLimiter) wait(ctx context.Context) error {
	for {
		delay := r.reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records a request and returns 0, or returns how long to wait
// before the oldest request leaves the window.
func (r *rateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid

	if len(r.requests) < r.maxRequests {
		r.requests = append(r.requests, now)
		return 0
	}

	// Small buffer so the oldest request has actually expired
	return r.window - now.Sub(r.requests[0]) + 10*time.Millisecond
}
