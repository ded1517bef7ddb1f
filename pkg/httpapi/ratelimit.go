package httpapi

import (
	"sync"
	"time"
)

// RateLimiter is a sliding-window limiter keyed by session id.
type RateLimiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    map[string][]time.Time
	now      func() time.Time
}

func NewRateLimiter(maxCalls int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxCalls: maxCalls,
		window:   window,
		calls:    make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether one more call for key fits inside the window, and
// records it when it does.
func (r *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "anonymous"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	window := r.calls[key]
	kept := window[:0]
	for _, ts := range window {
		if now.Sub(ts) <= r.window {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= r.maxCalls {
		r.calls[key] = kept
		return false
	}
	r.calls[key] = append(kept, now)
	return true
}
