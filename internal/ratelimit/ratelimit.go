// Package ratelimit implements a sliding-window request limiter keyed by
// arbitrary strings (client IP, feed token). It backs the public RSS
// endpoints, which are reachable without a session.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most limit requests per key within window. Timestamps
// are kept per key and pruned on each check, so memory stays proportional
// to the number of active keys.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// New creates a Limiter. A non-positive limit or window disables limiting.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. When denied, retryAfter is how long until the oldest counted
// request falls out of the window.
func (l *Limiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	if l.limit <= 0 || l.window <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, recent[0].Sub(cutoff)
	}

	l.hits[key] = append(recent, now)
	return true, 0
}
