package services

import (
	"sync"
	"time"
)

// RateLimiter is injected so the core carries no global limiter state and
// a distributed deployment can swap in a shared backing store.
type RateLimiter interface {
	Allow(key string) bool
}

// MemoryRateLimiter is a sliding-window limiter: at most Max events per
// Window per key. Good enough for a single process; the HTTP edge has
// fiber's limiter middleware in front of it as well.
type MemoryRateLimiter struct {
	Window time.Duration
	Max    int

	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewMemoryRateLimiter(window time.Duration, max int) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		Window: window,
		Max:    max,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.Window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.Max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// AllowAll disables limiting; used in tests and when limits are
// configured off.
type AllowAll struct{}

func (AllowAll) Allow(string) bool { return true }
