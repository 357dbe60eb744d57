package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the single-process counterpart of FixedWindowLimiter, used when
// Redis is disabled. Counters live in a map guarded by a mutex; windows that have
// ended are swept lazily on the next call.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	counters  map[string]*memoryCounter
	lastSweep time.Time
}

type memoryCounter struct {
	windowStart time.Time
	count       int
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		counters: make(map[string]*memoryCounter),
	}
}

// Allow never returns an error.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	start := now.Truncate(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		for k, c := range l.counters {
			if c.windowStart.Before(start) {
				delete(l.counters, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.counters[key]
	if !ok || c.windowStart.Before(start) {
		c = &memoryCounter{windowStart: start}
		l.counters[key] = c
	}
	c.count++

	d := Decision{
		Allowed:   c.count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-c.count, 0),
	}
	if !d.Allowed {
		d.RetryAfter = l.window
	}
	return d, nil
}

func (l *MemoryLimiter) trackedKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}
