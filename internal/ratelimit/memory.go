package ratelimit

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	start time.Time
	count int64
}

// MemoryLimiter keeps per-key counters in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*counter
	now      func() time.Time
}

// NewMemoryLimiter creates an in-process fixed-window limiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return NewMemoryLimiterWithClock(limit, window, time.Now)
}

// NewMemoryLimiterWithClock creates a limiter with a custom time source.
func NewMemoryLimiterWithClock(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	limit, window = normalize(limit, window)
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string]*counter),
		now:      now,
	}
}

// Allow implements Limiter. It never fails.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	start := windowStart(l.now(), l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counters[key]
	if !ok || !c.start.Equal(start) {
		if !ok {
			l.sweepLocked(start)
		}
		c = &counter{start: start}
		l.counters[key] = c
	}
	c.count++

	return decide(c.count, l.limit, start.Add(l.window)), nil
}

// sweepLocked drops counters from earlier windows.
func (l *MemoryLimiter) sweepLocked(current time.Time) {
	for key, c := range l.counters {
		if c.start.Before(current) {
			delete(l.counters, key)
		}
	}
}

// Close drops all counters.
func (l *MemoryLimiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters = make(map[string]*counter)
	return nil
}
