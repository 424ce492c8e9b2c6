// Package ratelimit implements fixed-window request limiting per client key.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultMax    = 100
	DefaultWindow = 15 * time.Minute
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key within fixed windows.
type Limiter interface {
	// Allow records one request for key. On backend failure the returned
	// Decision allows the request and the error is reported alongside it.
	Allow(ctx context.Context, key string) (Decision, error)

	Close() error
}

// windowStart aligns t to the start of its window.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}

func decide(count int64, limit int, resetAt time.Time) Decision {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}
}

func normalize(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return limit, window
}
