package domain

import (
	"context"
	"time"
)

// Upstream is a completion or search provider.
type Upstream interface {
	// Name returns the upstream identifier.
	Name() string

	// Complete sends the query upstream and returns a normalized result.
	// Failures are returned as *UpstreamError.
	Complete(ctx context.Context, query Query) (*SearchResult, error)
}

// UpstreamRegistry manages the upstreams built at startup.
type UpstreamRegistry interface {
	// Register adds an upstream to the registry.
	Register(ctx context.Context, upstream Upstream) error

	// Get retrieves an upstream by name.
	Get(ctx context.Context, name string) (Upstream, error)

	// List returns the names of all registered upstreams.
	List(ctx context.Context) ([]string, error)
}

// CacheStore is a key/value backend with per-entry TTL.
// Get returns ErrCacheMiss when the key is absent or expired.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Metrics is a write-only sink for gateway metrics.
// Implementations must be safe for concurrent use.
type Metrics interface {
	CacheHit()
	CacheMiss()
	CacheError()
	APIError(errorType string)
	ObserveCacheOperation(operation string, duration time.Duration)
	ObserveRequest(method, route string, statusCode int, duration time.Duration)
}
