package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/davidbz/lumen/internal/observability"
)

// DefaultCacheTTL is how long a search result stays valid.
const DefaultCacheTTL = time.Hour

const (
	cacheKeyPrefix = "search:"

	cacheOpGet = "get"
	cacheOpSet = "set"
)

// CacheKey derives the cache key from the normalized query.
func CacheKey(query Query) string {
	normalized := strings.ToLower(strings.TrimSpace(string(query)))
	hash := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}

// ResultCache is a cache-aside adapter over a CacheStore.
// It never fails a request: backend errors degrade to a miss or a no-op and
// are recorded as cache errors. A nil store disables caching.
type ResultCache struct {
	store   CacheStore
	metrics Metrics
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a result cache over store.
func NewResultCache(store CacheStore, metrics Metrics, ttl time.Duration) *ResultCache {
	return NewResultCacheWithClock(store, metrics, ttl, time.Now)
}

// NewResultCacheWithClock creates a result cache with a custom time source.
func NewResultCacheWithClock(store CacheStore, metrics Metrics, ttl time.Duration, now func() time.Time) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{
		store:   store,
		metrics: metrics,
		ttl:     ttl,
		now:     now,
	}
}

// Enabled reports whether a backend is configured.
func (c *ResultCache) Enabled() bool {
	return c.store != nil
}

// Get looks up key. Entries older than the TTL are misses even when the
// backend still returns them.
func (c *ResultCache) Get(ctx context.Context, key string) (*CacheEntry, bool) {
	if c.store == nil {
		return nil, false
	}

	logger := observability.FromContext(ctx)

	start := time.Now()
	data, err := c.store.Get(ctx, key)
	c.metrics.ObserveCacheOperation(cacheOpGet, time.Since(start))

	switch {
	case errors.Is(err, ErrCacheMiss):
		c.metrics.CacheMiss()
		logger.Info("cache MISS", observability.String("cache_key", key))
		return nil, false
	case err != nil:
		c.metrics.CacheError()
		logger.Warn("cache get failed, continuing without cache",
			observability.String("cache_key", key),
			observability.Error(err))
		return nil, false
	}

	var entry CacheEntry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		c.metrics.CacheError()
		logger.Warn("failed to unmarshal cached entry",
			observability.String("cache_key", key),
			observability.Error(unmarshalErr))
		return nil, false
	}

	age := c.now().Sub(entry.StoredAt)
	if age >= c.ttl {
		c.metrics.CacheMiss()
		logger.Info("cache MISS, entry expired",
			observability.String("cache_key", key),
			observability.Duration("age", age))
		return nil, false
	}

	c.metrics.CacheHit()
	logger.Info("cache HIT",
		observability.String("cache_key", key),
		observability.Duration("age", age))
	return &entry, true
}

// Set stores result under key with the configured TTL. Failures are logged
// and counted, never returned.
func (c *ResultCache) Set(ctx context.Context, key string, result *SearchResult) {
	if c.store == nil || result == nil {
		return
	}

	logger := observability.FromContext(ctx)

	data, err := json.Marshal(CacheEntry{Payload: *result, StoredAt: c.now()})
	if err != nil {
		c.metrics.CacheError()
		logger.Error("failed to marshal cache entry", observability.Error(err))
		return
	}

	start := time.Now()
	err = c.store.Set(ctx, key, data, c.ttl)
	c.metrics.ObserveCacheOperation(cacheOpSet, time.Since(start))
	if err != nil {
		c.metrics.CacheError()
		logger.Warn("failed to store in cache",
			observability.String("cache_key", key),
			observability.Error(err))
		return
	}

	logger.Debug("stored result in cache",
		observability.String("cache_key", key),
		observability.Duration("ttl", c.ttl))
}

// Ping checks the backend. It returns nil when caching is disabled.
func (c *ResultCache) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Ping(ctx)
}
