// Package memory provides an in-process cache store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/davidbz/lumen/internal/domain"
)

// DefaultCapacity bounds the number of entries; the least recently written
// entry is evicted first once it is reached.
const DefaultCapacity = 10000

// Store is an in-memory domain.CacheStore. Expired entries are removed by a
// background sweeper started with the store and stopped by Close.
type Store struct {
	cache     *ttlcache.Cache[string, []byte]
	closeOnce sync.Once
}

// NewStore creates an empty store with DefaultCapacity.
func NewStore() *Store {
	return NewStoreWithCapacity(DefaultCapacity)
}

// NewStoreWithCapacity creates an empty store holding at most capacity entries.
func NewStoreWithCapacity(capacity uint64) *Store {
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	cache := ttlcache.New[string, []byte](
		ttlcache.WithCapacity[string, []byte](capacity),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go cache.Start()

	return &Store{cache: cache}
}

// Get returns the value for key, or domain.ErrCacheMiss if absent or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, domain.ErrCacheMiss
	}

	value := make([]byte, len(item.Value()))
	copy(value, item.Value())
	return value, nil
}

// Set stores value under key for ttl. A non-positive ttl stores nothing.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.cache.Set(key, stored, ttl)

	return nil
}

// Len returns the number of stored entries, including expired ones the
// sweeper has not removed yet.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close stops the sweeper and drops all entries. It is safe to call twice.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cache.Stop()
		s.cache.DeleteAll()
	})
	return nil
}

var _ domain.CacheStore = (*Store)(nil)
