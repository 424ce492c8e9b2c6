// Package redis provides a Redis-backed domain.CacheStore.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/lumen/internal/domain"
)

// DefaultDialTimeout bounds connection setup so an unreachable Redis fails fast.
const DefaultDialTimeout = 2 * time.Second

// NewClient creates a Redis client from a redis:// or rediss:// URL.
func NewClient(rawURL string, dialTimeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = dialTimeout
	opts.WriteTimeout = dialTimeout

	return redis.NewClient(opts), nil
}

// Store implements domain.CacheStore on Redis strings. Expiry is enforced by
// Redis through SET EX.
type Store struct {
	client *redis.Client
}

// NewStore creates a store over client. The store owns the client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set stores value under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
