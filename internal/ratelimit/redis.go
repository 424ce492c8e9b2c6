package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisLimiter shares counters across gateway instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a limiter over client. The limiter owns the client.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return NewRedisLimiterWithClock(client, limit, window, time.Now)
}

// NewRedisLimiterWithClock creates a limiter with a custom time source.
func NewRedisLimiterWithClock(
	client *redis.Client,
	limit int,
	window time.Duration,
	now func() time.Time,
) *RedisLimiter {
	limit, window = normalize(limit, window)
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    now,
	}
}

// Allow implements Limiter. Redis errors fail open.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	start := windowStart(l.now(), l.window)
	resetAt := start.Add(l.window)
	redisKey := redisKeyPrefix + key + ":" + strconv.FormatInt(start.Unix(), 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAt: resetAt},
			fmt.Errorf("rate limit counter: %w", err)
	}

	return decide(incr.Val(), l.limit, resetAt), nil
}

// Close releases the connection pool.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
