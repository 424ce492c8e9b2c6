package domain

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/davidbz/lumen/internal/observability"
)

const (
	// DefaultRetryAttempts is the total number of attempts, including the first.
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = time.Second
)

// RetryPolicy retries transient upstream failures with a fixed delay.
// Only FailureNetwork and FailureTimeout are retried; every other error is
// returned after the attempt that produced it.
type RetryPolicy struct {
	maxAttempts int
	delay       time.Duration
}

// NewRetryPolicy creates a retry policy. Non-positive values use the defaults.
func NewRetryPolicy(maxAttempts int, delay time.Duration) *RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRetryAttempts
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		delay:       delay,
	}
}

// MaxAttempts returns the attempt bound.
func (p *RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Do runs call until it succeeds, fails terminally, or attempts run out.
// The last error is returned unchanged.
func (p *RetryPolicy) Do(
	ctx context.Context,
	call func(ctx context.Context) (*SearchResult, error),
) (*SearchResult, error) {
	logger := observability.FromContext(ctx)

	attempt := 0
	operation := func() (*SearchResult, error) {
		attempt++
		result, err := call(ctx)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	//nolint:gosec // maxAttempts is always positive
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(p.delay)),
		backoff.WithMaxTries(uint(p.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("upstream call failed, retrying",
				observability.Int("attempt", attempt),
				observability.Int("max_attempts", p.maxAttempts),
				observability.Duration("delay", next),
				observability.String("failure_class", ClassOf(err).String()),
				observability.Error(err))
		}),
	)
}
