package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/lumen/internal/observability"
)

const validationErrorType = "validation"

// SearchService runs the request pipeline:
// validate, cache lookup, upstream call with retry, cache store.
type SearchService struct {
	upstream Upstream
	cache    *ResultCache
	retry    *RetryPolicy
	metrics  Metrics
}

// NewSearchService creates a new search service (DI constructor).
func NewSearchService(upstream Upstream, cache *ResultCache, retry *RetryPolicy, metrics Metrics) *SearchService {
	return &SearchService{
		upstream: upstream,
		cache:    cache,
		retry:    retry,
		metrics:  metrics,
	}
}

// UpstreamName returns the name of the configured upstream.
func (s *SearchService) UpstreamName() string {
	return s.upstream.Name()
}

// Search answers rawQuery from the cache or the upstream.
// Errors are *ValidationError or wrap *UpstreamError.
func (s *SearchService) Search(ctx context.Context, rawQuery any) (*Outcome, error) {
	query, err := ValidateQuery(rawQuery)
	if err != nil {
		s.metrics.APIError(validationErrorType)
		return nil, err
	}

	ctx = observability.WithUpstream(ctx, s.upstream.Name())
	logger := observability.FromContext(ctx)
	key := CacheKey(query)

	if entry, hit := s.cache.Get(ctx, key); hit {
		return &Outcome{Result: &entry.Payload, CacheHit: true}, nil
	}

	// The upstream call and cache write outlive a disconnecting caller.
	callCtx := context.WithoutCancel(ctx)

	logger.Info("calling upstream",
		observability.String("upstream", s.upstream.Name()),
		observability.Int("query_length", len(query)))

	result, err := s.retry.Do(callCtx, func(attemptCtx context.Context) (*SearchResult, error) {
		return s.upstream.Complete(attemptCtx, query)
	})
	if err != nil {
		class := ClassOf(err)
		s.metrics.APIError(class.String())
		logger.Error("search request failed",
			observability.String("failure_class", class.String()),
			observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if result == nil {
		return nil, errors.New("search failed: upstream returned no result")
	}

	s.cache.Set(callCtx, key, result)

	logger.Info("search completed",
		observability.Int64("duration_ms", result.Duration))

	return &Outcome{Result: result, CacheHit: false}, nil
}
