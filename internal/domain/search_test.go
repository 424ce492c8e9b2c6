package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/lumen/internal/cache/memory"
	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/mocks"
)

type searchFixture struct {
	upstream *mocks.MockUpstream
	store    *memory.Store
	metrics  *recordingMetrics
	service  *domain.SearchService
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()

	upstream := mocks.NewMockUpstream(t)
	upstream.EXPECT().Name().Return("test-upstream").Maybe()

	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })
	metrics := newRecordingMetrics()
	cache := domain.NewResultCache(store, metrics, time.Hour)

	return &searchFixture{
		upstream: upstream,
		store:    store,
		metrics:  metrics,
		service:  domain.NewSearchService(upstream, cache, domain.NewRetryPolicy(3, time.Millisecond), metrics),
	}
}

func TestSearchService_Search(t *testing.T) {
	t.Run("should call upstream on miss and populate cache", func(t *testing.T) {
		f := newSearchFixture(t)
		ctx := context.Background()
		want := &domain.SearchResult{Result: "AI is...", Duration: 42, Timestamp: "2024-01-15T09:30:00.000Z"}

		f.upstream.EXPECT().
			Complete(mock.Anything, domain.Query("What is artificial intelligence?")).
			Return(want, nil).
			Once()

		outcome, err := f.service.Search(ctx, "  What is artificial intelligence?  ")

		require.NoError(t, err)
		require.False(t, outcome.CacheHit)
		require.Equal(t, want, outcome.Result)
		require.Equal(t, 1, f.metrics.misses)
		require.Zero(t, f.metrics.hits)
		require.Equal(t, 1, f.metrics.cacheOps["get"])
		require.Equal(t, 1, f.metrics.cacheOps["set"])
		require.Equal(t, 1, f.store.Len())
	})

	t.Run("should serve repeated query from cache without upstream call", func(t *testing.T) {
		f := newSearchFixture(t)
		ctx := context.Background()
		want := &domain.SearchResult{Result: "cached answer", Duration: 10, Timestamp: "2024-01-15T09:30:00.000Z"}

		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).Return(want, nil).Once()

		_, err := f.service.Search(ctx, "What is Go?")
		require.NoError(t, err)

		outcome, err := f.service.Search(ctx, "  WHAT IS GO?  ")

		require.NoError(t, err)
		require.True(t, outcome.CacheHit)
		require.Equal(t, want, outcome.Result)
		require.Equal(t, 1, f.metrics.hits)
		require.Equal(t, 1, f.metrics.misses)
		require.Equal(t, 1, f.metrics.cacheOps["set"])
		f.upstream.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("should reject invalid query before cache or upstream", func(t *testing.T) {
		store := mocks.NewMockCacheStore(t)
		upstream := mocks.NewMockUpstream(t)
		metrics := newRecordingMetrics()
		service := domain.NewSearchService(
			upstream,
			domain.NewResultCache(store, metrics, time.Hour),
			domain.NewRetryPolicy(3, time.Millisecond),
			metrics,
		)

		for _, raw := range []any{nil, "a", 12.0, ""} {
			outcome, err := service.Search(context.Background(), raw)

			require.Nil(t, outcome)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
		}

		require.Equal(t, 4, metrics.apiErrors["validation"])
		require.Empty(t, metrics.cacheOps)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		upstream.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("should retry transient failures then store result", func(t *testing.T) {
		f := newSearchFixture(t)
		want := &domain.SearchResult{Result: "eventually"}

		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).
			Return(nil, domain.NewNetworkError(errors.New("refused"))).Twice()
		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).Return(want, nil).Once()

		outcome, err := f.service.Search(context.Background(), "retry me")

		require.NoError(t, err)
		require.Equal(t, want, outcome.Result)
		f.upstream.AssertNumberOfCalls(t, "Complete", 3)
		require.Equal(t, 1, f.store.Len())
	})

	t.Run("should surface upstream failure without caching", func(t *testing.T) {
		f := newSearchFixture(t)

		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).
			Return(nil, domain.NewHTTPStatusError(503, "unavailable")).Once()

		outcome, err := f.service.Search(context.Background(), "will fail")

		require.Nil(t, outcome)
		require.Equal(t, domain.FailureUpstreamHTTP, domain.ClassOf(err))
		require.Equal(t, 1, f.metrics.apiErrors["upstream_http_error"])
		require.Zero(t, f.metrics.cacheOps["set"])
		require.Zero(t, f.store.Len())
	})

	t.Run("should continue when cache backend is down", func(t *testing.T) {
		store := mocks.NewMockCacheStore(t)
		upstream := mocks.NewMockUpstream(t)
		metrics := newRecordingMetrics()
		service := domain.NewSearchService(
			upstream,
			domain.NewResultCache(store, metrics, time.Hour),
			domain.NewRetryPolicy(3, time.Millisecond),
			metrics,
		)
		down := errors.New("redis: client is closed")

		upstream.EXPECT().Name().Return("test-upstream").Maybe()
		store.EXPECT().Get(mock.Anything, mock.Anything).Return(nil, down)
		store.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(down)
		upstream.EXPECT().Complete(mock.Anything, mock.Anything).Return(&domain.SearchResult{Result: "fresh"}, nil)

		outcome, err := service.Search(context.Background(), "still works")

		require.NoError(t, err)
		require.Equal(t, "fresh", outcome.Result.Result)
		require.Equal(t, 2, metrics.errors)
	})

	t.Run("should finish upstream call when caller cancels", func(t *testing.T) {
		f := newSearchFixture(t)
		ctx, cancel := context.WithCancel(context.Background())

		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).
			RunAndReturn(func(callCtx context.Context, _ domain.Query) (*domain.SearchResult, error) {
				cancel()
				require.NoError(t, callCtx.Err())
				return &domain.SearchResult{Result: "done"}, nil
			}).Once()

		outcome, err := f.service.Search(ctx, "cancel me")

		require.NoError(t, err)
		require.Equal(t, "done", outcome.Result.Result)
		require.Equal(t, 1, f.store.Len())
	})

	t.Run("should tolerate concurrent misses for the same key", func(t *testing.T) {
		f := newSearchFixture(t)

		f.upstream.EXPECT().Complete(mock.Anything, mock.Anything).
			Return(&domain.SearchResult{Result: "same"}, nil)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome, err := f.service.Search(context.Background(), "popular query")
				if assert.NoError(t, err) {
					assert.Equal(t, "same", outcome.Result.Result)
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, f.store.Len())
	})
}
