package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/lumen/internal/http/middleware"
	"github.com/davidbz/lumen/internal/observability"
	"github.com/davidbz/lumen/internal/ratelimit"
)

type observedRequest struct {
	method string
	route  string
	status int
}

type requestSink struct {
	mu       sync.Mutex
	requests []observedRequest
}

func (s *requestSink) CacheHit()                                   {}
func (s *requestSink) CacheMiss()                                  {}
func (s *requestSink) CacheError()                                 {}
func (s *requestSink) APIError(string)                             {}
func (s *requestSink) ObserveCacheOperation(string, time.Duration) {}

func (s *requestSink) ObserveRequest(method, route string, statusCode int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, observedRequest{method: method, route: route, status: statusCode})
}

func TestMetrics(t *testing.T) {
	t.Run("should label requests with the matched route", func(t *testing.T) {
		sink := &requestSink{}
		inner := middleware.WithRoute("/api/search", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		handler := middleware.Metrics(sink)(inner)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/search", nil))

		require.Equal(t, []observedRequest{{method: http.MethodPost, route: "/api/search", status: http.StatusCreated}}, sink.requests)
	})

	t.Run("should fall back to unmatched and implicit 200", func(t *testing.T) {
		sink := &requestSink{}
		handler := middleware.Metrics(sink)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whatever", nil))

		require.Len(t, sink.requests, 1)
		require.Equal(t, middleware.RouteUnmatched, sink.requests[0].route)
		require.Equal(t, http.StatusOK, sink.requests[0].status)
	})
}

func TestMetrics_MethodLabel(t *testing.T) {
	sink := &requestSink{}
	handler := middleware.Metrics(sink)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, method := range []string{"FOO", "BAR", "PROPFIND", http.MethodGet} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/api/anything", nil))
	}

	methods := make([]string, 0, len(sink.requests))
	for _, req := range sink.requests {
		methods = append(methods, req.method)
	}
	require.Equal(t, []string{middleware.MethodOther, middleware.MethodOther, middleware.MethodOther, http.MethodGet}, methods)
}

func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{Allowed: true}, errors.New("redis down")
}

func (failingLimiter) Close() error { return nil }

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("should reject after the limit", func(t *testing.T) {
		limiter := ratelimit.NewMemoryLimiter(2, time.Minute)
		handler := middleware.RateLimit(limiter)(ok)

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
			req.RemoteAddr = "10.0.0.1:5555"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)

			if rec.Code == http.StatusTooManyRequests {
				require.JSONEq(t, `{"error":"Too many requests, please try again later."}`, rec.Body.String())
				require.NotEmpty(t, rec.Header().Get("Retry-After"))
				require.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
			}
		}

		require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("should count clients separately", func(t *testing.T) {
		limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
		handler := middleware.RateLimit(limiter)(ok)

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("should let requests through when limiter fails", func(t *testing.T) {
		handler := middleware.RateLimit(failingLimiter{})(ok)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", nil))

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:43210"
	require.Equal(t, "192.168.1.10", middleware.ClientIP(req))

	req.RemoteAddr = "not-an-addr"
	require.Equal(t, "not-an-addr", middleware.ClientIP(req))
}

func TestTrace(t *testing.T) {
	var seen string
	handler := middleware.Trace()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = observability.GetRequestID(r.Context())
	}))

	t.Run("should reuse caller request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, "abc-123", seen)
		require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
		require.Regexp(t, `^[0-9a-f]{32}$`, rec.Header().Get("X-Trace-Id"))
	})

	t.Run("should generate request id when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})
}
