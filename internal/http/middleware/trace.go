package middleware

import (
	"net/http"

	"github.com/davidbz/lumen/internal/observability"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"

	// maxRequestIDLength bounds caller-supplied request IDs.
	maxRequestIDLength = 128
)

// Trace puts trace, span and request IDs into the request context.
// A caller-supplied X-Request-Id is reused when it is short enough.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(headerRequestID)
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = observability.GenerateRequestID()
			}
			traceID := observability.GenerateTraceID()

			ctx := observability.WithTraceID(r.Context(), traceID)
			ctx = observability.WithSpanID(ctx, observability.GenerateSpanID())
			ctx = observability.WithRequestID(ctx, requestID)

			w.Header().Set(headerTraceID, traceID)
			w.Header().Set(headerRequestID, requestID)

			observability.FromContext(ctx).Debug("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
