package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/observability"
)

const (
	// RouteUnmatched labels requests that reached no registered route.
	RouteUnmatched = "unmatched"

	// MethodOther labels requests with a non-standard HTTP method.
	MethodOther = "other"
)

// knownMethods bounds the method label to the standard verbs.
var knownMethods = map[string]struct{}{ //nolint:gochecknoglobals // read-only set
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// MethodLabel returns method, or MethodOther when it is not a standard verb.
func MethodLabel(method string) string {
	if _, ok := knownMethods[method]; ok {
		return method
	}
	return MethodOther
}

type routeKey struct{}

// routeLabel is filled in by WithRoute once the mux has picked a handler.
type routeLabel struct {
	route string
}

// WithRoute tags requests served by next with route for metrics.
func WithRoute(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if label, ok := r.Context().Value(routeKey{}).(*routeLabel); ok {
			label.route = route
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Metrics records request count and latency per route and writes the access log.
// Successful health checks are not logged.
func Metrics(sink domain.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			label := &routeLabel{}
			ctx := context.WithValue(r.Context(), routeKey{}, label)
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			route := label.route
			if route == "" {
				route = RouteUnmatched
			}
			duration := time.Since(start)

			sink.ObserveRequest(MethodLabel(r.Method), route, status, duration)

			if r.URL.Path == "/health" && status == http.StatusOK {
				return
			}
			observability.FromContext(ctx).Info("request completed",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("route", route),
				observability.Int("status", status),
				observability.Int("bytes", rec.bytes),
				observability.Duration("duration", duration),
				observability.String("remote_addr", r.RemoteAddr),
				observability.String("user_agent", r.UserAgent()),
			)
		})
	}
}
