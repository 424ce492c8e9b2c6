package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/lumen/internal/observability"
	"github.com/davidbz/lumen/internal/ratelimit"
)

const rateLimitMessage = "Too many requests, please try again later."

// RateLimit rejects clients that exceed limiter's window with 429.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			decision, err := limiter.Allow(ctx, ClientIP(r))
			if err != nil {
				observability.FromContext(ctx).Warn("rate limiter unavailable, allowing request",
					observability.Error(err))
			}

			resetIn := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if resetIn < 0 {
				resetIn = 0
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(resetIn))

			if !decision.Allowed {
				observability.FromContext(ctx).Warn("rate limit exceeded",
					observability.String("client", ClientIP(r)))
				h.Set("Retry-After", strconv.Itoa(resetIn))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": rateLimitMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the peer address of r without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
