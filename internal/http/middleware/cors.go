package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/lumen/internal/config"
)

// exposedHeaders are the gateway response headers browsers may read.
var exposedHeaders = []string{ //nolint:gochecknoglobals // read-only list
	"X-Cache",
	"X-Request-Id",
	"RateLimit-Limit",
	"RateLimit-Remaining",
	"RateLimit-Reset",
	"Retry-After",
}

// CORS applies cfg's origin policy. A nil cfg disables CORS handling.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}
