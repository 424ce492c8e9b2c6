package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/davidbz/lumen/internal/config"
	"github.com/davidbz/lumen/internal/http/middleware"
	"github.com/davidbz/lumen/internal/metrics"
	"github.com/davidbz/lumen/internal/observability"
	"github.com/davidbz/lumen/internal/ratelimit"
)

// Route labels used for metrics.
const (
	RouteSearch   = "/api/search"
	RouteHealth   = "/health"
	RouteMetrics  = "/metrics"
	RouteNotFound = "not_found"
	RouteStatic   = "static"
)

// Server represents the HTTP server.
type Server struct {
	config  *config.ServerConfig
	handler http.Handler
	srv     *http.Server
}

// NewServer creates a new HTTP server and registers its routes.
func NewServer(
	cfg *config.ServerConfig,
	app *config.AppConfig,
	handler *Handler,
	prom *metrics.Prometheus,
	limiter ratelimit.Limiter,
	middlewares middleware.Middleware,
) *Server {
	mux := http.NewServeMux()
	limit := middleware.RateLimit(limiter)
	notFound := http.HandlerFunc(handler.NotFound)

	// Register routes.
	mux.Handle("POST /api/search", middleware.WithRoute(RouteSearch, limit(http.HandlerFunc(handler.HandleSearch))))
	mux.Handle("/api/", middleware.WithRoute(RouteNotFound, limit(notFound)))
	mux.Handle("GET /health", middleware.WithRoute(RouteHealth, http.HandlerFunc(handler.HandleHealth)))
	mux.Handle("GET /metrics", middleware.WithRoute(RouteMetrics, prom.Handler()))

	if app.StaticDir != "" {
		mux.Handle("/", middleware.WithRoute(RouteStatic, newSPAHandler(app.StaticDir, notFound)))
	} else {
		mux.Handle("/", middleware.WithRoute(RouteNotFound, notFound))
	}

	routed := middlewares(mux)

	return &Server{
		config:  cfg,
		handler: routed,
		srv: &http.Server{
			Handler:           routed,
			ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
			ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
		},
	}
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.String("addr", ln.Addr().String()))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
