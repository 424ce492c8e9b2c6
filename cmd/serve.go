package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davidbz/lumen/internal/config"
	"github.com/davidbz/lumen/internal/http"
	"github.com/davidbz/lumen/internal/ratelimit"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the search gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(
		server *http.Server,
		backend *cacheBackend,
		limiter ratelimit.Limiter,
		cfg *config.ServerConfig,
		logger *zap.Logger,
	) error {
		defer func() { _ = logger.Sync() }()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(server.Start)

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})

		serveErr := g.Wait()

		// Backends close after in-flight requests have drained.
		closeErr := errors.Join(backend.Close(), limiter.Close())
		if closeErr != nil {
			logger.Warn("failed to close backends", zap.Error(closeErr))
		}

		return serveErr
	})
}
