package main

import (
	"context"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/lumen/internal/cache/memory"
	"github.com/davidbz/lumen/internal/cache/redis"
	"github.com/davidbz/lumen/internal/cache/sqlite"
	"github.com/davidbz/lumen/internal/config"
	"github.com/davidbz/lumen/internal/domain"
	"github.com/davidbz/lumen/internal/http"
	"github.com/davidbz/lumen/internal/http/middleware"
	"github.com/davidbz/lumen/internal/metrics"
	"github.com/davidbz/lumen/internal/observability"
	"github.com/davidbz/lumen/internal/provider/echo"
	"github.com/davidbz/lumen/internal/provider/openai"
	"github.com/davidbz/lumen/internal/provider/perplexity"
	"github.com/davidbz/lumen/internal/provider/registry"
	"github.com/davidbz/lumen/internal/ratelimit"
)

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", func(app *config.AppConfig) (*zap.Logger, error) {
			return observability.InitLogger(app.IsDevelopment())
		}},
		{"metrics", metrics.NewPrometheus},
		{"metrics sink", func(p *metrics.Prometheus) domain.Metrics { return p }},

		// Cache
		{"cache backend", newCacheBackend},
		{"result cache", func(b *cacheBackend, cfg *config.CacheConfig, m domain.Metrics) *domain.ResultCache {
			return domain.NewResultCache(b.store, m, cfg.TTL)
		}},

		// Upstreams
		{"upstream registry", newUpstreamRegistry},
		{"upstream", selectUpstream},
		{"retry policy", func(cfg *config.UpstreamConfig) *domain.RetryPolicy {
			return domain.NewRetryPolicy(cfg.RetryAttempts, cfg.RetryDelay)
		}},

		// Domain Services
		{"search service", domain.NewSearchService},

		// HTTP Layer
		{"rate limiter", newLimiter},
		{"middleware", middleware.BuildMiddlewareChain},
		{"HTTP handler", http.NewHandler},
		{"HTTP server", http.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

// cacheBackend holds the selected store. store is nil when caching is off.
type cacheBackend struct {
	store domain.CacheStore
}

func newCacheBackend(cfg *config.CacheConfig, m domain.Metrics, logger *zap.Logger) (*cacheBackend, error) {
	switch cfg.Backend {
	case config.CacheBackendNone:
		logger.Info("result cache disabled")
		return &cacheBackend{}, nil

	case config.CacheBackendMemory:
		return &cacheBackend{store: memory.NewStore()}, nil

	case config.CacheBackendSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return &cacheBackend{store: store}, nil

	case config.CacheBackendRedis:
		client, err := redis.NewClient(cfg.RedisURL, cfg.DialTimeout)
		if err != nil {
			return nil, err
		}
		store := redis.NewStore(client)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			// The client reconnects on demand; until then every lookup
			// degrades to a counted cache error.
			m.CacheError()
			logger.Warn("Redis not available, serving uncached until it recovers", zap.Error(err))
			return &cacheBackend{store: store}, nil
		}
		logger.Info("connected to Redis")
		return &cacheBackend{store: store}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Close releases the store, if any.
func (b *cacheBackend) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// newUpstreamRegistry registers every upstream. Missing credentials are
// reported per request, so unconfigured upstreams still register.
func newUpstreamRegistry(
	openaiCfg *openai.Config,
	perplexityCfg *perplexity.Config,
	echoCfg *echo.Config,
) (domain.UpstreamRegistry, error) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	for _, upstream := range []domain.Upstream{
		openai.NewProvider(*openaiCfg),
		perplexity.NewProvider(*perplexityCfg),
		echo.NewProvider(*echoCfg),
	} {
		if err := reg.Register(ctx, upstream); err != nil {
			return nil, fmt.Errorf("failed to register %s upstream: %w", upstream.Name(), err)
		}
	}

	return reg, nil
}

func selectUpstream(reg domain.UpstreamRegistry, cfg *config.UpstreamConfig, logger *zap.Logger) (domain.Upstream, error) {
	upstream, err := reg.Get(context.Background(), cfg.Provider)
	if err != nil {
		names, _ := reg.List(context.Background())
		return nil, fmt.Errorf("UPSTREAM_PROVIDER %q: %w (available: %v)", cfg.Provider, err, names)
	}
	logger.Info("upstream selected", zap.String("upstream", upstream.Name()))
	return upstream, nil
}

func newLimiter(rl *config.RateLimitConfig, cache *config.CacheConfig) (ratelimit.Limiter, error) {
	switch rl.Backend {
	case config.RateLimitBackendRedis:
		client, err := redis.NewClient(cache.RedisURL, cache.DialTimeout)
		if err != nil {
			return nil, err
		}
		return ratelimit.NewRedisLimiter(client, rl.Max, rl.Window), nil
	case config.RateLimitBackendMemory:
		return ratelimit.NewMemoryLimiter(rl.Max, rl.Window), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", rl.Backend)
	}
}
