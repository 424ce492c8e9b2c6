package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/lumen/internal/provider/echo"
	"github.com/davidbz/lumen/internal/provider/openai"
	"github.com/davidbz/lumen/internal/provider/perplexity"
)

// Config represents the gateway configuration.
type Config struct {
	App        AppConfig
	Server     ServerConfig
	CORS       CORSConfig
	Upstream   UpstreamConfig
	OpenAI     openai.Config
	Perplexity perplexity.Config
	Echo       echo.Config
	Cache      CacheConfig
	RateLimit  RateLimitConfig
}

// AppConfig contains process-wide settings.
type AppConfig struct {
	Env       string `env:"APP_ENV"     envDefault:"production"`
	Version   string `env:"APP_VERSION" envDefault:"dev"`
	StaticDir string `env:"STATIC_DIR"`
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT"             envDefault:"5000"`
	ReadTimeout     int           `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int           `env:"SERVER_WRITE_TIMEOUT"    envDefault:"45"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"http://localhost:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// UpstreamConfig selects the upstream and its retry policy.
type UpstreamConfig struct {
	Provider      string        `env:"UPSTREAM_PROVIDER"       envDefault:"openai"`
	RetryAttempts int           `env:"UPSTREAM_RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay    time.Duration `env:"UPSTREAM_RETRY_DELAY"    envDefault:"1s"`
}

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"
	CacheBackendNone   = "none"
)

// CacheConfig contains result cache settings.
type CacheConfig struct {
	Backend     string        `env:"CACHE_BACKEND"      envDefault:"redis"`
	TTL         time.Duration `env:"CACHE_TTL"          envDefault:"1h"`
	RedisURL    string        `env:"REDIS_URL"          envDefault:"redis://localhost:6379"`
	SQLitePath  string        `env:"CACHE_SQLITE_PATH"  envDefault:"lumen-cache.db"`
	DialTimeout time.Duration `env:"CACHE_DIAL_TIMEOUT" envDefault:"2s"`
}

// Rate limit backends.
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// RateLimitConfig contains per-client request limits for the API.
type RateLimitConfig struct {
	Backend string        `env:"RATE_LIMIT_BACKEND" envDefault:"memory"`
	Max     int           `env:"RATE_LIMIT_MAX"     envDefault:"100"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW"  envDefault:"15m"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*AppConfig
	*ServerConfig
	*CORSConfig
	*UpstreamConfig
	*CacheConfig
	*RateLimitConfig
	OpenAI     *openai.Config
	Perplexity *perplexity.Config
	Echo       *echo.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory, CacheBackendSQLite, CacheBackendNone:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	switch c.RateLimit.Backend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}

	return nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.App,
		&cfg.Server,
		&cfg.CORS,
		&cfg.Upstream,
		&cfg.Cache,
		&cfg.RateLimit,
		&cfg.OpenAI,
		&cfg.Perplexity,
		&cfg.Echo,
	}
}
