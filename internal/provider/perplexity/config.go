package perplexity

import "time"

const (
	DefaultBaseURL     = "https://api.perplexity.ai/search"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 10 * time.Second
)

// Config contains Perplexity web search configuration.
type Config struct {
	APIKey  string        `env:"PERPLEXITY_API_KEY"`
	BaseURL string        `env:"PERPLEXITY_API_URL" envDefault:"https://api.perplexity.ai/search"`
	Timeout time.Duration `env:"PERPLEXITY_TIMEOUT" envDefault:"10s"`
}
