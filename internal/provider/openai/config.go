package openai

import "time"

const (
	DefaultModel        = "hf:mistralai/Mixtral-8x7B-Instruct-v0.1"
	DefaultSystemPrompt = "You are a helpful assistant that provides clear, concise answers."
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 150
	DefaultTimeout      = 10 * time.Second
)

// Config contains OpenAI-compatible upstream configuration.
// All fields map to SDK options or request parameters:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Per-call deadline applied to each attempt
type Config struct {
	APIKey       string        `env:"OPENAI_API_KEY"`
	BaseURL      string        `env:"OPENAI_API_URL"`
	Model        string        `env:"OPENAI_MODEL"         envDefault:"hf:mistralai/Mixtral-8x7B-Instruct-v0.1"`
	SystemPrompt string        `env:"OPENAI_SYSTEM_PROMPT" envDefault:"You are a helpful assistant that provides clear, concise answers."`
	Temperature  float64       `env:"OPENAI_TEMPERATURE"   envDefault:"0.7"`
	MaxTokens    int           `env:"OPENAI_MAX_TOKENS"    envDefault:"150"`
	Timeout      time.Duration `env:"OPENAI_TIMEOUT"       envDefault:"10s"`
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	// Zero is a valid temperature; only negative values are replaced.
	if c.Temperature < 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
