package echo

import "time"

const DefaultTimeout = 10 * time.Second

// Config contains echo upstream settings. Delay simulates upstream latency
// and Timeout bounds each call the same way real upstreams are bounded.
type Config struct {
	Delay   time.Duration `env:"ECHO_DELAY"   envDefault:"0s"`
	Timeout time.Duration `env:"ECHO_TIMEOUT" envDefault:"10s"`
}

func (c Config) withDefaults() Config {
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
