package discovery

import (
	"time"

	"github.com/thushan/olla-explorer/internal/config"
)

const (
	DefaultTimeout         = 15 * time.Second
	DefaultMaxResponseSize = 10 * 1024 * 1024
	DefaultRetryBackoff    = 500 * time.Millisecond

	// backoff never grows past this multiple of the base delay
	maxBackoffFactor = 8
	backoffJitter    = 0.2
)

// Config is everything the fetch pipeline needs. It's passed by value so a
// run can be tweaked without touching the shared copy.
type Config struct {
	RequestTimeout  time.Duration
	RetryBackoff    time.Duration
	ServerWorkers   int // 0 picks from the cpu count
	ModelWorkers    int // 0 picks from the cpu count
	RetryAttempts   int
	MaxResponseSize int64
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout:  DefaultTimeout,
		RetryBackoff:    DefaultRetryBackoff,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}

// NewConfig maps the fetch section of the process config, falling back to
// defaults for anything left unset
func NewConfig(fetch config.FetchConfig) Config {
	cfg := Config{
		RequestTimeout:  fetch.RequestTimeout,
		RetryBackoff:    fetch.RetryBackoff,
		ServerWorkers:   fetch.ServerWorkers,
		ModelWorkers:    fetch.ModelWorkers,
		RetryAttempts:   fetch.RetryAttempts,
		MaxResponseSize: fetch.MaxResponseSize,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultTimeout
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = DefaultMaxResponseSize
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	return c
}
