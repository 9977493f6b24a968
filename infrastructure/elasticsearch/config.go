package elasticsearch

import (
	"time"

	"github.com/jonesrussell/trendboard/infrastructure/retry"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	// URL is the server address, e.g. http://elasticsearch:9200.
	URL      string
	Username string
	Password string
	APIKey   string

	// MaxRetries is passed to the transport for individual requests.
	MaxRetries int
	// PingTimeout bounds each connection check.
	PingTimeout time.Duration
	// RetryConfig controls how often the initial ping is retried.
	RetryConfig *retry.Config
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  5,
			InitialDelay: 2 * time.Second,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		}
	}
}
