package notifier

import "time"

// Config holds webhook delivery settings, loaded from the environment.
type Config struct {
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`

	// RetryInterval is the initial backoff delay; it doubles per retry.
	RetryInterval time.Duration `env:"WEBHOOK_RETRY_INTERVAL" envDefault:"1s"`

	// MaxRetryInterval caps the backoff delay.
	MaxRetryInterval time.Duration `env:"WEBHOOK_MAX_RETRY_INTERVAL" envDefault:"30s"`

	// SigningSecret enables HMAC signature headers when non-empty.
	SigningSecret string `env:"WEBHOOK_SIGNING_SECRET"`
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = time.Second
	}
	if c.MaxRetryInterval <= 0 {
		c.MaxRetryInterval = 30 * time.Second
	}
	return c
}
