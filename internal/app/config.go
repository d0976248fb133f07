package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// RedisAddr left empty means the remote backend is unconfigured and
	// the store runs on process memory.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	TokenSecret string        `envconfig:"TOKEN_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.TokenSecret == "" {
		return nil, errors.New("token secret must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// UseRemoteBackend reports whether the remote key-value backend should be
// selected. Both the production flag and the address must be present;
// the decision is made once per process.
func (c *Config) UseRemoteBackend() bool {
	return c.IsProduction() && c.RedisAddr != ""
}
