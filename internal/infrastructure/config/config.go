// Package config loads runtime configuration for the portal from the
// environment using go-envconfig. A .env file, when present, is loaded by
// main before Load runs.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CookieSecure marks the session cookie Secure; enable behind TLS.
	CookieSecure bool `env:"COOKIE_SECURE, default=false"`
	// SessionTTL bounds how long an idle session record survives in the store.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Upstream UpstreamConfig
	Redis    RedisConfig
}

// UpstreamConfig points at the marketplace REST API this portal fronts.
type UpstreamConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=10s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the portal runs in a local dev environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
