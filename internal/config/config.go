// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the dashboard server settings.
type Config struct {
	HTTPAddr        string        `env:"DASHBOARD_HTTP_ADDR" envDefault:":8080"`
	CatalogSize     int           `env:"DASHBOARD_CATALOG_SIZE" envDefault:"1000"`
	CatalogSeed     uint64        `env:"DASHBOARD_CATALOG_SEED" envDefault:"1"`
	SearchDebounce  time.Duration `env:"DASHBOARD_SEARCH_DEBOUNCE" envDefault:"300ms"`
	RateLimit       float64       `env:"DASHBOARD_RATE_LIMIT" envDefault:"50"`
	RateBurst       int           `env:"DASHBOARD_RATE_BURST" envDefault:"100"`
	LogLevel        string        `env:"DASHBOARD_LOG_LEVEL" envDefault:"info"`
	OTelEndpoint    string        `env:"DASHBOARD_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"DASHBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.CatalogSize < 0:
		return fmt.Errorf("%w: catalog size must be >= 0", ErrInvalidConfig)
	case c.SearchDebounce < 0:
		return fmt.Errorf("%w: search debounce must be >= 0", ErrInvalidConfig)
	case c.RateLimit <= 0:
		return fmt.Errorf("%w: rate limit must be > 0", ErrInvalidConfig)
	case c.RateBurst < 1:
		return fmt.Errorf("%w: rate burst must be >= 1", ErrInvalidConfig)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown timeout must be > 0", ErrInvalidConfig)
	}
	return nil
}
