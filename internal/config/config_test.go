package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		HTTPAddr:        ":8080",
		CatalogSize:     1000,
		CatalogSeed:     1,
		SearchDebounce:  300 * time.Millisecond,
		RateLimit:       50,
		RateBurst:       100,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}, cfg)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("DASHBOARD_CATALOG_SIZE", "25")
	t.Setenv("DASHBOARD_CATALOG_SEED", "7")
	t.Setenv("DASHBOARD_SEARCH_DEBOUNCE", "1s")
	t.Setenv("DASHBOARD_LOG_LEVEL", "debug")
	t.Setenv("DASHBOARD_OTEL_ENDPOINT", "http://localhost:4318")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 25, cfg.CatalogSize)
	assert.Equal(t, uint64(7), cfg.CatalogSeed)
	assert.Equal(t, time.Second, cfg.SearchDebounce)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:4318", cfg.OTelEndpoint)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("DASHBOARD_CATALOG_SIZE", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadValidates(t *testing.T) {
	t.Setenv("DASHBOARD_RATE_LIMIT", "0")

	_, err := Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
}
