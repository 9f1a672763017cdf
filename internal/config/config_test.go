package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "https://services.surfline.com", cfg.SurflineBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Empty(t, cfg.SnapshotBucket)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(*testing.T, *Config)
	}{
		{
			name:  "environment",
			opt:   WithEnvironment("development"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "development", c.Environment) },
		},
		{
			name:  "log level",
			opt:   WithLogLevel("debug"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, zerolog.DebugLevel, c.LogLevel) },
		},
		{
			name:  "unparseable log level falls back to info",
			opt:   WithLogLevel("chatty"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, zerolog.InfoLevel, c.LogLevel) },
		},
		{
			name:  "http timeout",
			opt:   WithHTTPTimeout(30 * time.Second),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 30*time.Second, c.HTTPTimeout) },
		},
		{
			name:  "negative retries ignored",
			opt:   WithMaxRetries(-1),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 3, c.MaxRetries) },
		},
		{
			name:  "refresh interval",
			opt:   WithRefreshInterval(5 * time.Minute),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 5*time.Minute, c.RefreshInterval) },
		},
		{
			name:  "zero refresh interval ignored",
			opt:   WithRefreshInterval(0),
			check: func(t *testing.T, c *Config) { assert.Equal(t, 30*time.Minute, c.RefreshInterval) },
		},
		{
			name:  "snapshot bucket",
			opt:   WithSnapshotBucket("widget-snapshots"),
			check: func(t *testing.T, c *Config) { assert.Equal(t, "widget-snapshots", c.SnapshotBucket) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, New(tt.opt))
		})
	}
}

func TestInitializeLogging(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)

	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("HTTP_MAX_RETRIES", "1")
	t.Setenv("SURFLINE_BASE_URL", "http://localhost:8080")
	t.Setenv("REFRESH_INTERVAL", "10m")
	t.Setenv("SNAPSHOT_BUCKET", "snapshots")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, "http://localhost:8080", cfg.SurflineBaseURL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "snapshots", cfg.SnapshotBucket)
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "half an hour")

	cfg := LoadFromEnv()

	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
}
