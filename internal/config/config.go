package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment     string
	LogLevel        zerolog.Level
	HTTPTimeout     time.Duration
	MaxRetries      int
	SurflineBaseURL string
	RefreshInterval time.Duration
	SnapshotBucket  string
	MetricsAddr     string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithMaxRetries sets how often a failed Surfline request is retried
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.MaxRetries = retries
		}
	}
}

// WithSurflineBaseURL points the fetcher at another Surfline host
func WithSurflineBaseURL(url string) Option {
	return func(c *Config) {
		c.SurflineBaseURL = url
	}
}

// WithRefreshInterval sets how often the widget snapshot is rebuilt
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.RefreshInterval = interval
		}
	}
}

// WithSnapshotBucket sets the S3 bucket snapshots are published to
func WithSnapshotBucket(bucket string) Option {
	return func(c *Config) {
		c.SnapshotBucket = bucket
	}
}

// WithMetricsAddr sets the listen address of the metrics endpoint
func WithMetricsAddr(addr string) Option {
	return func(c *Config) {
		c.MetricsAddr = addr
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:     "production",
		LogLevel:        zerolog.InfoLevel,
		HTTPTimeout:     10 * time.Second,
		MaxRetries:      3,
		SurflineBaseURL: "https://services.surfline.com",
		RefreshInterval: 30 * time.Minute,
		MetricsAddr:     ":9102",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithSurflineBaseURL(getEnvOrDefault("SURFLINE_BASE_URL", "https://services.surfline.com")),
		WithRefreshInterval(getDurationEnvOrDefault("REFRESH_INTERVAL", 30*time.Minute)),
		WithSnapshotBucket(os.Getenv("SNAPSHOT_BUCKET")),
		WithMetricsAddr(getEnvOrDefault("METRICS_ADDR", ":9102")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Msg("Invalid duration value in environment variable, using default")
	}
	return defaultValue
}
