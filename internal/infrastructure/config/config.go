package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	StylesPath      string        `envconfig:"STYLES_PATH" default:"/styles.css"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// UpstreamConfig holds the style-data service connection settings.
// With no URL set, tokens are read from TokensFile instead.
type UpstreamConfig struct {
	URL        string        `envconfig:"STYLES_UPSTREAM_URL"`
	Token      string        `envconfig:"STYLES_UPSTREAM_TOKEN"`
	Timeout    time.Duration `envconfig:"STYLES_UPSTREAM_TIMEOUT" default:"10s"`
	RPS        float64       `envconfig:"STYLES_UPSTREAM_RPS" default:"0"`
	TokensFile string        `envconfig:"STYLES_TOKENS_FILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds cross-origin settings for the stylesheet route.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			StylesPath:      "/styles.css",
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.StylesPath, "/") {
		return fmt.Errorf("STYLES_PATH must start with '/': %q", c.Server.StylesPath)
	}
	if c.Upstream.URL != "" {
		u, err := url.Parse(c.Upstream.URL)
		if err != nil {
			return fmt.Errorf("STYLES_UPSTREAM_URL is invalid: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("STYLES_UPSTREAM_URL must be http or https: %q", c.Upstream.URL)
		}
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("STYLES_UPSTREAM_TIMEOUT must be greater than 0")
	}
	if c.Upstream.RPS < 0 {
		return fmt.Errorf("STYLES_UPSTREAM_RPS must not be negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond < 1 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}
