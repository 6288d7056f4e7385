// Package config loads connector settings from the environment, optionally
// seeded from dotenv files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// DefaultDotenvFile is read when present and no explicit file is given.
const DefaultDotenvFile = ".env"

var (
	// ErrMissingBaseURL indicates PMS_BASE_URL is unset.
	ErrMissingBaseURL = errors.New("PMS_BASE_URL is required")
	// ErrInvalidBaseURL indicates PMS_BASE_URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("PMS_BASE_URL must be an absolute http(s) URL")
	// ErrMissingCredentials indicates the API key or secret is unset.
	ErrMissingCredentials = errors.New("PMS_API_KEY and PMS_API_SECRET are required")
)

// Config holds connector settings. Field tags follow envdecode syntax.
type Config struct {
	// BaseURL of the property-management API, e.g. https://acme.example.com/api. ENV: PMS_BASE_URL
	BaseURL string `env:"PMS_BASE_URL"`
	// APIKey and APISecret form the HTTP basic credentials. ENV: PMS_API_KEY, PMS_API_SECRET
	APIKey    string `env:"PMS_API_KEY"`
	APISecret string `env:"PMS_API_SECRET"`
	// Timeout bounds each upstream request. ENV: PMS_TIMEOUT
	Timeout time.Duration `env:"PMS_TIMEOUT,default=30s"`
	// LogLevel is one of debug, info, warn, error. ENV: PMS_LOG_LEVEL
	LogLevel string `env:"PMS_LOG_LEVEL,default=info"`
	// UserAgent sent upstream. ENV: PMS_USER_AGENT
	UserAgent string `env:"PMS_USER_AGENT,default=pms-mcp"`
	// RateLimit caps upstream requests per second; 0 disables the cap. ENV: PMS_RATE_LIMIT, PMS_RATE_BURST
	RateLimit float64 `env:"PMS_RATE_LIMIT,default=0"`
	RateBurst int     `env:"PMS_RATE_BURST,default=1"`
}

// Load reads dotenv files into the process environment (never overriding
// variables that are already set) and decodes Config from it. With no files
// given, DefaultDotenvFile is used if it exists. Load does not validate; call
// Validate before talking to the upstream API.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		if _, err := os.Stat(DefaultDotenvFile); err == nil {
			dotenvFiles = []string{DefaultDotenvFile}
		}
	}
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return nil, fmt.Errorf("config: load dotenv: %w", err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: decode environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to reach the upstream API.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.APIKey == "" || c.APISecret == "" {
		return ErrMissingCredentials
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("PMS_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("PMS_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("PMS_RATE_BURST must be at least 1, got %d", c.RateBurst)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("PMS_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}
