package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kdscan/internal/extract"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KarmaDecayConfig controls the upstream search client.
type KarmaDecayConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   string `mapstructure:"timeout"`  // duration string, e.g., "15s"
	Fallback  string `mapstructure:"fallback"` // "none" or a whole number used for unparsable counts
	CacheSize int    `mapstructure:"cache_size"`
}

// RateLimitConfig spaces upstream requests. With Redis set, the gate is
// shared by every process using the same key.
type RateLimitConfig struct {
	Interval string `mapstructure:"interval"`
	Redis    bool   `mapstructure:"redis"`
	Key      string `mapstructure:"key"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig        `mapstructure:"app"`
	KD        KarmaDecayConfig `mapstructure:"kd"`
	RateLimit RateLimitConfig  `mapstructure:"rate_limit"`
	Redis     RedisConfig      `mapstructure:"redis"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.KD.BaseURL == "" {
		c.KD.BaseURL = "http://karmadecay.com"
	}
	if c.KD.Timeout == "" {
		c.KD.Timeout = "15s"
	}
	if c.KD.Fallback == "" {
		c.KD.Fallback = "none"
	}
	if c.KD.CacheSize == 0 {
		c.KD.CacheSize = 100
	}
	if c.RateLimit.Interval == "" {
		c.RateLimit.Interval = "1s"
	}
	if c.RateLimit.Key == "" {
		c.RateLimit.Key = "kdscan:ratelimit"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
}

// TimeoutDuration parses kd.timeout.
func (c KarmaDecayConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid kd.timeout: %w", err)
	}
	return d, nil
}

// ParsedFallback parses kd.fallback.
func (c KarmaDecayConfig) ParsedFallback() (extract.Fallback, error) {
	fb, err := extract.ParseFallback(c.Fallback)
	if err != nil {
		return extract.Fallback{}, fmt.Errorf("invalid kd.fallback: %w", err)
	}
	return fb, nil
}

// IntervalDuration parses rate_limit.interval.
func (c RateLimitConfig) IntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid rate_limit.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid rate_limit.interval: must be positive, got %s", c.Interval)
	}
	return d, nil
}

// SlogLevel maps app.log_level to a slog level, defaulting to info.
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
