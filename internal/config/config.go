// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OCMS_DB_PATH" envDefault:"./data/menus.db"`
	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"OCMS_REDIS_URL"`                             // Optional Redis URL for distributed caching
	CachePrefix  string `env:"OCMS_CACHE_PREFIX" envDefault:"ocms-menus:"` // Redis key prefix
	CacheTTL     int    `env:"OCMS_CACHE_TTL" envDefault:"300"`            // Menu cache TTL in seconds
	CacheMaxSize int    `env:"OCMS_CACHE_MAX_SIZE" envDefault:"10000"`     // Max memory cache entries

	// Editor sessions
	MaxSessions        int `env:"OCMS_MAX_SESSIONS" envDefault:"256"`
	SessionIdleMinutes int `env:"OCMS_SESSION_IDLE_MINUTES" envDefault:"60"` // 0 keeps idle sessions until evicted

	// Maintenance
	EventRetentionDays int `env:"OCMS_EVENT_RETENTION_DAYS" envDefault:"30"` // 0 keeps the event log forever

	// Request limits
	RateLimitRPS   float64 `env:"OCMS_RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst int     `env:"OCMS_RATE_LIMIT_BURST" envDefault:"200"`
	RequestTimeout int     `env:"OCMS_REQUEST_TIMEOUT" envDefault:"30"` // Seconds

	// Webhooks
	WebhookURLs   []string `env:"OCMS_WEBHOOK_URLS" envSeparator:","` // Endpoints notified after each menu save
	WebhookSecret string   `env:"OCMS_WEBHOOK_SECRET"`                // HMAC-SHA256 key for X-Webhook-Signature

	// Seeding configuration
	DoSeed bool `env:"OCMS_DO_SEED" envDefault:"false"` // Create the demo menu on an empty database
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RequestTimeoutDuration returns RequestTimeout as a duration.
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// SessionIdle returns SessionIdleMinutes as a duration.
func (c Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// EventRetention returns EventRetentionDays as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("OCMS_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("OCMS_CACHE_TTL must not be negative, got %d", c.CacheTTL)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("OCMS_MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.SessionIdleMinutes < 0 || c.EventRetentionDays < 0 {
		return fmt.Errorf("OCMS_SESSION_IDLE_MINUTES and OCMS_EVENT_RETENTION_DAYS must not be negative")
	}
	for _, u := range c.WebhookURLs {
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("OCMS_WEBHOOK_URLS: invalid URL %q", u)
		}
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("OCMS_RATE_LIMIT_RPS and OCMS_RATE_LIMIT_BURST must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("OCMS_REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeout)
	}
	return nil
}
