// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/menus.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/menus.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true, want false")
	}
	if cfg.CacheTTLDuration() != 5*time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want 5m", cfg.CacheTTLDuration())
	}
	if cfg.MaxSessions != 256 {
		t.Errorf("MaxSessions = %d, want 256", cfg.MaxSessions)
	}
	if cfg.DoSeed {
		t.Error("DoSeed = true, want false")
	}
	if cfg.SessionIdle() != time.Hour {
		t.Errorf("SessionIdle() = %v, want 1h", cfg.SessionIdle())
	}
	if cfg.EventRetention() != 30*24*time.Hour {
		t.Errorf("EventRetention() = %v, want 720h", cfg.EventRetention())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "OCMS_DB_PATH", "/custom/path.db")
	setEnv(t, "OCMS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "OCMS_SERVER_PORT", "3000")
	setEnv(t, "OCMS_ENV", "production")
	setEnv(t, "OCMS_LOG_LEVEL", "debug")
	setEnv(t, "OCMS_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "OCMS_MAX_SESSIONS", "8")
	setEnv(t, "OCMS_RATE_LIMIT_RPS", "2.5")
	setEnv(t, "OCMS_DO_SEED", "true")
	setEnv(t, "OCMS_EVENT_RETENTION_DAYS", "0")
	setEnv(t, "OCMS_WEBHOOK_URLS", "https://hooks.example.com/menus,http://localhost:9000/cb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false, want true")
	}
	if cfg.MaxSessions != 8 {
		t.Errorf("MaxSessions = %d, want 8", cfg.MaxSessions)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", cfg.RateLimitRPS)
	}
	if !cfg.DoSeed {
		t.Error("DoSeed = false, want true")
	}
	if len(cfg.WebhookURLs) != 2 || cfg.WebhookURLs[1] != "http://localhost:9000/cb" {
		t.Errorf("WebhookURLs = %v", cfg.WebhookURLs)
	}
	if cfg.EventRetention() != 0 {
		t.Errorf("EventRetention() = %v, want 0", cfg.EventRetention())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"OCMS_SERVER_PORT", "70000"},
		{"OCMS_SERVER_PORT", "abc"},
		{"OCMS_MAX_SESSIONS", "0"},
		{"OCMS_RATE_LIMIT_BURST", "-1"},
		{"OCMS_CACHE_TTL", "-5"},
		{"OCMS_REQUEST_TIMEOUT", "0"},
		{"OCMS_SESSION_IDLE_MINUTES", "-1"},
		{"OCMS_EVENT_RETENTION_DAYS", "-7"},
		{"OCMS_WEBHOOK_URLS", "ftp://example.com"},
		{"OCMS_WEBHOOK_URLS", "hooks.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s succeeded, want error", tt.key, tt.value)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Config{LogLevel: tt.in}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
