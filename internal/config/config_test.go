// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"inkwell/internal/models"
)

var allKeys = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"COMMENT_DEFAULT_STATUS", "POSTS_PAGE_SIZE", "POSTS_MAX_PAGE_SIZE",
	"CACHE_TTL", "COMMENT_RATE_LIMIT", "LOG_LEVEL",
}

// clearEnv sets every key Load reads to "", which envOrDefault treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	defaults := map[string][2]string{
		"Host":       {cfg.Host, "0.0.0.0"},
		"Port":       {cfg.Port, "8080"},
		"Env":        {cfg.Env, "development"},
		"DBHost":     {cfg.DBHost, "localhost"},
		"DBPort":     {cfg.DBPort, "5432"},
		"DBUser":     {cfg.DBUser, "inkwell"},
		"DBPassword": {cfg.DBPassword, "changeme"},
		"DBName":     {cfg.DBName, "inkwell"},
		"ValkeyHost": {cfg.ValkeyHost, "localhost"},
		"ValkeyPort": {cfg.ValkeyPort, "6379"},
	}
	for field, pair := range defaults {
		if pair[0] != pair[1] {
			t.Errorf("%s: got %q, want %q", field, pair[0], pair[1])
		}
	}

	if cfg.CommentDefaultStatus != models.CommentStatusApproved {
		t.Errorf("CommentDefaultStatus: got %q, want APPROVED", cfg.CommentDefaultStatus)
	}
	if cfg.PageSize != 10 || cfg.MaxPageSize != 100 {
		t.Errorf("page sizes: got %d/%d, want 10/100", cfg.PageSize, cfg.MaxPageSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL: got %s, want 5m", cfg.CacheTTL)
	}
	if cfg.CommentRateLimit != 10 {
		t.Errorf("CommentRateLimit: got %d, want 10", cfg.CommentRateLimit)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: got %s, want INFO", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMMENT_DEFAULT_STATUS", "pending")
	t.Setenv("POSTS_PAGE_SIZE", "20")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CommentDefaultStatus != models.CommentStatusPending {
		t.Errorf("CommentDefaultStatus: got %q", cfg.CommentDefaultStatus)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize: got %d", cfg.PageSize)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL: got %s", cfg.CacheTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: got %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"COMMENT_DEFAULT_STATUS", "REJECTED", "COMMENT_DEFAULT_STATUS"},
		{"COMMENT_DEFAULT_STATUS", "maybe", "COMMENT_DEFAULT_STATUS"},
		{"POSTS_PAGE_SIZE", "ten", "POSTS_PAGE_SIZE"},
		{"POSTS_PAGE_SIZE", "0", "POSTS_PAGE_SIZE"},
		{"POSTS_PAGE_SIZE", "500", "exceeds"},
		{"COMMENT_RATE_LIMIT", "-1", "COMMENT_RATE_LIMIT"},
		{"CACHE_TTL", "soon", "CACHE_TTL"},
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

// TestLoad_ProductionRequiresPassword verifies the default DB password is
// refused in production.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for default password in production")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("error should mention POSTGRES_PASSWORD, got: %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with real password: %v", err)
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	want := "postgres://u:p@h:1/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestConfig_AddrAndIsDev(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000", Env: "development"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr: got %q", got)
	}
	if !cfg.IsDev() {
		t.Error("expected IsDev for development")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("expected !IsDev for production")
	}
}
