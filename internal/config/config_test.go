// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package config

import (
	"strings"
	"testing"
	"time"
)

// validBase returns a configuration that passes validation; individual
// tests mutate one field at a time.
func validBase() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 48)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errPart string
	}{
		{
			name:    "valid defaults with secret",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "" },
			wantErr: true,
			errPart: "JWT_SECRET",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "tooshort" },
			wantErr: true,
			errPart: "JWT_SECRET",
		},
		{
			name:    "zero access ttl",
			mutate:  func(c *Config) { c.Security.AccessTokenTTL = 0 },
			wantErr: true,
			errPart: "ACCESS_TOKEN_TTL",
		},
		{
			name:    "negative refresh ttl",
			mutate:  func(c *Config) { c.Security.RefreshTokenTTL = -time.Hour },
			wantErr: true,
			errPart: "REFRESH_TOKEN_TTL",
		},
		{
			name: "refresh ttl not longer than access ttl",
			mutate: func(c *Config) {
				c.Security.AccessTokenTTL = time.Hour
				c.Security.RefreshTokenTTL = time.Hour
			},
			wantErr: true,
			errPart: "must exceed",
		},
		{
			name:    "empty issuer",
			mutate:  func(c *Config) { c.Security.TokenIssuer = "" },
			wantErr: true,
			errPart: "TOKEN_ISSUER",
		},
		{
			name:    "admin username without password",
			mutate:  func(c *Config) { c.Security.AdminUsername = "admin" },
			wantErr: true,
			errPart: "together",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
			errPart: "HTTP_PORT",
		},
		{
			name:    "unknown store backend",
			mutate:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: true,
			errPart: "STORE_BACKEND",
		},
		{
			name:    "badger backend without path",
			mutate:  func(c *Config) { c.Store.Backend = "badger" },
			wantErr: true,
			errPart: "STORE_PATH",
		},
		{
			name: "badger backend with path",
			mutate: func(c *Config) {
				c.Store.Backend = "badger"
				c.Store.Path = "/data/msgvault"
			},
			wantErr: false,
		},
		{
			name:    "max page size below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 5 },
			wantErr: true,
			errPart: "API_MAX_PAGE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errPart != "" && !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"MSGVAULT_JWT_SECRET", "security.jwt_secret"},
		{"MSGVAULT_ACCESS_TOKEN_TTL", "security.access_token_ttl"},
		{"MSGVAULT_REFRESH_TOKEN_TTL", "security.refresh_token_ttl"},
		{"MSGVAULT_TOKEN_ISSUER", "security.token_issuer"},
		{"MSGVAULT_HTTP_PORT", "server.port"},
		{"MSGVAULT_STORE_BACKEND", "store.backend"},
		{"MSGVAULT_LOG_LEVEL", "logging.level"},
		{"MSGVAULT_UNKNOWN_SETTING", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MSGVAULT_JWT_SECRET", strings.Repeat("s", 48))
	t.Setenv("MSGVAULT_HTTP_PORT", "9090")
	t.Setenv("MSGVAULT_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("MSGVAULT_LOG_LEVEL", "debug")
	t.Setenv("MSGVAULT_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Security.JWTSecret != strings.Repeat("s", 48) {
		t.Error("jwt secret not picked up from environment")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Security.AccessTokenTTL != 30*time.Minute {
		t.Errorf("access ttl = %v, want 30m", cfg.Security.AccessTokenTTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadIgnoresUnprefixedVariables(t *testing.T) {
	t.Setenv("MSGVAULT_JWT_SECRET", strings.Repeat("s", 48))
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("JWT_SECRET", "unprefixed-should-be-ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080 (unprefixed HTTP_PORT must be ignored)", cfg.Server.Port)
	}
	if cfg.Security.JWTSecret != strings.Repeat("s", 48) {
		t.Error("unprefixed JWT_SECRET must not override the prefixed value")
	}
}

func TestDefaultConfigHasNoSecret(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Security.JWTSecret != "" {
		t.Error("default configuration must not ship a signing secret")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("default configuration without a secret must fail validation")
	}
}
