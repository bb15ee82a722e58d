// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/models"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:       "test-secret-key-that-is-long-enough-123",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		TokenIssuer:     "msgvault-test",
	}
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return m
}

func TestNewTokenManager(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.SecurityConfig)
		wantErr bool
	}{
		{"valid", func(c *config.SecurityConfig) {}, false},
		{"empty secret", func(c *config.SecurityConfig) { c.JWTSecret = "" }, true},
		{"zero access ttl", func(c *config.SecurityConfig) { c.AccessTokenTTL = 0 }, true},
		{"zero refresh ttl", func(c *config.SecurityConfig) { c.RefreshTokenTTL = 0 }, true},
		{"empty issuer", func(c *config.SecurityConfig) { c.TokenIssuer = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSecurityConfig()
			tt.mutate(cfg)

			_, err := NewTokenManager(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTokenManager() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.IssueAccessToken("alice", models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	if !m.Validate(token) {
		t.Fatal("freshly issued access token failed validation")
	}

	subject, err := m.Subject(token)
	if err != nil {
		t.Fatalf("Subject() error = %v", err)
	}
	if subject != "alice" {
		t.Errorf("Subject() = %q, want %q", subject, "alice")
	}

	role, err := m.Role(token)
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("Role() = %q, want %q", role, models.RoleAdmin)
	}
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.IssueRefreshToken("bob")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	if !m.Validate(token) {
		t.Fatal("freshly issued refresh token failed validation")
	}

	role, err := m.Role(token)
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != "" {
		t.Errorf("Role() = %q, want empty for refresh token", role)
	}
}

func TestValidateRejections(t *testing.T) {
	m := newTestTokenManager(t)

	otherCfg := testSecurityConfig()
	otherCfg.JWTSecret = "a-completely-different-secret-key-456"
	other, err := NewTokenManager(otherCfg)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	wrongSecretToken, err := other.IssueAccessToken("alice", models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	wrongIssuerCfg := testSecurityConfig()
	wrongIssuerCfg.TokenIssuer = "somebody-else"
	wrongIssuer, err := NewTokenManager(wrongIssuerCfg)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	wrongIssuerToken, err := wrongIssuer.IssueAccessToken("alice", models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	valid, err := m.IssueAccessToken("alice", models.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	truncated := valid[:len(valid)-10]

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"whitespace", "   "},
		{"garbage", "not.a.token"},
		{"truncated", truncated},
		{"wrong secret", wrongSecretToken},
		{"wrong issuer", wrongIssuerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m.Validate(tt.token) {
				t.Errorf("Validate(%q) = true, want false", tt.token)
			}
		})
	}
}

func TestValidateExpiredToken(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.AccessTokenTTL = time.Nanosecond
	m, err := NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	token, err := m.IssueAccessToken("alice", models.RoleViewer)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if m.Validate(token) {
		t.Error("expired token passed validation")
	}
}

func TestValidateDoesNotPanicOnMalformedInput(t *testing.T) {
	m := newTestTokenManager(t)

	inputs := []string{
		"",
		".",
		"..",
		"a.b.c.d.e",
		strings.Repeat("A", 10000),
		"\x00\x01\x02",
		"eyJhbGciOiJub25lIn0.e30.", // alg=none
	}

	for _, input := range inputs {
		if m.Validate(input) {
			t.Errorf("Validate(%q) = true, want false", input)
		}
	}
}
