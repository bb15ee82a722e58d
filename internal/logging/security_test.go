// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"boundary", "123456789012", "***"},
		{"long", "eyJhbGciOiJIUzI1NiJ9.payload.sig9", "eyJh...sig9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"empty", "", ""},
		{"tiny", "ab", "***"},
		{"normal", "johndoe", "jo***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUsername(tt.username); got != tt.want {
				t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "connection refused", "connection refused"},
		{"contains password", "invalid password for user", "authentication error"},
		{"contains token", "token signature mismatch", "authentication error"},
		{"contains bearer", "Bearer header malformed", "authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeError(tt.input); got != tt.want {
				t.Errorf("SanitizeError(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSecurityLoggerMasksUsername(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSecurityLoggerWithLogger(NewTestLogger(&buf))

	logger.LogLoginFailure("secretuser", "10.0.0.1", "curl/8.0", "bad password")

	out := buf.String()
	if strings.Contains(out, "secretuser") {
		t.Errorf("raw username leaked into log output: %q", out)
	}
	if !strings.Contains(out, "se***") {
		t.Errorf("masked username missing from log output: %q", out)
	}
	if !strings.Contains(out, "login_failed") {
		t.Errorf("event name missing from log output: %q", out)
	}
}
