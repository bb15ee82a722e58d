// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/msgvault/msgvault/internal/models"
)

// fakeUserProvider serves a fixed set of users from memory.
type fakeUserProvider struct {
	users map[string]*models.User
}

func (f *fakeUserProvider) UserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeUserProvider) UserByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

// plainVerifier compares passwords without hashing so tests stay fast.
type plainVerifier struct{}

func (plainVerifier) Matches(plain, hash string) bool {
	return plain == hash
}

func newTestService(t *testing.T) (*Service, *fakeUserProvider) {
	t.Helper()

	users := &fakeUserProvider{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", PasswordHash: "alicepw", Role: models.RoleAdmin, Enabled: true},
		"bob":   {ID: 2, Username: "bob", PasswordHash: "bobpw", Role: models.RoleViewer, Enabled: true},
		"carol": {ID: 3, Username: "carol", PasswordHash: "carolpw", Role: models.RoleViewer, Enabled: false},
	}}

	svc := NewService(newTestTokenManager(t), NewMemoryRefreshTokenRegistry(), users, plainVerifier{})
	return svc, users
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "alice", "alicepw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", pair.TokenType)
	}
	if pair.ExpiresInSeconds != 3600 {
		t.Errorf("ExpiresInSeconds = %d, want 3600", pair.ExpiresInSeconds)
	}

	// Access token carries the user's current role.
	role, err := svc.tokens.Role(pair.AccessToken)
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("access token role = %q, want ADMIN", role)
	}

	// Refresh token is registered to the right user.
	owner, ok := svc.registry.Owner(pair.RefreshToken)
	if !ok {
		t.Fatal("refresh token not registered after login")
	}
	if owner != 1 {
		t.Errorf("refresh token owner = %d, want 1", owner)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown username", "mallory", "whatever"},
		{"disabled account", "carol", "carolpw"},
		{"empty credentials", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials for every failure mode", err)
			}
		})
	}
}

func TestRefreshSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "bob", "bobpw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if refreshed.RefreshToken != pair.RefreshToken {
		t.Error("refresh token was rotated; it must be echoed back unchanged")
	}
	if !svc.tokens.Validate(refreshed.AccessToken) {
		t.Error("refreshed access token failed validation")
	}
}

func TestRefreshReResolvesCurrentRole(t *testing.T) {
	svc, users := newTestService(t)

	pair, err := svc.Login(context.Background(), "bob", "bobpw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Promote bob after login; the next refresh must see the new role.
	users.users["bob"].Role = models.RoleAdmin

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	role, err := svc.tokens.Role(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("Role() error = %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("refreshed access token role = %q, want the current role ADMIN", role)
	}
}

func TestRefreshFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "alice", "alicepw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Valid signature but revoked (simulates prior logout).
	svc.Logout(context.Background(), pair.RefreshToken)

	unregistered, err := svc.tokens.IssueRefreshToken("alice")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage token", "not-a-token"},
		{"empty token", ""},
		{"revoked token", pair.RefreshToken},
		{"valid but never registered", unregistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Refresh(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Refresh() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRefreshRejectsDisabledUser(t *testing.T) {
	svc, users := newTestService(t)

	pair, err := svc.Login(context.Background(), "bob", "bobpw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	users.users["bob"].Enabled = false

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Refresh() error = %v for disabled user, want ErrInvalidCredentials", err)
	}
}

func TestLogoutIsUnconditional(t *testing.T) {
	svc, _ := newTestService(t)

	pair, err := svc.Login(context.Background(), "alice", "alicepw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	svc.Logout(context.Background(), pair.RefreshToken)
	if svc.registry.IsValid(pair.RefreshToken) {
		t.Error("refresh token still registered after logout")
	}

	// Logging out again, or with a token that never existed, still succeeds.
	svc.Logout(context.Background(), pair.RefreshToken)
	svc.Logout(context.Background(), "never-seen-before")
}

func TestLogoutAllRevokesEveryToken(t *testing.T) {
	svc, _ := newTestService(t)

	p1, err := svc.Login(context.Background(), "alice", "alicepw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	p2, err := svc.Login(context.Background(), "alice", "alicepw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	other, err := svc.Login(context.Background(), "bob", "bobpw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	removed := svc.LogoutAll(context.Background(), 1)
	if removed != 2 {
		t.Errorf("LogoutAll(1) = %d, want 2", removed)
	}
	if svc.registry.IsValid(p1.RefreshToken) || svc.registry.IsValid(p2.RefreshToken) {
		t.Error("alice's refresh tokens survived LogoutAll")
	}
	if !svc.registry.IsValid(other.RefreshToken) {
		t.Error("bob's refresh token was revoked by alice's LogoutAll")
	}
}
