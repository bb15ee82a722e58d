// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package auth implements the stateless authentication and authorization
// core: token issuance and validation, the refresh-token registry, the
// request authentication filter, and the login/refresh/logout use cases.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/metrics"
)

// Claims represents the signed token claims.
//
// Access tokens carry a role; refresh tokens do not. The role on a
// refresh token would go stale the moment an administrator changes the
// user's role, so refresh deliberately re-reads it from the user store.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed tokens.
//
// Issuance and validation share one symmetric HMAC-SHA256 secret. The
// manager is stateless: every method is safe for concurrent use.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
}

// NewTokenManager creates a token manager from the security configuration.
//
// Returns an error if the signing secret is empty; the server must fail
// startup rather than sign tokens with a guessable key. The secret is
// stored as []byte to prevent string interning attacks.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	if cfg.TokenIssuer == "" {
		return nil, fmt.Errorf("TOKEN_ISSUER is required but was empty")
	}

	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.TokenIssuer,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssueAccessToken creates a signed access token carrying the subject's
// identity and role.
//
// Token claims:
//   - Subject: username
//   - Role: authorization role (ADMIN or VIEWER)
//   - Issuer: configured issuer string
//   - ExpiresAt: now + access TTL
//   - IssuedAt / NotBefore: now
//
// Issued tokens are stateless and cannot be revoked before expiration.
func (m *TokenManager) IssueAccessToken(subject, role string) (string, error) {
	token, err := m.sign(subject, role, m.accessTTL)
	if err != nil {
		return "", err
	}
	metrics.RecordTokenIssued("access")
	return token, nil
}

// IssueRefreshToken creates a signed refresh token carrying only the
// subject's identity. The role is re-resolved from the user store at
// refresh time, so a role change takes effect on the next refresh.
func (m *TokenManager) IssueRefreshToken(subject string) (string, error) {
	token, err := m.sign(subject, "", m.refreshTTL)
	if err != nil {
		return "", err
	}
	metrics.RecordTokenIssued("refresh")
	return token, nil
}

func (m *TokenManager) sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate reports whether tokenString is a well-formed, correctly
// signed, unexpired token issued by this manager.
//
// Token validation is a binary security gate: every failure mode (bad
// signature, malformed structure, expired, wrong algorithm, empty
// input) collapses to false. The failure taxonomy is retained only at
// debug log level. An empty or garbage input returns false without
// panicking.
func (m *TokenManager) Validate(tokenString string) bool {
	_, err := m.parse(tokenString)
	if err != nil {
		logging.Debug().Str("reason", err.Error()).Msg("token validation failed")
		return false
	}
	return true
}

// Subject extracts the subject claim from a token.
// Call only after Validate has succeeded.
func (m *TokenManager) Subject(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Role extracts the role claim from an access token.
// Call only after Validate has succeeded. Refresh tokens carry no role,
// for which this returns an empty string.
func (m *TokenManager) Role(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// parse verifies the signature, structure, and time claims of a token
// and returns its claims.
//
// Rejects tokens with an unexpected signing algorithm to prevent
// algorithm confusion attacks.
func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("empty token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
