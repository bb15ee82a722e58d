// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/metrics"
	"github.com/msgvault/msgvault/internal/models"
)

// ErrInvalidCredentials is returned for every login and refresh failure.
//
// One error for every root cause: wrong password, unknown username,
// disabled account, bad refresh token, revoked refresh token. Distinct
// errors would let a caller probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// TokenType is the token-type label returned with every token pair.
const TokenType = "Bearer"

// UserProvider is the user-lookup collaborator consumed by the auth
// service. The service reads id, role, and enabled state from user
// records but does not manage their lifecycle.
type UserProvider interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Service orchestrates the login, refresh, and logout use cases over
// the token manager, the refresh-token registry, and the external user
// and password collaborators.
type Service struct {
	tokens   *TokenManager
	registry RefreshTokenRegistry
	users    UserProvider
	verifier PasswordVerifier
	seclog   *logging.SecurityLogger
}

// NewService creates the auth service.
func NewService(tokens *TokenManager, registry RefreshTokenRegistry, users UserProvider, verifier PasswordVerifier) *Service {
	return &Service{
		tokens:   tokens,
		registry: registry,
		users:    users,
		verifier: verifier,
		seclog:   logging.NewSecurityLogger(),
	}
}

// Registry exposes the refresh-token registry for health reporting.
func (s *Service) Registry() RefreshTokenRegistry {
	return s.registry
}

// Login verifies credentials and issues an access/refresh token pair.
// The refresh token is recorded in the registry keyed by user id.
//
// Every failure returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil || user == nil || !user.Enabled {
		s.seclog.LogLoginFailure(username, clientIP(ctx), userAgent(ctx), "unknown or disabled user")
		metrics.RecordAuthAttempt("login", false)
		return nil, ErrInvalidCredentials
	}

	if !s.verifier.Matches(password, user.PasswordHash) {
		s.seclog.LogLoginFailure(username, clientIP(ctx), userAgent(ctx), "password mismatch")
		metrics.RecordAuthAttempt("login", false)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, err
	}

	s.registry.Store(pair.RefreshToken, user.ID)
	metrics.SetRegisteredTokens(s.registry.Len())
	metrics.RecordAuthAttempt("login", true)
	s.seclog.LogLoginSuccess(formatUserID(user.ID), user.Username, clientIP(ctx), userAgent(ctx))

	return pair, nil
}

// Refresh exchanges a registered refresh token for a new access token.
//
// The token must both validate cryptographically and be present in the
// registry; either failure returns ErrInvalidCredentials, so a caller
// cannot distinguish a forged token from a revoked one. The user's
// current role is re-read from the user store when minting the new
// access token, and the refresh token itself is never rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if !s.tokens.Validate(refreshToken) {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, ErrInvalidCredentials
	}

	userID, ok := s.registry.Owner(refreshToken)
	if !ok {
		s.seclog.LogTokenRefresh("", false, "token not registered")
		metrics.RecordAuthAttempt("refresh", false)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil || user == nil || !user.Enabled {
		s.seclog.LogTokenRefresh(formatUserID(userID), false, "unknown or disabled user")
		metrics.RecordAuthAttempt("refresh", false)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username, user.Role)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("refresh", true)
	s.seclog.LogTokenRefresh(formatUserID(user.ID), true, "")

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        TokenType,
		ExpiresInSeconds: int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes a refresh token. Unconditional: revoking an unknown or
// already-revoked token succeeds, so logout leaks nothing about token
// validity. Outstanding access tokens stay valid until natural expiry.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	userID, _ := s.registry.Owner(refreshToken)
	s.registry.Remove(refreshToken)
	metrics.SetRegisteredTokens(s.registry.Len())
	metrics.RecordAuthAttempt("logout", true)
	s.seclog.LogLogout(formatUserID(userID), clientIP(ctx))
}

// LogoutAll revokes every refresh token owned by a user. Used for
// forced logout, e.g. after a password or role change.
func (s *Service) LogoutAll(ctx context.Context, userID int64) int {
	removed := s.registry.RemoveAll(userID)
	metrics.SetRegisteredTokens(s.registry.Len())
	logging.Ctx(ctx).Info().
		Int64("user_id", userID).
		Int("tokens_revoked", removed).
		Msg("revoked all refresh tokens for user")
	return removed
}

func (s *Service) issuePair(user *models.User) (*models.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        TokenType,
		ExpiresInSeconds: int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func formatUserID(id int64) string {
	if id == 0 {
		return ""
	}
	return "user-" + strconv.FormatInt(id, 10)
}
