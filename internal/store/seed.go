// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package store

import (
	"context"
	"fmt"

	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/models"
)

// EnsureAdminUser seeds the bootstrap administrator on first start.
// It only acts when the store has no users at all; an existing
// deployment is never modified. Credentials come from configuration
// and both must be set together (enforced by config validation).
func EnsureAdminUser(ctx context.Context, s UserStore, cfg config.SecurityConfig) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	count, err := s.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Enabled:      true,
	}
	if err := s.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	logging.Info().Str("username", admin.Username).Msg("Seeded bootstrap admin user")
	return nil
}
