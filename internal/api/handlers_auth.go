// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"errors"
	"net/http"

	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/models"
	"github.com/msgvault/msgvault/internal/store"
)

// Login handles POST /api/auth/login.
//
// Every failure, unknown user, wrong password, or disabled account,
// produces the same 401 so the endpoint leaks nothing about which
// usernames exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		rw.ValidationError(verr.Message, verr.Details)
		return
	}

	if h.loginLimiter != nil {
		key := auth.ClientIPFromContext(r.Context())
		if key == "" {
			key = r.RemoteAddr
		}
		if !h.loginLimiter.Allow(key) {
			rw.Error(http.StatusTooManyRequests, ErrCodeRateLimited, "Too many login attempts")
			return
		}
	}

	pair, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			rw.InvalidCredentials()
			return
		}
		rw.InternalError(err)
		return
	}

	rw.Success(pair)
}

// Refresh handles POST /api/auth/refresh. A valid, registered refresh
// token yields a new access token; the refresh token itself is echoed
// back unchanged. Failures are indistinguishable from bad credentials.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		rw.ValidationError(verr.Message, verr.Details)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			rw.InvalidCredentials()
			return
		}
		rw.InternalError(err)
		return
	}

	rw.Success(pair)
}

// Logout handles POST /api/auth/logout. It always returns 204: the
// presented refresh token is revoked if registered, and an unknown or
// already-revoked token is not an error.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.LogoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.ValidationError("Invalid request body", nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		rw.ValidationError(verr.Message, verr.Details)
		return
	}

	h.authService.Logout(r.Context(), req.RefreshToken)
	rw.NoContent()
}

// Me handles GET /api/auth/me, returning the authenticated caller's
// public profile. The route is guarded by RequireAuthenticated, so the
// identity is always present here.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		rw.AuthRequired()
		return
	}

	user, err := h.store.UserByUsername(r.Context(), identity.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token subject no longer exists; treat as unauthenticated.
			rw.AuthRequired()
			return
		}
		rw.InternalError(err)
		return
	}

	rw.Success(user.Info())
}
