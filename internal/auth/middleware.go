// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/metrics"
)

type contextKey string

// identityContextKey carries the authenticated Identity through the
// request context. Request-scoped: set once by Authenticate, read by
// downstream handlers, gone when the request ends.
const identityContextKey contextKey = "identity"

// Identity is the per-request security context: who the caller is and
// the single role they hold. Absent from the request context when no
// valid token was presented.
type Identity struct {
	Username string
	Role     string
}

// HasRole reports whether the identity holds the given role.
// Plain set-membership; there is no role hierarchy.
func (i *Identity) HasRole(role string) bool {
	return i.Role == role
}

// ContextWithIdentity returns a context carrying the identity.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the authenticated identity from the
// request context. Returns (nil, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok && id != nil
}

// Filter authenticates requests from bearer tokens.
//
// The filter fails open: a missing, malformed, or invalid token leaves
// the request anonymous and lets the pipeline continue. Rejecting
// anonymous requests is the authorization layer's job, which is what
// lets public and protected routes share one filter.
type Filter struct {
	tokens *TokenManager
}

// NewFilter creates an authentication filter around a token manager.
func NewFilter(tokens *TokenManager) *Filter {
	return &Filter{tokens: tokens}
}

// Authenticate is middleware that resolves a bearer token into a
// request-scoped Identity.
//
// Per-request state machine: no token or invalid token leaves the
// request unauthenticated and the pipeline untouched; a valid token
// binds an Identity into the context. The filter never writes a
// response and never propagates a panic: a crafted token degrades the
// request to anonymous, not to a server error.
func (f *Filter) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity := f.resolve(r); identity != nil {
			r = r.WithContext(ContextWithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve extracts and validates the bearer token, returning the
// authenticated identity or nil.
func (f *Filter) resolve(r *http.Request) (identity *Identity) {
	// A parsing panic must not escape into the pipeline.
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(r.Context()).Warn().
				Interface("panic", rec).
				Msg("recovered panic during token authentication")
			identity = nil
		}
	}()

	token, ok := extractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		metrics.RecordTokenValidation("absent")
		return nil
	}

	if !f.tokens.Validate(token) {
		metrics.RecordTokenValidation("invalid")
		return nil
	}

	subject, err := f.tokens.Subject(token)
	if err != nil || subject == "" {
		metrics.RecordTokenValidation("invalid")
		return nil
	}
	role, err := f.tokens.Role(token)
	if err != nil {
		metrics.RecordTokenValidation("invalid")
		return nil
	}

	metrics.RecordTokenValidation("valid")
	return &Identity{Username: subject, Role: role}
}

// extractBearerToken parses an Authorization header value of the form
// "Bearer <token>". Returns false for an empty header, a different
// scheme, or a missing token.
func extractBearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
