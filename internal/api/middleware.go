// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/logging"
)

// RateLimitConfig defines rate limit parameters for a route group.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Per-group rate limits. Login is strictest to slow credential
// stuffing; health is permissive for monitoring probes.
var (
	RateLimitLogin  = RateLimitConfig{Requests: 5, Window: 5 * time.Minute}
	RateLimitAuth   = RateLimitConfig{Requests: 5, Window: time.Minute}
	RateLimitAPI    = RateLimitConfig{Requests: 100, Window: time.Minute}
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// Middleware builds the route-group middlewares from configuration.
type Middleware struct {
	corsOrigins       []string
	rateLimitDisabled bool
}

// NewMiddleware creates the middleware factory.
func NewMiddleware(corsOrigins []string, rateLimitDisabled bool) *Middleware {
	return &Middleware{
		corsOrigins:       corsOrigins,
		rateLimitDisabled: rateLimitDisabled,
	}
}

// CORS returns the CORS handler built from the configured origins.
// With no origins configured, cross-origin requests are not allowed.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}

// RateLimit returns an IP-keyed limiter for the given config, or a
// no-op when rate limiting is disabled.
func (m *Middleware) RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if m.rateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(http.HandlerFunc(RateLimitHandler)),
	)
}

// SecurityHeaders adds defensive response headers to every response.
// HSTS is only sent when the request arrived over TLS, directly or via
// a terminating proxy.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Cache-Control", "no-store")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated rejects anonymous requests with 401. The
// authentication filter runs earlier in the chain and never rejects;
// this middleware is where the missing-identity decision becomes an
// explicit response.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.IdentityFromContext(r.Context()); !ok {
				logging.Ctx(r.Context()).Warn().
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Access denied: authentication required")
				NewResponseWriter(w, r).AuthRequired()
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects requests whose identity lacks the given role.
// Anonymous requests get 401; authenticated callers with the wrong
// role get 403. Apply after the authentication filter.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				logging.Ctx(r.Context()).Warn().
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Access denied: authentication required")
				NewResponseWriter(w, r).AuthRequired()
				return
			}
			if !identity.HasRole(role) {
				logging.Ctx(r.Context()).Warn().
					Str("username", identity.Username).
					Str("role", identity.Role).
					Str("required_role", role).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("Access denied: insufficient role")
				NewResponseWriter(w, r).Forbidden()
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
