// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/middleware"
	"github.com/msgvault/msgvault/internal/models"
)

// Router assembles the HTTP routing tree.
type Router struct {
	handler    *Handler
	authFilter *auth.Filter
	middleware *Middleware
}

// NewRouter creates the router from its collaborators.
func NewRouter(handler *Handler, authFilter *auth.Filter, mw *Middleware) *Router {
	return &Router{
		handler:    handler,
		authFilter: authFilter,
		middleware: mw,
	}
}

// Setup builds the chi routing tree.
//
// The authentication filter runs globally and fails open: it only
// attaches an identity to the context. Route groups then decide what
// that identity must be, so public routes and protected routes differ
// only in their authorization middleware.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(SecurityHeaders())
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.authFilter.Authenticate)

	r.Route("/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimit(RateLimitHealth))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit(RateLimitLogin))
			r.Post("/login", router.handler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit(RateLimitAuth))
			r.Post("/refresh", router.handler.Refresh)
			r.Post("/logout", router.handler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit(RateLimitAPI))
			r.Use(RequireAuthenticated())
			r.Get("/me", router.handler.Me)
		})
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Use(router.middleware.RateLimit(RateLimitAPI))

		r.Group(func(r chi.Router) {
			r.Use(RequireAuthenticated())
			r.Get("/", router.handler.ListMessages)
			r.Get("/{id}", router.handler.GetMessage)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(models.RoleAdmin))
			r.Post("/", router.handler.CreateMessage)
			r.Put("/{id}", router.handler.UpdateMessage)
			r.Delete("/{id}", router.handler.DeleteMessage)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}
