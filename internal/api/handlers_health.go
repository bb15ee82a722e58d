// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"net/http"
	"time"

	"github.com/msgvault/msgvault/internal/models"
)

// Health handles GET /health with a full dependency report. The
// endpoint stays public so load balancers and monitors can reach it
// without credentials; it exposes no secrets.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := models.HealthStatus{
		Status:           "ok",
		Version:          h.version,
		StoreBackend:     h.storeBackend,
		StoreReachable:   true,
		UptimeSeconds:    time.Since(h.startTime).Seconds(),
		RegisteredTokens: h.authService.Registry().Len(),
	}

	if err := h.store.Ping(r.Context()); err != nil {
		status.Status = "degraded"
		status.StoreReachable = false
	}

	rw.Success(status)
}

// HealthLive handles GET /health/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /health/ready: the process can serve
// traffic. Returns 503 while the store is unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.Ping(r.Context()); err != nil {
		rw.ServiceUnavailable("Store not reachable")
		return
	}

	rw.Success(map[string]string{"status": "ready"})
}
