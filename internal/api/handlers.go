// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/store"
	"github.com/msgvault/msgvault/internal/validation"
)

// maxBodyBytes caps request bodies. All accepted payloads are small
// JSON documents; anything larger is abuse.
const maxBodyBytes = 1 << 20

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	authService  *auth.Service
	loginLimiter *auth.LoginLimiter
	store        store.Store
	apiCfg       config.APIConfig
	storeBackend string
	version      string
	startTime    time.Time
}

// NewHandler creates the handler set.
func NewHandler(authService *auth.Service, loginLimiter *auth.LoginLimiter, st store.Store, apiCfg config.APIConfig, storeBackend, version string) *Handler {
	return &Handler{
		authService:  authService,
		loginLimiter: loginLimiter,
		store:        st,
		apiCfg:       apiCfg,
		storeBackend: storeBackend,
		version:      version,
		startTime:    time.Now(),
	}
}

// decodeJSON reads the request body into dst, enforcing the size cap
// and rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// validateRequest runs struct validation and converts failures to the
// API error shape. Returns nil when the request is valid.
func validateRequest(s interface{}) *validation.APIError {
	if verr := validation.ValidateStruct(s); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}
