// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package api provides the HTTP surface: route wiring, authorization
// middleware, request handlers, and the standardized response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/models"
)

// Machine-readable error codes returned in the response envelope.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAuthRequired       = "AUTH_REQUIRED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDuplicateCode      = "DUPLICATE_CODE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// ResponseWriter writes responses in the standard envelope. One is
// created per request; it stamps the request ID from context into the
// response metadata.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a response writer for the request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.success(http.StatusOK, data)
}

// Created writes a 201 response with data.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.success(http.StatusCreated, data)
}

// NoContent writes a 204 response with an empty body.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

func (rw *ResponseWriter) success(statusCode int, data interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: rw.metadata(),
	})
}

// Error writes an error response with the given status and code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response carrying structured details,
// typically per-field validation failures.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status:   "error",
		Metadata: rw.metadata(),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// ValidationError writes a 400 response for a rejected request body.
func (rw *ResponseWriter) ValidationError(message string, details map[string]interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, message, details)
}

// InvalidCredentials writes the single 401 used for every login and
// refresh failure. One message for all causes so callers cannot probe
// which accounts exist or are disabled.
func (rw *ResponseWriter) InvalidCredentials() {
	rw.Error(http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid username or password")
}

// AuthRequired writes a 401 for requests that reached a protected route
// without an authenticated identity.
func (rw *ResponseWriter) AuthRequired() {
	rw.Error(http.StatusUnauthorized, ErrCodeAuthRequired, "Authentication required")
}

// Forbidden writes a 403 for authenticated callers lacking the role.
func (rw *ResponseWriter) Forbidden() {
	rw.Error(http.StatusForbidden, ErrCodeForbidden, "Insufficient permissions")
}

// NotFound writes a 404 response.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// Conflict writes a 409 response for a duplicate message code.
func (rw *ResponseWriter) Conflict(message string) {
	rw.Error(http.StatusConflict, ErrCodeDuplicateCode, message)
}

// InternalError writes a 500 response. The underlying error is logged,
// never surfaced to the client.
func (rw *ResponseWriter) InternalError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Internal error")
	rw.Error(http.StatusInternalServerError, ErrCodeInternal, "An internal error occurred")
}

// ServiceUnavailable writes a 503 response.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

func (rw *ResponseWriter) metadata() models.Metadata {
	return models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(rw.r.Context()),
	}
}

func (rw *ResponseWriter) writeJSON(statusCode int, body interface{}) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(statusCode)
	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// RateLimitHandler is installed on the httprate limiters so throttled
// requests get the standard envelope instead of a plain-text 429.
func RateLimitHandler(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests")
}
