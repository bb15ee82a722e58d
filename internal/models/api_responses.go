// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total": 10, "items": [...]},
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Invalid request body",
//	    "details": {"field": "username"}
//	  },
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INVALID_CREDENTIALS: Login or refresh rejected
//   - AUTH_REQUIRED: Missing or invalid bearer token
//   - FORBIDDEN: Insufficient role for the operation
//   - NOT_FOUND: Resource doesn't exist
//   - DUPLICATE_CODE: Record code already in use
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus reports process and dependency health.
type HealthStatus struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	StoreBackend     string  `json:"store_backend"`
	StoreReachable   bool    `json:"store_reachable"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	RegisteredTokens int     `json:"registered_tokens"`
}
