// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package middleware provides HTTP middleware for request tracing,
// Prometheus instrumentation, and response security headers. The
// authentication filter lives in the auth package; route-level
// authorization lives in the api package.
package middleware
