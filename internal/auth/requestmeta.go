// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import "context"

const (
	clientIPContextKey  contextKey = "client_ip"
	userAgentContextKey contextKey = "user_agent"
)

// ContextWithRequestMeta attaches the client IP and user agent to the
// context so the auth use cases can include them in security audit
// logs without depending on *http.Request.
func ContextWithRequestMeta(ctx context.Context, ip, ua string) context.Context {
	ctx = context.WithValue(ctx, clientIPContextKey, ip)
	return context.WithValue(ctx, userAgentContextKey, ua)
}

// ClientIPFromContext returns the client IP captured by the request-id
// middleware, or "" when none was attached.
func ClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPContextKey).(string); ok {
		return ip
	}
	return ""
}

func clientIP(ctx context.Context) string {
	return ClientIPFromContext(ctx)
}

func userAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentContextKey).(string); ok {
		return ua
	}
	return ""
}
