// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package models

// Role constants for role-based access control.
//
// Roles are flat labels with no hierarchy or inheritance: an endpoint
// either requires a specific role or merely requires authentication.
const (
	// RoleAdmin grants full read-write access, including record
	// creation, modification, and deletion.
	RoleAdmin = "ADMIN"

	// RoleViewer grants read-only access to records.
	RoleViewer = "VIEWER"
)

// ValidRoles lists all recognized roles.
var ValidRoles = []string{RoleAdmin, RoleViewer}

// IsValidRole reports whether role is one of the recognized role labels.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
