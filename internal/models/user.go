// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package models

import "time"

// User is an account that can authenticate against the API.
//
// PasswordHash is a bcrypt hash; the plaintext password never leaves the
// login request. Disabled accounts fail login exactly like accounts with
// a wrong password, so the enabled flag cannot be probed from outside.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserInfo is the public projection of a User returned by the API.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Info returns the public projection of u.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Role: u.Role}
}
