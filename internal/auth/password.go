// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing.
// 12 is the OWASP-recommended minimum as of 2024.
const bcryptCost = 12

// PasswordVerifier checks a plaintext password against a stored hash.
// The login use case depends on this interface rather than bcrypt
// directly so tests can substitute a cheap implementation.
type PasswordVerifier interface {
	Matches(plain, hash string) bool
}

// BcryptVerifier is the production PasswordVerifier backed by bcrypt.
// bcrypt's comparison is constant-time with respect to the password.
type BcryptVerifier struct{}

// Matches reports whether plain hashes to hash.
func (BcryptVerifier) Matches(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashPassword produces a bcrypt hash of a plaintext password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
