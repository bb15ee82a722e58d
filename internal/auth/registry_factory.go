// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"github.com/dgraph-io/badger/v4"
)

// RegistryBackend defines the type of refresh-token registry backend.
type RegistryBackend string

const (
	// RegistryMemory uses in-memory storage (default, not persistent).
	RegistryMemory RegistryBackend = "memory"

	// RegistryBadger uses BadgerDB for persistent token storage.
	RegistryBadger RegistryBackend = "badger"
)

// NewRefreshTokenRegistry creates a registry for the configured backend.
// The badger backend requires an open database; with backend "memory" or
// a nil db, the in-memory registry is returned.
func NewRefreshTokenRegistry(backend RegistryBackend, db *badger.DB) RefreshTokenRegistry {
	if backend == RegistryBadger && db != nil {
		return NewBadgerRefreshTokenRegistry(db)
	}
	return NewMemoryRefreshTokenRegistry()
}
