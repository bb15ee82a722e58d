// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import "sync"

// RefreshTokenRegistry tracks which refresh tokens are live and who owns
// them. A refresh token that validates cryptographically but is absent
// from the registry is dead: logout removes it here, which is the only
// revocation mechanism in the system.
//
// All operations must be safe under unbounded concurrent callers.
// There is no background sweeper: entries for expired tokens persist
// until explicitly removed, an accepted growth trade-off for the
// in-memory implementation.
type RefreshTokenRegistry interface {
	// Store registers token as owned by userID. Unconditional upsert:
	// re-storing an existing token overwrites its owner, so a retried
	// login is idempotent.
	Store(token string, userID int64)

	// IsValid reports whether token is registered.
	IsValid(token string) bool

	// Owner returns the owning user id of a registered token.
	Owner(token string) (int64, bool)

	// Remove unregisters token. Removing an absent token is a no-op.
	Remove(token string)

	// RemoveAll unregisters every token owned by userID and returns the
	// number removed. Used to invalidate all sessions for a user.
	RemoveAll(userID int64) int

	// Len returns the number of registered tokens.
	Len() int
}

// MemoryRefreshTokenRegistry is an in-memory RefreshTokenRegistry backed
// by a mutex-guarded map. Suitable for single-process deployments;
// registered tokens do not survive a restart.
type MemoryRefreshTokenRegistry struct {
	mu     sync.RWMutex
	owners map[string]int64
}

// NewMemoryRefreshTokenRegistry creates an empty in-memory registry.
func NewMemoryRefreshTokenRegistry() *MemoryRefreshTokenRegistry {
	return &MemoryRefreshTokenRegistry{
		owners: make(map[string]int64),
	}
}

// Store registers token as owned by userID, overwriting any previous owner.
func (r *MemoryRefreshTokenRegistry) Store(token string, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[token] = userID
}

// IsValid reports whether token is registered.
func (r *MemoryRefreshTokenRegistry) IsValid(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[token]
	return ok
}

// Owner returns the owning user id of a registered token.
func (r *MemoryRefreshTokenRegistry) Owner(token string) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.owners[token]
	return userID, ok
}

// Remove unregisters token. Idempotent.
func (r *MemoryRefreshTokenRegistry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, token)
}

// RemoveAll unregisters every token owned by userID.
//
// Holding the write lock for the full scan makes the bulk removal
// atomic with respect to concurrent Store calls: a racing Store lands
// entirely before or entirely after, never half-applied.
func (r *MemoryRefreshTokenRegistry) RemoveAll(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, owner := range r.owners {
		if owner == userID {
			delete(r.owners, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered tokens.
func (r *MemoryRefreshTokenRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}
