// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/msgvault/msgvault/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	refreshKeyPrefix     = "refresh:"
	refreshUserKeyPrefix = "refresh_user:"
)

// BadgerRefreshTokenRegistry implements RefreshTokenRegistry using
// BadgerDB for durable storage: registered refresh tokens survive a
// process restart. A user-to-token secondary index makes RemoveAll a
// prefix scan instead of a full iteration.
type BadgerRefreshTokenRegistry struct {
	db *badger.DB
}

// NewBadgerRefreshTokenRegistry creates a BadgerDB-backed registry.
func NewBadgerRefreshTokenRegistry(db *badger.DB) *BadgerRefreshTokenRegistry {
	return &BadgerRefreshTokenRegistry{db: db}
}

func userKey(userID int64, token string) []byte {
	return []byte(refreshUserKeyPrefix + strconv.FormatInt(userID, 10) + ":" + token)
}

// maxConflictRetries bounds retries of a conflicted transaction.
const maxConflictRetries = 3

// update runs fn in a read-write transaction, retrying on commit
// conflicts. All registry mutations are idempotent, so re-running the
// transaction body is safe. A Store racing a RemoveAll on the same
// user's keys is the case that conflicts in practice.
func (r *BadgerRefreshTokenRegistry) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = r.db.Update(fn)
		if err != badger.ErrConflict {
			return err
		}
	}
	return err
}

// Store registers token as owned by userID, overwriting any previous owner.
func (r *BadgerRefreshTokenRegistry) Store(token string, userID int64) {
	err := r.update(func(txn *badger.Txn) error {
		tokenKey := []byte(refreshKeyPrefix + token)

		// An upsert may change the owner; drop the stale index entry.
		if item, err := txn.Get(tokenKey); err == nil {
			var prev int64
			if verr := item.Value(func(val []byte) error {
				p, perr := strconv.ParseInt(string(val), 10, 64)
				prev = p
				return perr
			}); verr == nil && prev != userID {
				if derr := txn.Delete(userKey(prev, token)); derr != nil {
					return derr
				}
			}
		}

		if err := txn.Set(tokenKey, []byte(strconv.FormatInt(userID, 10))); err != nil {
			return err
		}
		return txn.Set(userKey(userID, token), []byte{})
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to store refresh token")
	}
}

// IsValid reports whether token is registered.
func (r *BadgerRefreshTokenRegistry) IsValid(token string) bool {
	_, ok := r.Owner(token)
	return ok
}

// Owner returns the owning user id of a registered token.
func (r *BadgerRefreshTokenRegistry) Owner(token string) (int64, bool) {
	var userID int64
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(refreshKeyPrefix + token))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			id, perr := strconv.ParseInt(string(val), 10, 64)
			if perr != nil {
				return perr
			}
			userID = id
			found = true
			return nil
		})
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to look up refresh token")
		return 0, false
	}

	return userID, found
}

// Remove unregisters token. Idempotent.
func (r *BadgerRefreshTokenRegistry) Remove(token string) {
	err := r.update(func(txn *badger.Txn) error {
		tokenKey := []byte(refreshKeyPrefix + token)

		item, err := txn.Get(tokenKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil // Already removed
			}
			return err
		}

		var owner int64
		if verr := item.Value(func(val []byte) error {
			id, perr := strconv.ParseInt(string(val), 10, 64)
			owner = id
			return perr
		}); verr != nil {
			return verr
		}

		if err := txn.Delete(tokenKey); err != nil {
			return err
		}
		return txn.Delete(userKey(owner, token))
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to remove refresh token")
	}
}

// RemoveAll unregisters every token owned by userID.
// Runs in a single transaction, so a racing Store lands entirely before
// or entirely after the bulk removal.
func (r *BadgerRefreshTokenRegistry) RemoveAll(userID int64) int {
	removed := 0
	prefix := []byte(refreshUserKeyPrefix + strconv.FormatInt(userID, 10) + ":")

	err := r.update(func(txn *badger.Txn) error {
		removed = 0 // the whole transaction re-runs on a conflict retry

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}

		for _, key := range stale {
			token := string(key[len(prefix):])
			if err := txn.Delete([]byte(refreshKeyPrefix + token)); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		logging.Error().Err(err).Int64("user_id", userID).Msg("failed to remove refresh tokens for user")
		return 0
	}

	return removed
}

// Len returns the number of registered tokens.
func (r *BadgerRefreshTokenRegistry) Len() int {
	count := 0
	prefix := []byte(refreshKeyPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		logging.Error().Err(err).Msg("failed to count refresh tokens")
		return 0
	}

	return count
}
