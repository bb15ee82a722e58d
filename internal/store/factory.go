// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/logging"
)

// Open creates the store selected by configuration. For the badger
// backend the underlying *badger.DB is also returned so other
// components (the refresh-token registry) can share the same database;
// for the memory backend it is nil.
func Open(cfg config.StoreConfig) (Store, *badger.DB, error) {
	switch cfg.Backend {
	case "", "memory":
		logging.Info().Str("backend", "memory").Msg("Opening store")
		return NewMemoryStore(), nil, nil

	case "badger":
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("badger backend requires a store path")
		}

		opts := badger.DefaultOptions(cfg.Path)
		opts.Logger = nil

		db, err := badger.Open(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store at %s: %w", cfg.Path, err)
		}

		s, err := NewBadgerStore(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}

		logging.Info().Str("backend", "badger").Str("path", cfg.Path).Msg("Opening store")
		return s, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
