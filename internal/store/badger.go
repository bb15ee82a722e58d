// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/msgvault/msgvault/internal/models"
)

// Key prefixes for BadgerDB storage. Record keys embed a zero-padded
// numeric id so lexicographic key order matches id order; a reverse
// prefix scan then yields newest-first without sorting.
const (
	userKeyPrefix     = "user:"
	userNameKeyPrefix = "user_name:"
	msgKeyPrefix      = "msg:"
	msgCodeKeyPrefix  = "msg_code:"

	userSeqKey = "seq:user"
	msgSeqKey  = "seq:msg"
)

// storedUser is the on-disk form of a user. The API model hides the
// password hash from JSON with a "-" tag, so persistence needs its own
// envelope that keeps the hash.
type storedUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func toStoredUser(u *models.User) *storedUser {
	return &storedUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Enabled:      u.Enabled,
		CreatedAt:    u.CreatedAt,
	}
}

func (su *storedUser) toModel() *models.User {
	return &models.User{
		ID:           su.ID,
		Username:     su.Username,
		PasswordHash: su.PasswordHash,
		Role:         su.Role,
		Enabled:      su.Enabled,
		CreatedAt:    su.CreatedAt,
	}
}

// BadgerStore is a BadgerDB-backed Store implementation for durable
// single-node persistence.
type BadgerStore struct {
	db      *badger.DB
	userSeq *badger.Sequence
	msgSeq  *badger.Sequence
}

// NewBadgerStore creates a store around an open BadgerDB.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	userSeq, err := db.GetSequence([]byte(userSeqKey), 64)
	if err != nil {
		return nil, fmt.Errorf("open user id sequence: %w", err)
	}
	msgSeq, err := db.GetSequence([]byte(msgSeqKey), 64)
	if err != nil {
		return nil, fmt.Errorf("open message id sequence: %w", err)
	}

	return &BadgerStore{db: db, userSeq: userSeq, msgSeq: msgSeq}, nil
}

func userKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", userKeyPrefix, id))
}

func msgKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", msgKeyPrefix, id))
}

// CreateUser stores a new user and assigns its ID.
func (s *BadgerStore) CreateUser(ctx context.Context, user *models.User) error {
	next, err := s.userSeq.Next()
	if err != nil {
		return fmt.Errorf("next user id: %w", err)
	}
	user.ID = int64(next) + 1
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	data, err := json.Marshal(toStoredUser(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(userNameKeyPrefix + user.Username)
		if _, err := txn.Get(nameKey); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check username: %w", err)
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return txn.Set(nameKey, []byte(fmt.Sprintf("%d", user.ID)))
	})
}

// UserByUsername returns the user with the given username.
func (s *BadgerStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var stored storedUser

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userNameKeyPrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get username index: %w", err)
		}

		var id int64
		if err := item.Value(func(val []byte) error {
			_, serr := fmt.Sscanf(string(val), "%d", &id)
			return serr
		}); err != nil {
			return err
		}

		return getJSON(txn, userKey(id), &stored)
	})
	if err != nil {
		return nil, err
	}

	return stored.toModel(), nil
}

// UserByID returns the user with the given id.
func (s *BadgerStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var stored storedUser

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &stored)
	})
	if err != nil {
		return nil, err
	}

	return stored.toModel(), nil
}

// CountUsers returns the number of stored users.
func (s *BadgerStore) CountUsers(ctx context.Context) (int, error) {
	return s.countPrefix([]byte(userKeyPrefix))
}

// CreateMessage stores a new message and assigns its ID and timestamps.
func (s *BadgerStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	next, err := s.msgSeq.Next()
	if err != nil {
		return fmt.Errorf("next message id: %w", err)
	}
	msg.ID = int64(next) + 1
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		codeKey := []byte(msgCodeKeyPrefix + msg.Code)
		if _, err := txn.Get(codeKey); err == nil {
			return ErrDuplicateCode
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check code: %w", err)
		}

		if err := txn.Set(msgKey(msg.ID), data); err != nil {
			return fmt.Errorf("set message: %w", err)
		}
		return txn.Set(codeKey, []byte(fmt.Sprintf("%d", msg.ID)))
	})
}

// MessageByID returns the message with the given id.
func (s *BadgerStore) MessageByID(ctx context.Context, id int64) (*models.Message, error) {
	var msg models.Message

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, msgKey(id), &msg)
	})
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// MessageByCode returns the message with the given code.
func (s *BadgerStore) MessageByCode(ctx context.Context, code string) (*models.Message, error) {
	var msg models.Message

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(msgCodeKeyPrefix + code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get code index: %w", err)
		}

		var id int64
		if err := item.Value(func(val []byte) error {
			_, serr := fmt.Sscanf(string(val), "%d", &id)
			return serr
		}); err != nil {
			return err
		}

		return getJSON(txn, msgKey(id), &msg)
	})
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// ListMessages returns one page of messages sorted newest first.
// Message ids are monotonic, so a reverse scan over the zero-padded
// keys yields creation order descending.
func (s *BadgerStore) ListMessages(ctx context.Context, page, size int) ([]models.Message, int, error) {
	messages := []models.Message{}
	total := 0
	skip := (page - 1) * size

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(msgKeyPrefix)
		// Reverse iteration starts past the largest key in the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if total >= skip && len(messages) < size {
				var msg models.Message
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &msg)
				}); err != nil {
					return fmt.Errorf("unmarshal message: %w", err)
				}
				messages = append(messages, msg)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// UpdateMessage replaces the content of an existing message.
func (s *BadgerStore) UpdateMessage(ctx context.Context, id int64, content string) (*models.Message, error) {
	var msg models.Message

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, msgKey(id), &msg); err != nil {
			return err
		}

		msg.Content = content
		msg.UpdatedAt = time.Now()

		data, err := json.Marshal(&msg)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		return txn.Set(msgKey(id), data)
	})
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

// DeleteMessage removes a message.
func (s *BadgerStore) DeleteMessage(ctx context.Context, id int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var msg models.Message
		if err := getJSON(txn, msgKey(id), &msg); err != nil {
			return err
		}

		if err := txn.Delete(msgKey(id)); err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		return txn.Delete([]byte(msgCodeKeyPrefix + msg.Code))
	})
}

// Ping verifies the database is open and readable.
func (s *BadgerStore) Ping(ctx context.Context) error {
	return s.db.View(func(txn *badger.Txn) error {
		return nil
	})
}

// Close releases the id sequences. The owning factory closes the
// database itself, which may be shared with the refresh-token registry.
func (s *BadgerStore) Close() error {
	if err := s.userSeq.Release(); err != nil {
		return err
	}
	return s.msgSeq.Release()
}

func (s *BadgerStore) countPrefix(prefix []byte) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// getJSON reads a key and unmarshals its value, mapping a missing key
// to ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, out interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}
