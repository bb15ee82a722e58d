// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/msgvault/msgvault/internal/models"
)

// MemoryStore is an in-memory Store implementation backed by
// mutex-guarded maps. Suitable for tests and single-process
// development; data does not survive a restart.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[int64]*models.User
	usersByName   map[string]int64
	messages      map[int64]*models.Message
	messageByCode map[string]int64
	nextUserID    int64
	nextMessageID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]*models.User),
		usersByName:   make(map[string]int64),
		messages:      make(map[int64]*models.Message),
		messageByCode: make(map[string]int64),
	}
}

// CreateUser stores a new user and assigns its ID.
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[user.Username]; exists {
		return ErrDuplicateUsername
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	s.users[user.ID] = copyUser(user)
	s.usersByName[user.Username] = user.ID
	return nil
}

// UserByUsername returns the user with the given username.
func (s *MemoryStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(s.users[id]), nil
}

// UserByID returns the user with the given id.
func (s *MemoryStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

// CountUsers returns the number of stored users.
func (s *MemoryStore) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// CreateMessage stores a new message and assigns its ID and timestamps.
func (s *MemoryStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messageByCode[msg.Code]; exists {
		return ErrDuplicateCode
	}

	s.nextMessageID++
	msg.ID = s.nextMessageID
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	s.messages[msg.ID] = copyMessage(msg)
	s.messageByCode[msg.Code] = msg.ID
	return nil
}

// MessageByID returns the message with the given id.
func (s *MemoryStore) MessageByID(ctx context.Context, id int64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyMessage(msg), nil
}

// MessageByCode returns the message with the given code.
func (s *MemoryStore) MessageByCode(ctx context.Context, code string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.messageByCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return copyMessage(s.messages[id]), nil
}

// ListMessages returns one page of messages sorted newest first.
func (s *MemoryStore) ListMessages(ctx context.Context, page, size int) ([]models.Message, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Message, 0, len(s.messages))
	for _, msg := range s.messages {
		all = append(all, *msg)
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	start := (page - 1) * size
	if start >= total {
		return []models.Message{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}

	return all[start:end], total, nil
}

// UpdateMessage replaces the content of an existing message.
func (s *MemoryStore) UpdateMessage(ctx context.Context, id int64, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}

	msg.Content = content
	msg.UpdatedAt = time.Now()
	return copyMessage(msg), nil
}

// DeleteMessage removes a message.
func (s *MemoryStore) DeleteMessage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return ErrNotFound
	}

	delete(s.messageByCode, msg.Code)
	delete(s.messages, id)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// copyUser creates a copy so callers cannot mutate stored records.
func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

// copyMessage creates a copy so callers cannot mutate stored records.
func copyMessage(m *models.Message) *models.Message {
	c := *m
	return &c
}
