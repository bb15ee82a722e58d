// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package store provides persistence for users and message records with
// interchangeable in-memory and BadgerDB backends.
package store

import (
	"context"
	"errors"

	"github.com/msgvault/msgvault/internal/models"
)

// Sentinel errors returned by store implementations.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode is returned when creating a message whose code is
	// already in use.
	ErrDuplicateCode = errors.New("message code already exists")

	// ErrDuplicateUsername is returned when creating a user whose
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser stores a new user and assigns its ID.
	CreateUser(ctx context.Context, user *models.User) error

	// UserByUsername returns the user with the given username, or ErrNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	// UserByID returns the user with the given id, or ErrNotFound.
	UserByID(ctx context.Context, id int64) (*models.User, error)

	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int, error)
}

// MessageStore persists message records.
type MessageStore interface {
	// CreateMessage stores a new message and assigns its ID and
	// timestamps. Returns ErrDuplicateCode when the code is taken.
	CreateMessage(ctx context.Context, msg *models.Message) error

	// MessageByID returns the message with the given id, or ErrNotFound.
	MessageByID(ctx context.Context, id int64) (*models.Message, error)

	// MessageByCode returns the message with the given code, or ErrNotFound.
	MessageByCode(ctx context.Context, code string) (*models.Message, error)

	// ListMessages returns one page of messages sorted newest first,
	// plus the total record count. page is 1-based.
	ListMessages(ctx context.Context, page, size int) ([]models.Message, int, error)

	// UpdateMessage replaces the content of an existing message and
	// bumps its UpdatedAt. Returns the updated record or ErrNotFound.
	UpdateMessage(ctx context.Context, id int64, content string) (*models.Message, error)

	// DeleteMessage removes a message, or returns ErrNotFound.
	DeleteMessage(ctx context.Context, id int64) error
}

// Store is the combined persistence interface the server wires up.
type Store interface {
	UserStore
	MessageStore

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
