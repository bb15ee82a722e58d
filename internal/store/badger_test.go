// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/msgvault/msgvault/internal/models"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewBadgerStore(db)
	if err != nil {
		t.Fatalf("NewBadgerStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	u := &models.User{Username: "alice", PasswordHash: "bcrypt-hash", Role: models.RoleAdmin, Enabled: true}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.UserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("UserByUsername: %v", err)
	}
	if got.PasswordHash != "bcrypt-hash" {
		t.Error("password hash must survive persistence")
	}
	if got.Role != models.RoleAdmin || !got.Enabled {
		t.Errorf("unexpected user: %+v", got)
	}

	if err := s.CreateUser(ctx, &models.User{Username: "alice"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBadgerStoreMessageLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	msg := &models.Message{Code: "WELCOME", Content: "hello"}
	if err := s.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := s.CreateMessage(ctx, &models.Message{Code: "WELCOME"}); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}

	byCode, err := s.MessageByCode(ctx, "WELCOME")
	if err != nil {
		t.Fatalf("MessageByCode: %v", err)
	}
	if byCode.ID != msg.ID {
		t.Errorf("id = %d, want %d", byCode.ID, msg.ID)
	}

	updated, err := s.UpdateMessage(ctx, msg.ID, "hello again")
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if updated.Content != "hello again" || updated.Code != "WELCOME" {
		t.Errorf("unexpected message: %+v", updated)
	}

	if err := s.DeleteMessage(ctx, msg.ID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if _, err := s.MessageByID(ctx, msg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.MessageByCode(ctx, "WELCOME"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected code index cleanup, got %v", err)
	}
}

func TestBadgerStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestBadgerStore(t)

	for i := 1; i <= 5; i++ {
		if err := s.CreateMessage(ctx, &models.Message{Code: fmt.Sprintf("MSG-%d", i), Content: "body"}); err != nil {
			t.Fatalf("CreateMessage %d: %v", i, err)
		}
	}

	items, total, err := s.ListMessages(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	want := []string{"MSG-5", "MSG-4", "MSG-3"}
	for i, code := range want {
		if items[i].Code != code {
			t.Errorf("item %d = %q, want %q", i, items[i].Code, code)
		}
	}

	items, _, err = s.ListMessages(ctx, 2, 3)
	if err != nil {
		t.Fatalf("ListMessages page 2: %v", err)
	}
	if len(items) != 2 || items[0].Code != "MSG-2" {
		t.Errorf("unexpected page 2: %+v", items)
	}
}
