// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterBurst(t *testing.T) {
	l := NewLoginLimiter(3, time.Hour)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("203.0.113.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("203.0.113.1") {
		t.Error("attempt past the burst should be blocked")
	}
}

func TestLoginLimiterStartCleanupReturnsImmediately(t *testing.T) {
	l := NewLoginLimiter(3, time.Hour)

	done := make(chan struct{})
	go func() {
		l.StartCleanup(10 * time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("StartCleanup must not block the caller")
	}

	l.Stop()
}

func TestLoginLimiterCleanupRemovesIdleEntries(t *testing.T) {
	l := NewLoginLimiter(3, time.Hour)
	defer l.Stop()

	l.Allow("203.0.113.1")

	// Backdate the entry past the idle threshold, then sweep.
	l.mu.Lock()
	l.limiters["203.0.113.1"].lastAccess = time.Now().Add(-2 * time.Hour)
	l.mu.Unlock()

	l.cleanup()

	l.mu.Lock()
	_, exists := l.limiters["203.0.113.1"]
	l.mu.Unlock()
	if exists {
		t.Error("idle entry should have been removed")
	}
}

func TestLoginLimiterKeysAreIndependent(t *testing.T) {
	l := NewLoginLimiter(1, time.Hour)
	defer l.Stop()

	if !l.Allow("203.0.113.1") {
		t.Fatal("first key should be allowed")
	}
	if l.Allow("203.0.113.1") {
		t.Error("first key should now be blocked")
	}
	if !l.Allow("203.0.113.2") {
		t.Error("a different key must not be affected")
	}
}
