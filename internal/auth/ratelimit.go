// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter implements per-client throttling of failed login
// attempts with automatic cleanup of idle entries. It supplements the
// route-level HTTP rate limits: those cap request volume per IP, this
// one slows down credential guessing against the login endpoint
// specifically.
type LoginLimiter struct {
	limiters  map[string]*loginLimiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	stopClean chan struct{}
}

// loginLimiterEntry wraps a rate limiter with last access time.
type loginLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginLimiter creates a limiter that allows burst attempts per key,
// refilling one attempt per window.
func NewLoginLimiter(attempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		limiters:  make(map[string]*loginLimiterEntry),
		rate:      rate.Every(window),
		burst:     attempts,
		stopClean: make(chan struct{}),
	}
}

// Allow checks if an attempt for the given key (client IP or username)
// is allowed.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	entry, exists := l.limiters[key]
	if !exists {
		entry = &loginLimiterEntry{
			limiter:    rate.NewLimiter(l.rate, l.burst),
			lastAccess: time.Now(),
		}
		l.limiters[key] = entry
	} else {
		entry.lastAccess = time.Now()
	}
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// StartCleanup starts a background routine that removes stale limiter
// entries every interval until Stop is called. Returns immediately.
func (l *LoginLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go l.runCleanupLoop(ticker)
}

func (l *LoginLimiter) runCleanupLoop(ticker *time.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopClean:
			return
		}
	}
}

// cleanup removes limiters that haven't been accessed in the last hour.
func (l *LoginLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := time.Now().Add(-1 * time.Hour)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stopClean)
}
