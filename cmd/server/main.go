// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

// Package main is the entry point for the MsgVault server.
//
// MsgVault is a self-hosted REST API for managing message records:
// short uniquely-coded text entries with JWT-secured access and
// role-based administration.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file, and
//     environment variables (Koanf v2)
//  2. Store: user and message persistence (in-memory or BadgerDB)
//  3. Authentication: JWT token manager, refresh-token registry, and
//     the login/refresh/logout service
//  4. HTTP Server: chi router with per-group rate limits, Prometheus
//     metrics, and graceful shutdown
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (MSGVAULT_* prefix)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// The server refuses to start without MSGVAULT_JWT_SECRET set to at
// least 32 characters.
//
// # Example Usage
//
// Development with an in-memory store:
//
//	export MSGVAULT_JWT_SECRET=$(openssl rand -base64 32)
//	export MSGVAULT_ADMIN_USERNAME=admin
//	export MSGVAULT_ADMIN_PASSWORD=secure-password
//	./msgvault
//
// Production with durable storage:
//
//	export MSGVAULT_JWT_SECRET=$(openssl rand -base64 32)
//	export MSGVAULT_STORE_BACKEND=badger
//	export MSGVAULT_STORE_PATH=/var/lib/msgvault
//	./msgvault
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the store and, for the badger backend, the database
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msgvault/msgvault/internal/api"
	"github.com/msgvault/msgvault/internal/auth"
	"github.com/msgvault/msgvault/internal/config"
	"github.com/msgvault/msgvault/internal/logging"
	"github.com/msgvault/msgvault/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("store_backend", cfg.Store.Backend).
		Msg("Starting MsgVault")

	st, db, err := store.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Store close error")
		}
		if db != nil {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Database close error")
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.EnsureAdminUser(ctx, st, cfg.Security); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed admin user")
	}

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	registryBackend := auth.RegistryMemory
	if cfg.Store.Backend == "badger" {
		registryBackend = auth.RegistryBadger
	}
	registry := auth.NewRefreshTokenRegistry(registryBackend, db)

	authService := auth.NewService(tokens, registry, st, auth.BcryptVerifier{})

	loginLimiter := auth.NewLoginLimiter(api.RateLimitLogin.Requests, api.RateLimitLogin.Window)
	loginLimiter.StartCleanup(10 * time.Minute)
	defer loginLimiter.Stop()

	handler := api.NewHandler(authService, loginLimiter, st, cfg.API, cfg.Store.Backend, version)
	mw := api.NewMiddleware(cfg.Security.CORSOrigins, cfg.Security.RateLimitDisabled)
	router := api.NewRouter(handler, auth.NewFilter(tokens), mw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
