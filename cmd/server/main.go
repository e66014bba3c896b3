// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package main is the entry point for the ecomd server.
//
// Ecomd is a storefront backend exposing a REST API for products and
// shopping carts, with real-time product-list pushes over websocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered from defaults, config.yaml, and environment (Koanf v2)
//  2. Storage: JSON-file backend or BadgerDB backend, selected by STORAGE_BACKEND
//  3. Managers: catalog (products) and cart business logic over the stores
//  4. WebSocket hub and notifier: rate-limited catalog snapshots to clients
//  5. HTTP server: chi router with CORS, rate limiting, and Prometheus metrics
//
// All long-running components run under a suture supervisor tree with
// restart-on-failure and graceful shutdown.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file, built-in defaults.
//
// Storage backends:
//   - File (default): STORAGE_BACKEND=file, STORAGE_DATA_DIR=data
//   - Badger: STORAGE_BACKEND=badger, STORAGE_BADGER_PATH=data/badger
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the
// configured timeout, then closes the storage backend.
//
// # Example Usage
//
// File backend on the default port:
//
//	./ecomd
//
// Badger backend on a custom port:
//
//	export STORAGE_BACKEND=badger
//	export STORAGE_BADGER_PATH=/var/lib/ecomd/badger
//	export HTTP_PORT=9090
//	./ecomd
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ecomd/ecomd/internal/api"
	"github.com/ecomd/ecomd/internal/cart"
	"github.com/ecomd/ecomd/internal/catalog"
	"github.com/ecomd/ecomd/internal/config"
	"github.com/ecomd/ecomd/internal/logging"
	"github.com/ecomd/ecomd/internal/storage"
	"github.com/ecomd/ecomd/internal/storage/badgerstore"
	"github.com/ecomd/ecomd/internal/storage/jsonfile"
	"github.com/ecomd/ecomd/internal/supervisor"
	"github.com/ecomd/ecomd/internal/supervisor/services"
	ws "github.com/ecomd/ecomd/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("backend", cfg.Storage.Backend).
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	productStore, cartStore, closeStores, err := openStores(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open storage backend")
	}
	defer func() {
		if err := closeStores(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage backend")
		}
	}()
	logging.Info().Str("backend", cfg.Storage.Backend).Msg("Storage backend ready")

	catalogMgr := catalog.NewManager(productStore)
	cartMgr := cart.NewManager(cartStore, productStore)

	// Hub and notifier run as supervised services below.
	wsHub := ws.NewHub()
	notifier := ws.NewNotifier(wsHub, productStore, cfg.Websocket.PushesPerSecond)

	handler := api.NewHandler(catalogMgr, cartMgr, cfg, wsHub, notifier)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddPushService(services.NewWebSocketHubService(wsHub))
	tree.AddPushService(services.NewNotifierService(notifier))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openStores opens the configured storage backend and returns the two
// stores plus a close function for shutdown.
func openStores(cfg *config.Config) (storage.ProductStore, storage.CartStore, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		db, err := badgerstore.Open(cfg.Storage.BadgerPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return badgerstore.NewProductStore(db), badgerstore.NewCartStore(db), db.Close, nil

	default:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o750); err != nil {
			return nil, nil, nil, err
		}
		products, err := jsonfile.NewProductStore(filepath.Join(cfg.Storage.DataDir, "products.json"))
		if err != nil {
			return nil, nil, nil, err
		}
		carts, err := jsonfile.NewCartStore(filepath.Join(cfg.Storage.DataDir, "carts.json"))
		if err != nil {
			return nil, nil, nil, err
		}
		return products, carts, func() error { return nil }, nil
	}
}
