// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package api implements the HTTP surface of the storefront on the chi
// router: product and cart endpoints, health probes, Prometheus
// exposition, and the websocket product feed.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade
//   - handlers_products.go: /api/products endpoints
//   - handlers_carts.go: /api/carts endpoints
//   - handlers_health.go: health and readiness probes
//   - respond.go: response envelope helpers
//   - chi_middleware.go: CORS / rate limit / security header factories
//   - chi_router.go: route table
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ecomd/ecomd/internal/cart"
	"github.com/ecomd/ecomd/internal/catalog"
	"github.com/ecomd/ecomd/internal/config"
	"github.com/ecomd/ecomd/internal/logging"
	ws "github.com/ecomd/ecomd/internal/websocket"
)

// Handler holds the dependencies API handlers work against.
type Handler struct {
	catalog   *catalog.Manager
	carts     *cart.Manager
	config    *config.Config
	wsHub     *ws.Hub
	notifier  *ws.Notifier
	startTime time.Time
}

// NewHandler wires the managers, configuration, and websocket plumbing
// into a request handler.
func NewHandler(catalogMgr *catalog.Manager, cartMgr *cart.Manager, cfg *config.Config, wsHub *ws.Hub, notifier *ws.Notifier) *Handler {
	return &Handler{
		catalog:   catalogMgr,
		carts:     cartMgr,
		config:    cfg,
		wsHub:     wsHub,
		notifier:  notifier,
		startTime: time.Now(),
	}
}

// productsChanged signals the notifier that the catalog mutated. Safe
// with a nil notifier so handlers can be exercised without the
// websocket stack.
func (h *Handler) productsChanged() {
	if h.notifier != nil {
		h.notifier.ProductsChanged()
	}
}

// WebSocket upgrades the connection and registers the client with the
// hub for updateProducts pushes.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("websocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "websocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader builds an upgrader with origin checking and a handshake
// timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates connection origins against the
// configured CORS list. Browser websockets always carry Origin; an
// empty header is rejected because allowing it would bypass CORS.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("websocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}
