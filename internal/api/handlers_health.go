// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"net/http"
	"time"

	"github.com/ecomd/ecomd/internal/catalog"
)

// HealthStatus is the payload for GET /api/health.
type HealthStatus struct {
	Status           string  `json:"status"`
	Backend          string  `json:"backend"`
	StorageReachable bool    `json:"storage_reachable"`
	WebsocketClients int     `json:"websocket_clients"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// storageProbe is the minimal listing used to check the backend.
var storageProbe = catalog.ListOptions{Limit: 1, Page: 1}

// Health reports overall service health: a storage probe, the active
// backend, and websocket connection count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storageReachable := true
	if _, err := h.catalog.List(r.Context(), storageProbe); err != nil {
		storageReachable = false
	}

	status := "healthy"
	if !storageReachable {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.ClientCount()
	}

	respondSuccess(w, http.StatusOK, HealthStatus{
		Status:           status,
		Backend:          h.config.Storage.Backend,
		StorageReachable: storageReachable,
		WebsocketClients: clients,
		UptimeSeconds:    time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe: the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: storage must answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.List(r.Context(), storageProbe); err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
