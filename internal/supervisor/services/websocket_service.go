// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package services

import (
	"context"
)

// ContextRunner matches the RunWithContext method on both the websocket
// hub and the product notifier, keeping this package free of an import
// on internal/websocket.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService supervises the websocket hub. The hub's
// RunWithContext already follows the suture.Service pattern, so the
// wrapper only contributes the service name.
type WebSocketHubService struct {
	hub  ContextRunner
	name string
}

// NewWebSocketHubService wraps hub as a supervised service.
func NewWebSocketHubService(hub ContextRunner) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String identifies the service in supervisor logs.
func (w *WebSocketHubService) String() string {
	return w.name
}

// NotifierService supervises the product notifier that pushes catalog
// snapshots to websocket clients.
type NotifierService struct {
	notifier ContextRunner
	name     string
}

// NewNotifierService wraps notifier as a supervised service.
func NewNotifierService(notifier ContextRunner) *NotifierService {
	return &NotifierService{
		notifier: notifier,
		name:     "product-notifier",
	}
}

// Serve implements suture.Service.
func (n *NotifierService) Serve(ctx context.Context) error {
	return n.notifier.RunWithContext(ctx)
}

// String identifies the service in supervisor logs.
func (n *NotifierService) String() string {
	return n.name
}
