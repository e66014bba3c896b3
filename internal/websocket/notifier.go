// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package websocket

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ecomd/ecomd/internal/logging"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
)

// SnapshotLimit caps the number of products included in one
// updateProducts push.
const SnapshotLimit = 100

// Notifier turns catalog mutations into updateProducts broadcasts.
// Triggers are coalesced: any number of mutations while a push is in
// flight produce exactly one follow-up push, and pushes are paced by a
// rate limiter so a burst of writes cannot flood clients.
type Notifier struct {
	hub     *Hub
	store   storage.ProductStore
	limiter *rate.Limiter
	trigger chan struct{}
}

// NewNotifier creates a notifier that snapshots products from store and
// broadcasts through hub. pushesPerSecond bounds the broadcast rate; a
// zero or negative value falls back to 2/s.
func NewNotifier(hub *Hub, store storage.ProductStore, pushesPerSecond float64) *Notifier {
	if pushesPerSecond <= 0 {
		pushesPerSecond = 2
	}
	return &Notifier{
		hub:     hub,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(pushesPerSecond), 1),
		trigger: make(chan struct{}, 1),
	}
}

// ProductsChanged requests a broadcast. Never blocks; concurrent
// requests collapse into the single pending trigger.
func (n *Notifier) ProductsChanged() {
	select {
	case n.trigger <- struct{}{}:
	default:
	}
}

// RunWithContext services triggers until the context is canceled.
// Designed to run under suture supervision alongside the hub.
func (n *Notifier) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			logging.Info().
				Str("component", "websocket-notifier").
				Msg("product notifier stopped")
			return ctx.Err()
		case <-n.trigger:
		}

		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := n.push(ctx); err != nil {
			logging.Error().Err(err).Msg("product snapshot broadcast failed")
		}
	}
}

// push loads the current snapshot and hands it to the hub.
func (n *Notifier) push(ctx context.Context) error {
	products, err := n.store.List(ctx, storage.Filter{}, storage.SortNone, SnapshotLimit, 0)
	if err != nil {
		return fmt.Errorf("list products for broadcast: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	n.hub.BroadcastJSON(MessageTypeUpdateProducts, products)
	logging.Debug().
		Int("products", len(products)).
		Int("clients", n.hub.ClientCount()).
		Msg("broadcast updateProducts")
	return nil
}
