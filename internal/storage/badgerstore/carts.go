// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/metrics"
	"github.com/ecomd/ecomd/internal/models"
)

// CartStore is a BadgerDB-backed storage.CartStore.
type CartStore struct {
	db *badger.DB
}

// NewCartStore returns a cart store over db.
func NewCartStore(db *badger.DB) *CartStore {
	return &CartStore{db: db}
}

// Get implements storage.CartStore.
func (s *CartStore) Get(ctx context.Context, id int64) (*models.Cart, error) {
	var c models.Cart

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cartKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get cart: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		})
	})
	if err != nil {
		return nil, err
	}
	if c.Products == nil {
		c.Products = []models.CartItem{}
	}
	return &c, nil
}

// Insert implements storage.CartStore.
func (s *CartStore) Insert(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("badger", "insert_cart")()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cartKey(c.ID), data)
	})
}

// Update implements storage.CartStore.
func (s *CartStore) Update(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("badger", "update_cart")()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(cartKey(c.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get cart: %w", err)
		}
		return txn.Set(cartKey(c.ID), data)
	})
}

// NextID implements storage.CartStore.
func (s *CartStore) NextID(ctx context.Context) (int64, error) {
	return nextID(s.db, cartKeyPrefix)
}
