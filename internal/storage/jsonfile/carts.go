// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package jsonfile

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecomd/ecomd/internal/metrics"
	"github.com/ecomd/ecomd/internal/models"
)

// CartStore is a file-backed storage.CartStore.
type CartStore struct {
	mu    sync.RWMutex
	path  string
	carts []models.Cart
}

// NewCartStore loads path and returns a store over its contents. A missing
// file yields an empty store.
func NewCartStore(path string) (*CartStore, error) {
	s := &CartStore{path: path}
	if err := loadJSONFile(path, &s.carts); err != nil {
		return nil, fmt.Errorf("load carts file: %w", err)
	}
	return s, nil
}

func (s *CartStore) flush() error {
	defer metrics.ObserveStoreOp("file", "flush_carts")()
	return writeJSONFile(s.path, s.carts)
}

// Get implements storage.CartStore.
func (s *CartStore) Get(ctx context.Context, id int64) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.carts {
		if s.carts[i].ID == id {
			c := s.carts[i]
			c.Products = append([]models.CartItem(nil), c.Products...)
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

// Insert implements storage.CartStore.
func (s *CartStore) Insert(ctx context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts = append(s.carts, *c)
	if err := s.flush(); err != nil {
		s.carts = s.carts[:len(s.carts)-1]
		return fmt.Errorf("persist cart insert: %w", err)
	}
	return nil
}

// Update implements storage.CartStore.
func (s *CartStore) Update(ctx context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.carts {
		if s.carts[i].ID == c.ID {
			prev := s.carts[i]
			s.carts[i] = *c
			if err := s.flush(); err != nil {
				s.carts[i] = prev
				return fmt.Errorf("persist cart update: %w", err)
			}
			return nil
		}
	}
	return models.ErrNotFound
}

// NextID implements storage.CartStore.
func (s *CartStore) NextID(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max int64
	for i := range s.carts {
		if s.carts[i].ID > max {
			max = s.carts[i].ID
		}
	}
	return max + 1, nil
}
