// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package jsonfile implements the storage contract on top of flat JSON
// array files, one per entity type.
//
// Each store loads its file once at construction into an in-memory table
// guarded by a RWMutex and rewrites the whole file (temp file + rename)
// after every mutation while holding the write lock. Reads never touch the
// disk. This replaces the original re-read-on-every-call pattern, which
// allowed concurrent mutations to silently drop writes.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/metrics"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
)

// ProductStore is a file-backed storage.ProductStore.
type ProductStore struct {
	mu       sync.RWMutex
	path     string
	products []models.Product
}

// NewProductStore loads path (creating the parent directory if needed) and
// returns a store over its contents. A missing file yields an empty store;
// a malformed file is an error.
func NewProductStore(path string) (*ProductStore, error) {
	s := &ProductStore{path: path}
	if err := loadJSONFile(path, &s.products); err != nil {
		return nil, fmt.Errorf("load products file: %w", err)
	}
	return s, nil
}

// loadJSONFile reads a JSON array file into out. Absent files are treated
// as empty.
func loadJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// writeJSONFile rewrites path atomically: marshal, write a sibling temp
// file, then rename over the original.
func writeJSONFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// flush persists the in-memory table. Callers hold the write lock.
func (s *ProductStore) flush() error {
	defer metrics.ObserveStoreOp("file", "flush_products")()
	return writeJSONFile(s.path, s.products)
}

// List implements storage.ProductStore.
func (s *ProductStore) List(ctx context.Context, filter storage.Filter, sortBy storage.Sort, limit, offset int) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Product, 0, len(s.products))
	for i := range s.products {
		if filter.Matches(&s.products[i]) {
			matched = append(matched, s.products[i])
		}
	}

	switch sortBy {
	case storage.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case storage.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	if limit <= 0 || offset >= len(matched) {
		return []models.Product{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	if offset < 0 {
		offset = 0
	}
	return matched[offset:end], nil
}

// Count implements storage.ProductStore.
func (s *ProductStore) Count(ctx context.Context, filter storage.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for i := range s.products {
		if filter.Matches(&s.products[i]) {
			n++
		}
	}
	return n, nil
}

// Get implements storage.ProductStore.
func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

// GetByCode implements storage.ProductStore.
func (s *ProductStore) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.products {
		if s.products[i].Code == code {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

// Insert implements storage.ProductStore.
func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, *p)
	if err := s.flush(); err != nil {
		s.products = s.products[:len(s.products)-1]
		return fmt.Errorf("persist product insert: %w", err)
	}
	return nil
}

// Update implements storage.ProductStore.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == p.ID {
			prev := s.products[i]
			s.products[i] = *p
			if err := s.flush(); err != nil {
				s.products[i] = prev
				return fmt.Errorf("persist product update: %w", err)
			}
			return nil
		}
	}
	return models.ErrNotFound
}

// Delete implements storage.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			removed := s.products[i]
			s.products = append(s.products[:i], s.products[i+1:]...)
			if err := s.flush(); err != nil {
				s.products = append(s.products, models.Product{})
				copy(s.products[i+1:], s.products[i:])
				s.products[i] = removed
				return fmt.Errorf("persist product delete: %w", err)
			}
			return nil
		}
	}
	return models.ErrNotFound
}

// NextID implements storage.ProductStore.
func (s *ProductStore) NextID(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max int64
	for i := range s.products {
		if s.products[i].ID > max {
			max = s.products[i].ID
		}
	}
	return max + 1, nil
}
