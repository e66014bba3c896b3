// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/metrics"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
)

// ProductStore is a BadgerDB-backed storage.ProductStore.
type ProductStore struct {
	db *badger.DB
}

// NewProductStore returns a product store over db.
func NewProductStore(db *badger.DB) *ProductStore {
	return &ProductStore{db: db}
}

// collectMatching iterates the product prefix and returns every document
// satisfying the filter, in key (insertion) order.
func (s *ProductStore) collectMatching(filter storage.Filter) ([]models.Product, error) {
	var matched []models.Product

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(productKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p models.Product
				if err := json.Unmarshal(val, &p); err != nil {
					return fmt.Errorf("decode product document: %w", err)
				}
				if filter.Matches(&p) {
					matched = append(matched, p)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

// List implements storage.ProductStore.
func (s *ProductStore) List(ctx context.Context, filter storage.Filter, sortBy storage.Sort, limit, offset int) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("badger", "list_products")()

	matched, err := s.collectMatching(filter)
	if err != nil {
		return nil, err
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
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// Count implements storage.ProductStore.
func (s *ProductStore) Count(ctx context.Context, filter storage.Filter) (int, error) {
	matched, err := s.collectMatching(filter)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Get implements storage.ProductStore.
func (s *ProductStore) Get(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByCode implements storage.ProductStore. It resolves the code index to
// an id and loads the document in the same transaction.
func (s *ProductStore) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(codeKey(code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get code index: %w", err)
		}

		var id int64
		if err := item.Value(func(val []byte) error {
			id, err = strconv.ParseInt(string(val), 10, 64)
			return err
		}); err != nil {
			return fmt.Errorf("decode code index: %w", err)
		}

		doc, err := txn.Get(productKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Stale index entry; treat as absent.
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		return doc.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert implements storage.ProductStore.
func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("badger", "insert_product")()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(productKey(p.ID), data); err != nil {
			return fmt.Errorf("set product: %w", err)
		}
		if err := txn.Set(codeKey(p.Code), []byte(strconv.FormatInt(p.ID, 10))); err != nil {
			return fmt.Errorf("set code index: %w", err)
		}
		return nil
	})
}

// Update implements storage.ProductStore. A changed code drops the old
// index entry within the same transaction.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("badger", "update_product")()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(p.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		var prev models.Product
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &prev)
		}); err != nil {
			return fmt.Errorf("decode product document: %w", err)
		}

		if prev.Code != p.Code {
			if err := txn.Delete(codeKey(prev.Code)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete stale code index: %w", err)
			}
			if err := txn.Set(codeKey(p.Code), []byte(strconv.FormatInt(p.ID, 10))); err != nil {
				return fmt.Errorf("set code index: %w", err)
			}
		}

		if err := txn.Set(productKey(p.ID), data); err != nil {
			return fmt.Errorf("set product: %w", err)
		}
		return nil
	})
}

// Delete implements storage.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveStoreOp("badger", "delete_product")()

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		var p models.Product
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		}); err != nil {
			return fmt.Errorf("decode product document: %w", err)
		}

		if err := txn.Delete(productKey(id)); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		if err := txn.Delete(codeKey(p.Code)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete code index: %w", err)
		}
		return nil
	})
}

// NextID implements storage.ProductStore. Keys are zero-padded, so the last
// key under the prefix holds the maximum ID.
func (s *ProductStore) NextID(ctx context.Context) (int64, error) {
	return nextID(s.db, productKeyPrefix)
}

// nextID scans the prefix in reverse and returns max+1 (1 when empty).
func nextID(db *badger.DB, prefix string) (int64, error) {
	var max int64

	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible key of the prefix, then the first
		// valid entry in reverse order is the maximum.
		seek := append([]byte(prefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			id, err := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
			if err != nil {
				return fmt.Errorf("parse key %q: %w", key, err)
			}
			max = id
			return nil
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
