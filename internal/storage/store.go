// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package storage defines the durable CRUD contract the entity managers
// depend on, with two interchangeable implementations selected at
// composition time:
//
//   - jsonfile: one human-readable JSON array file per entity type, held in
//     an in-memory table and rewritten wholesale on each mutation
//   - badgerstore: BadgerDB documents, one key per record
//
// Stores signal absent records with models.ErrNotFound and are safe for
// concurrent use. Atomicity covers single store calls only; multi-step
// manager operations (check product exists, then append to cart, then save)
// are not transactional across calls.
package storage

import (
	"context"

	"github.com/ecomd/ecomd/internal/models"
)

// FilterField selects which product field a Filter matches on. Only
// category and status are recognized; anything else is mapped to
// FilterNone by the API layer.
type FilterField int

const (
	// FilterNone matches every product.
	FilterNone FilterField = iota
	// FilterCategory matches products whose category equals Category.
	FilterCategory
	// FilterStatus matches products whose status equals Status.
	FilterStatus
)

// Filter is a typed equality filter over products. The zero value matches
// everything.
type Filter struct {
	Field    FilterField
	Category string
	Status   bool
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p *models.Product) bool {
	switch f.Field {
	case FilterCategory:
		return p.Category == f.Category
	case FilterStatus:
		return p.Status == f.Status
	default:
		return true
	}
}

// Sort orders a product listing by price.
type Sort int

const (
	// SortNone preserves insertion order.
	SortNone Sort = iota
	// SortPriceAsc orders by ascending price.
	SortPriceAsc
	// SortPriceDesc orders by descending price.
	SortPriceDesc
)

// ProductStore is the durable owner of product records.
type ProductStore interface {
	// List returns up to limit products matching filter, ordered by sort,
	// skipping offset matching records first. A limit <= 0 returns an
	// empty slice; an offset past the end returns an empty slice.
	List(ctx context.Context, filter Filter, sort Sort, limit, offset int) ([]models.Product, error)

	// Count returns the number of products matching filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// Get returns the product with the given ID or models.ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Product, error)

	// GetByCode returns the product with the given normalized code or
	// models.ErrNotFound. Lookup is exact; callers normalize first.
	GetByCode(ctx context.Context, code string) (*models.Product, error)

	// Insert persists a new product. The caller assigns the ID.
	Insert(ctx context.Context, p *models.Product) error

	// Update replaces the stored record with the same ID, or returns
	// models.ErrNotFound.
	Update(ctx context.Context, p *models.Product) error

	// Delete removes the product with the given ID, or returns
	// models.ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// NextID returns one greater than the current maximum product ID,
	// or 1 for an empty store.
	NextID(ctx context.Context) (int64, error)
}

// CartStore is the durable owner of cart records.
type CartStore interface {
	// Get returns the cart with the given ID or models.ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Cart, error)

	// Insert persists a new cart. The caller assigns the ID.
	Insert(ctx context.Context, c *models.Cart) error

	// Update replaces the stored cart with the same ID, or returns
	// models.ErrNotFound.
	Update(ctx context.Context, c *models.Cart) error

	// NextID returns one greater than the current maximum cart ID, or 1
	// for an empty store.
	NextID(ctx context.Context) (int64, error)
}
