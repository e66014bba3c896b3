// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package cart implements the cart manager: validation and CRUD
// orchestration over a storage.CartStore, with product references checked
// against the product store.
//
// Multi-step operations (check product exists, then modify the cart, then
// save) are not wrapped in a transaction. A concurrent product delete
// between the check and the save leaves a dangling reference; the save
// still succeeds and Get resolves the reference to a nil product.
package cart

import (
	"context"
	"fmt"

	"github.com/ecomd/ecomd/internal/logging"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
)

// Manager encapsulates cart validation and persistence orchestration.
type Manager struct {
	carts    storage.CartStore
	products storage.ProductStore
}

// NewManager returns a cart manager over the two stores.
func NewManager(carts storage.CartStore, products storage.ProductStore) *Manager {
	return &Manager{carts: carts, products: products}
}

// Create persists a new cart with an empty product list and a fresh
// identifier.
func (m *Manager) Create(ctx context.Context) (*models.Cart, error) {
	id, err := m.carts.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next cart id: %w", err)
	}

	c := models.Cart{ID: id, Products: []models.CartItem{}}
	if err := m.carts.Insert(ctx, &c); err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("cart_id", id).Msg("cart created")
	return &c, nil
}

// Get returns the cart with product references resolved to full product
// records. Dangling references resolve to a nil product; the quantity is
// preserved. Returns models.ErrNotFound for an absent cart.
func (m *Manager) Get(ctx context.Context, id int64) (*models.ResolvedCart, error) {
	c, err := m.carts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resolved := &models.ResolvedCart{
		ID:       c.ID,
		Products: make([]models.ResolvedCartItem, 0, len(c.Products)),
	}
	for _, item := range c.Products {
		p, err := m.products.Get(ctx, item.ProductID)
		if err != nil && !models.IsNotFound(err) {
			return nil, fmt.Errorf("resolve product %d: %w", item.ProductID, err)
		}
		resolved.Products = append(resolved.Products, models.ResolvedCartItem{
			Product:  p,
			Quantity: item.Quantity,
		})
	}
	return resolved, nil
}

// AddProduct verifies both cart and product exist, then increments the
// quantity of an existing entry by qty or appends a new entry. A qty < 1
// is a validation error.
func (m *Manager) AddProduct(ctx context.Context, cartID, productID int64, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, models.NewValidationError("quantity must be a positive number")
	}

	if _, err := m.products.Get(ctx, productID); err != nil {
		if models.IsNotFound(err) {
			return nil, fmt.Errorf("product with id %d: %w", productID, models.ErrNotFound)
		}
		return nil, err
	}

	c, err := m.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if i := c.FindItem(productID); i >= 0 {
		c.Products[i].Quantity += qty
	} else {
		c.Products = append(c.Products, models.CartItem{ProductID: productID, Quantity: qty})
	}

	if err := m.carts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int64("cart_id", cartID).
		Int64("product_id", productID).
		Int("quantity", qty).
		Msg("product added to cart")
	return c, nil
}

// RemoveProduct filters out the entry referencing productID. Removal is
// idempotent: an absent reference leaves the cart unchanged and is not an
// error.
func (m *Manager) RemoveProduct(ctx context.Context, cartID, productID int64) (*models.Cart, error) {
	c, err := m.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	kept := c.Products[:0]
	for _, item := range c.Products {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Products = kept

	if err := m.carts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return c, nil
}

// ReplaceProducts validates every referenced product exists before
// replacing the cart's product list wholesale. The first missing product
// is named in the error and nothing is replaced. Duplicate references and
// quantities below 1 are validation errors.
func (m *Manager) ReplaceProducts(ctx context.Context, cartID int64, items []models.CartItem) (*models.Cart, error) {
	c, err := m.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, models.NewValidationError("quantity for product %d must be a positive number", item.ProductID)
		}
		if seen[item.ProductID] {
			return nil, models.NewValidationError("duplicate product %d in products list", item.ProductID)
		}
		seen[item.ProductID] = true

		if _, err := m.products.Get(ctx, item.ProductID); err != nil {
			if models.IsNotFound(err) {
				return nil, fmt.Errorf("product with id %d: %w", item.ProductID, models.ErrNotFound)
			}
			return nil, err
		}
	}

	if items == nil {
		items = []models.CartItem{}
	}
	c.Products = items

	if err := m.carts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("cart_id", cartID).Int("items", len(items)).Msg("cart products replaced")
	return c, nil
}

// UpdateQuantity overwrites the quantity of an existing entry. Unlike
// AddProduct this never increments; the two endpoints intentionally
// differ. The entry must already be present.
func (m *Manager) UpdateQuantity(ctx context.Context, cartID, productID int64, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, models.NewValidationError("quantity must be a positive number")
	}

	c, err := m.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	i := c.FindItem(productID)
	if i < 0 {
		return nil, fmt.Errorf("product with id %d not in cart: %w", productID, models.ErrNotFound)
	}
	c.Products[i].Quantity = qty

	if err := m.carts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return c, nil
}

// Clear empties the product list. The cart itself persists; there is no
// deleted state for carts.
func (m *Manager) Clear(ctx context.Context, cartID int64) (*models.Cart, error) {
	c, err := m.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	c.Products = []models.CartItem{}
	if err := m.carts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("cart_id", cartID).Msg("cart cleared")
	return c, nil
}
