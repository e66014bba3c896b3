// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package models

// CartItem is one entry in a cart's product list.
//
// Invariants (enforced by the cart manager):
//   - Quantity >= 1.
//   - At most one item per distinct ProductID within a cart.
type CartItem struct {
	ProductID int64 `json:"product"`
	Quantity  int   `json:"quantity"`
}

// Cart is a shopping cart. A cart has no status field; its only state is
// the content of Products. Carts are created empty and are never deleted,
// only cleared.
type Cart struct {
	ID       int64      `json:"id"`
	Products []CartItem `json:"products"`
}

// FindItem returns the index of the item referencing productID, or -1.
func (c *Cart) FindItem(productID int64) int {
	for i, item := range c.Products {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ResolvedCartItem is a cart entry with the product reference resolved to
// the full product record. Product is nil for dangling references (the
// referenced product was deleted after the item was added).
type ResolvedCartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// ResolvedCart is a cart as returned by GET /api/carts/{cid}: same identity,
// items carrying full product data.
type ResolvedCart struct {
	ID       int64              `json:"id"`
	Products []ResolvedCartItem `json:"products"`
}
