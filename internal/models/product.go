// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package models defines the data types shared across the storefront:
// products, carts, the HTTP response envelope, and the error kinds the
// routers translate into status codes.
package models

// Product is a single catalog entry.
//
// Invariants (enforced by the catalog manager, not by this type):
//   - ID is unique and assigned on insert (max existing ID + 1, or 1).
//   - Code is unique across all products after trim + upper-case
//     normalization.
//   - Title, Description, and Category are non-empty after trimming.
//   - Price > 0, Stock >= 0.
type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Status      bool     `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

// ProductInput is the payload accepted by POST /api/products.
//
// Status defaults to true when omitted; Thumbnails defaults to an empty
// slice. Validation tags cover type-level constraints; the manager applies
// the trim/normalization rules on top.
type ProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Status      *bool    `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

// ProductPatch is the partial-update payload accepted by PUT
// /api/products/{pid}. Nil fields are left untouched. ID is decoded only so
// the manager can reject attempts to mutate the identifier.
type ProductPatch struct {
	ID          *int64    `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	Category    *string   `json:"category"`
	Status      *bool     `json:"status"`
	Thumbnails  *[]string `json:"thumbnails"`
}

// Empty reports whether the patch carries no updatable fields.
func (p *ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Code == nil &&
		p.Price == nil && p.Stock == nil && p.Category == nil &&
		p.Status == nil && p.Thumbnails == nil
}
