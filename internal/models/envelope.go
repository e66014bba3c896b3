// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package models

// Envelope is the uniform response wrapper emitted by every endpoint.
//
// Status is "success" or "error". Payload carries the result on success;
// Message carries a human-readable description on error (and occasionally
// alongside a success payload, e.g. delete confirmations).
//
// Example success:
//
//	{"status":"success","payload":{"id":3,"title":"..."}}
//
// Example error:
//
//	{"status":"error","message":"product with id 42 not found"}
type Envelope struct {
	Status  string      `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ProductPage is the response body for GET /api/products. The pagination
// metadata sits at the top level next to status/payload, matching the
// navigation contract the frontend consumes.
//
// PrevPage/NextPage are nil at the boundaries; PrevLink/NextLink are
// reconstructed from the request's own query parameters so a client can
// walk pages without rebuilding URLs.
type ProductPage struct {
	Status      string    `json:"status"`
	Payload     []Product `json:"payload"`
	TotalPages  int       `json:"totalPages"`
	PrevPage    *int      `json:"prevPage"`
	NextPage    *int      `json:"nextPage"`
	Page        int       `json:"page"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
	PrevLink    *string   `json:"prevLink"`
	NextLink    *string   `json:"nextLink"`
}
