// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

/*
Package models defines the data structures shared across ecomd.

It contains the product and cart records, the API request/response
payload types, and the error taxonomy the HTTP layer maps to status
codes. It serves as the single source of truth for data structure
definitions; no other package redeclares these shapes.

Key components:

  - Product, ProductInput, ProductPatch: catalog record and its API payloads
  - Cart, CartItem, ResolvedCart: cart record and its resolved API view
  - Envelope, ProductPage: response wrappers
  - ErrNotFound, ValidationError: the two error classes routers translate
*/
package models
