// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/models"
)

// quantityBody is the optional request body for add-to-cart and the
// required body for quantity updates.
type quantityBody struct {
	Quantity int `json:"quantity"`
}

// cartIDs extracts the {cid} and optionally {pid} path parameters.
func cartIDs(r *http.Request, withProduct bool) (cartID, productID int64, err error) {
	cartID, err = pathID(chi.URLParam(r, "cid"), "cid")
	if err != nil {
		return 0, 0, err
	}
	if withProduct {
		productID, err = pathID(chi.URLParam(r, "pid"), "pid")
		if err != nil {
			return 0, 0, err
		}
	}
	return cartID, productID, nil
}

// CreateCart handles POST /api/carts. Carts are created empty.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		respondManagerError(w, err, "")
		return
	}
	respondSuccess(w, http.StatusCreated, c)
}

// GetCart handles GET /api/carts/{cid}, returning the cart's items with
// product references resolved to full records.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID, _, err := cartIDs(r, false)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	c, err := h.carts.Get(r.Context(), cartID)
	if err != nil {
		respondManagerError(w, err, "cart not found")
		return
	}

	respondSuccess(w, http.StatusOK, c.Products)
}

// AddProductToCart handles POST /api/carts/{cid}/products/{pid} and the
// legacy singular /product/ path. The optional body {"quantity": n}
// defaults to 1; an existing entry's quantity is incremented.
func (h *Handler) AddProductToCart(w http.ResponseWriter, r *http.Request) {
	cartID, productID, err := cartIDs(r, true)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	body := quantityBody{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.carts.AddProduct(r.Context(), cartID, productID, body.Quantity)
	if err != nil {
		respondManagerError(w, err, "cart or product not found")
		return
	}

	respondSuccess(w, http.StatusOK, c)
}

// RemoveProductFromCart handles DELETE /api/carts/{cid}/products/{pid}.
// Removing a product that is not in the cart succeeds without change.
func (h *Handler) RemoveProductFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, productID, err := cartIDs(r, true)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	c, err := h.carts.RemoveProduct(r.Context(), cartID, productID)
	if err != nil {
		respondManagerError(w, err, "cart not found")
		return
	}

	respondSuccess(w, http.StatusOK, c)
}

// ReplaceCartProducts handles PUT /api/carts/{cid}: the body is the
// complete new item array and replaces the cart contents wholesale.
func (h *Handler) ReplaceCartProducts(w http.ResponseWriter, r *http.Request) {
	cartID, _, err := cartIDs(r, false)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	items, err := decodeCartItems(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body, expected an array of cart items")
		return
	}

	c, err := h.carts.ReplaceProducts(r.Context(), cartID, items)
	if err != nil {
		respondManagerError(w, err, "cart or product not found")
		return
	}

	respondSuccess(w, http.StatusOK, c)
}

// decodeCartItems reads the replacement item list from a PUT /api/carts
// body. Both the bare array form and the wrapped {"products": [...]} form
// are accepted.
func decodeCartItems(r *http.Request) ([]models.CartItem, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Products []models.CartItem `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Products == nil {
		return nil, errors.New("products array missing")
	}
	return wrapped.Products, nil
}

// UpdateCartProductQuantity handles PUT /api/carts/{cid}/products/{pid}
// with body {"quantity": n}. Unlike add, the quantity is overwritten.
func (h *Handler) UpdateCartProductQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, productID, err := cartIDs(r, true)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	var body quantityBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body, expected {\"quantity\": n}")
		return
	}

	c, err := h.carts.UpdateQuantity(r.Context(), cartID, productID, body.Quantity)
	if err != nil {
		respondManagerError(w, err, "cart or product not found")
		return
	}

	respondSuccess(w, http.StatusOK, c)
}

// ClearCart handles DELETE /api/carts/{cid}: all items are removed, the
// cart itself remains.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID, _, err := cartIDs(r, false)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	c, err := h.carts.Clear(r.Context(), cartID)
	if err != nil {
		respondManagerError(w, err, "cart not found")
		return
	}

	respondSuccess(w, http.StatusOK, c)
}
