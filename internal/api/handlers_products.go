// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/catalog"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
)

// ListProducts handles GET /api/products with pagination, price
// sorting, and category/status filtering. The response is the paginated
// envelope with navigation links, not the plain success envelope.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts := h.parseListOptions(r)

	page, err := h.catalog.List(r.Context(), opts)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// parseListOptions reads limit/page/sort/query parameters. Unusable
// values fall back to defaults rather than failing the request; only
// recognized sort and query values are kept for navigation links.
func (h *Handler) parseListOptions(r *http.Request) catalog.ListOptions {
	q := r.URL.Query()

	opts := catalog.ListOptions{
		Limit: parseIntParam(q.Get("limit"), h.config.API.DefaultPageSize),
		Page:  parseIntParam(q.Get("page"), 1),
	}
	if opts.Limit < 1 {
		opts.Limit = h.config.API.DefaultPageSize
	}
	if opts.Limit > h.config.API.MaxPageSize {
		opts.Limit = h.config.API.MaxPageSize
	}
	if opts.Page < 1 {
		opts.Page = 1
	}

	switch q.Get("sort") {
	case "asc":
		opts.Sort = storage.SortPriceAsc
		opts.SortParam = "asc"
	case "desc":
		opts.Sort = storage.SortPriceDesc
		opts.SortParam = "desc"
	}

	if query := q.Get("query"); query != "" {
		if filter, ok := parseQueryFilter(query); ok {
			opts.Filter = filter
			opts.QueryParam = query
		}
	}

	return opts
}

// parseQueryFilter interprets a "field:value" query. Only category and
// status are filterable; anything else matches everything.
func parseQueryFilter(query string) (storage.Filter, bool) {
	field, value, found := strings.Cut(query, ":")
	if !found {
		return storage.Filter{}, false
	}

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "category":
		return storage.Filter{Field: storage.FilterCategory, Category: strings.TrimSpace(value)}, true
	case "status":
		status, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return storage.Filter{}, false
		}
		return storage.Filter{Field: storage.FilterStatus, Status: status}, true
	default:
		return storage.Filter{}, false
	}
}

// GetProduct handles GET /api/products/{pid}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "pid"), "pid")
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondManagerError(w, err, "product not found")
		return
	}

	respondSuccess(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products. A successful insert
// triggers an updateProducts broadcast.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.catalog.Add(r.Context(), &input)
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	h.productsChanged()
	respondSuccess(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{pid} with a partial patch.
// The identifier cannot be changed; a successful update triggers a
// broadcast.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "pid"), "pid")
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	var patch models.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := h.catalog.Update(r.Context(), id, &patch)
	if err != nil {
		respondManagerError(w, err, "product not found")
		return
	}

	h.productsChanged()
	respondSuccess(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{pid}. The removed record
// is echoed back; a successful delete triggers a broadcast.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "pid"), "pid")
	if err != nil {
		respondManagerError(w, err, "")
		return
	}

	p, err := h.catalog.Delete(r.Context(), id)
	if err != nil {
		respondManagerError(w, err, "product not found")
		return
	}

	h.productsChanged()
	respondSuccess(w, http.StatusOK, p)
}
