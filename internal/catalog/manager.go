// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package catalog implements the product manager: validation and CRUD
// orchestration over a storage.ProductStore. The manager owns nothing
// durable; the store is the owner of record.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecomd/ecomd/internal/logging"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage"
	"github.com/ecomd/ecomd/internal/validation"
)

// DefaultLimit and DefaultPage are the pagination fallbacks applied when a
// listing request omits the parameters or supplies unusable values.
const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// listBaseURL is the path navigation links are rebuilt against.
const listBaseURL = "/api/products"

// ListOptions carries a parsed listing request.
//
// SortParam and QueryParam preserve the raw query-string values so that
// navigation links can be reconstructed from the same parameters the
// client sent; Sort and Filter are their typed forms.
type ListOptions struct {
	Limit  int
	Page   int
	Sort   storage.Sort
	Filter storage.Filter

	SortParam  string
	QueryParam string
}

// Manager encapsulates product validation and persistence orchestration.
type Manager struct {
	store storage.ProductStore
}

// NewManager returns a product manager over store.
func NewManager(store storage.ProductStore) *Manager {
	return &Manager{store: store}
}

// List applies the filter, sorts by price if requested, then pages the
// result. Out-of-range pages are not an error: the payload is empty and
// the metadata still describes the full result set.
func (m *Manager) List(ctx context.Context, opts ListOptions) (*models.ProductPage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Page <= 0 {
		opts.Page = DefaultPage
	}

	total, err := m.store.Count(ctx, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit
	rows, err := m.store.List(ctx, opts.Filter, opts.Sort, opts.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if rows == nil {
		rows = []models.Product{}
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit

	page := &models.ProductPage{
		Status:      "success",
		Payload:     rows,
		TotalPages:  totalPages,
		Page:        opts.Page,
		HasPrevPage: opts.Page > 1,
		HasNextPage: opts.Page < totalPages,
	}

	if page.HasPrevPage {
		prev := opts.Page - 1
		page.PrevPage = &prev
		link := buildPageLink(prev, opts)
		page.PrevLink = &link
	}
	if page.HasNextPage {
		next := opts.Page + 1
		page.NextPage = &next
		link := buildPageLink(next, opts)
		page.NextLink = &link
	}

	return page, nil
}

// buildPageLink reconstructs a navigation URL from the request's own
// query parameters.
func buildPageLink(page int, opts ListOptions) string {
	link := fmt.Sprintf("%s?page=%d&limit=%d", listBaseURL, page, opts.Limit)
	if opts.SortParam != "" {
		link += "&sort=" + opts.SortParam
	}
	if opts.QueryParam != "" {
		link += "&query=" + opts.QueryParam
	}
	return link
}

// Get returns the product with the given id or models.ErrNotFound.
func (m *Manager) Get(ctx context.Context, id int64) (*models.Product, error) {
	return m.store.Get(ctx, id)
}

// NormalizeCode trims and upper-cases a product code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Add validates input, normalizes its text fields, enforces code
// uniqueness, assigns the next identifier, and persists the record.
// Status defaults to true and thumbnails to an empty slice when omitted.
func (m *Manager) Add(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, &models.ValidationError{Message: err.ToAPIError().Message}
	}

	p := models.Product{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Code:        NormalizeCode(input.Code),
		Price:       input.Price,
		Stock:       *input.Stock,
		Category:    strings.TrimSpace(input.Category),
		Status:      true,
		Thumbnails:  []string{},
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.Thumbnails != nil {
		p.Thumbnails = input.Thumbnails
	}

	if err := validateTextFields(p.Title, p.Description, p.Code, p.Category); err != nil {
		return nil, err
	}

	if err := m.checkCodeUnique(ctx, p.Code, 0); err != nil {
		return nil, err
	}

	id, err := m.store.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next product id: %w", err)
	}
	p.ID = id

	if err := m.store.Insert(ctx, &p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("product_id", p.ID).Str("code", p.Code).Msg("product added")
	return &p, nil
}

// validateTextFields rejects text fields that are empty after trimming.
func validateTextFields(title, description, code, category string) error {
	switch {
	case title == "":
		return models.NewValidationError("title must be a non-empty string")
	case description == "":
		return models.NewValidationError("description must be a non-empty string")
	case code == "":
		return models.NewValidationError("code must be a non-empty string")
	case category == "":
		return models.NewValidationError("category must be a non-empty string")
	}
	return nil
}

// checkCodeUnique returns a validation error when code belongs to a
// product other than selfID. Pass selfID 0 for inserts.
func (m *Manager) checkCodeUnique(ctx context.Context, code string, selfID int64) error {
	existing, err := m.store.GetByCode(ctx, code)
	if models.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check code uniqueness: %w", err)
	}
	if existing.ID != selfID {
		return models.NewValidationError("code %s already exists", code)
	}
	return nil
}

// Update merges patch into the stored record field by field. Identifier
// mutation is rejected; every provided field is validated with the same
// rules as Add; a changed code is re-checked for uniqueness against all
// other products. Returns models.ErrNotFound for an absent id.
func (m *Manager) Update(ctx context.Context, id int64, patch *models.ProductPatch) (*models.Product, error) {
	if patch.ID != nil {
		return nil, models.NewValidationError("product id cannot be modified")
	}

	p, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// An empty patch is a no-op; skip the store write but keep the
	// not-found check above.
	if patch.Empty() {
		return p, nil
	}

	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Code != nil {
		code := NormalizeCode(*patch.Code)
		if code != p.Code {
			if code == "" {
				return nil, models.NewValidationError("code must be a non-empty string")
			}
			if err := m.checkCodeUnique(ctx, code, id); err != nil {
				return nil, err
			}
		}
		p.Code = code
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			return nil, models.NewValidationError("price must be a positive number")
		}
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, models.NewValidationError("stock must be a non-negative integer")
		}
		p.Stock = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Thumbnails != nil {
		p.Thumbnails = *patch.Thumbnails
	}

	if err := validateTextFields(p.Title, p.Description, p.Code, p.Category); err != nil {
		return nil, err
	}

	if err := m.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("product_id", id).Msg("product updated")
	return p, nil
}

// Delete removes and returns the record, or models.ErrNotFound.
func (m *Manager) Delete(ctx context.Context, id int64) (*models.Product, error) {
	p, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Int64("product_id", id).Msg("product deleted")
	return p, nil
}
