// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package cart

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage/jsonfile"
)

// newManager wires a cart manager over file stores seeded with n products.
func newManager(t *testing.T, productCount int) (*Manager, []int64) {
	t.Helper()

	dir := t.TempDir()
	products, err := jsonfile.NewProductStore(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("product store: %v", err)
	}
	carts, err := jsonfile.NewCartStore(filepath.Join(dir, "carts.json"))
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}

	ids := make([]int64, 0, productCount)
	for i := 0; i < productCount; i++ {
		id := int64(i + 1)
		p := &models.Product{
			ID:          id,
			Title:       "Widget",
			Description: "test widget",
			Code:        "WID-" + string(rune('A'+i)),
			Price:       5,
			Stock:       10,
			Category:    "widgets",
			Status:      true,
			Thumbnails:  []string{},
		}
		if err := products.Insert(context.Background(), p); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	return NewManager(carts, products), ids
}

func TestCreateStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newManager(t, 0)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 1 || len(c.Products) != 0 {
		t.Errorf("new cart = %+v", c)
	}

	second, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != 2 {
		t.Errorf("second cart ID = %d", second.ID)
	}
}

func TestAddProductAccumulates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.AddProduct(ctx, c.ID, pids[0], 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	got, err := m.AddProduct(ctx, c.ID, pids[0], 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(got.Products) != 1 {
		t.Fatalf("entries = %d, want 1", len(got.Products))
	}
	if got.Products[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", got.Products[0].Quantity)
	}
}

func TestAddProductErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.AddProduct(ctx, c.ID, pids[0], 0); !models.IsValidation(err) {
		t.Errorf("qty 0 = %v, want validation error", err)
	}
	if _, err := m.AddProduct(ctx, c.ID, 99, 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown product = %v, want ErrNotFound", err)
	}
	if _, err := m.AddProduct(ctx, 99, pids[0], 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown cart = %v, want ErrNotFound", err)
	}
}

func TestGetResolvesProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 2)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 2); err != nil {
		t.Fatal(err)
	}

	resolved, err := m.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resolved.Products) != 1 {
		t.Fatalf("resolved entries = %d", len(resolved.Products))
	}
	item := resolved.Products[0]
	if item.Product == nil || item.Product.ID != pids[0] {
		t.Errorf("resolved product = %+v", item.Product)
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d", item.Quantity)
	}
}

func TestGetPreservesDanglingReferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 3); err != nil {
		t.Fatal(err)
	}

	// Delete the product behind the cart's back.
	if err := m.products.Delete(ctx, pids[0]); err != nil {
		t.Fatal(err)
	}

	resolved, err := m.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resolved.Products) != 1 {
		t.Fatalf("resolved entries = %d", len(resolved.Products))
	}
	if resolved.Products[0].Product != nil {
		t.Error("dangling reference should resolve to nil product")
	}
	if resolved.Products[0].Quantity != 3 {
		t.Errorf("quantity not preserved: %d", resolved.Products[0].Quantity)
	}
}

func TestRemoveProductIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 1); err != nil {
		t.Fatal(err)
	}

	got, err := m.RemoveProduct(ctx, c.ID, pids[0])
	if err != nil {
		t.Fatalf("RemoveProduct: %v", err)
	}
	if len(got.Products) != 0 {
		t.Errorf("entries after remove = %d", len(got.Products))
	}

	// Second removal is a no-op, not an error.
	if _, err := m.RemoveProduct(ctx, c.ID, pids[0]); err != nil {
		t.Errorf("second remove = %v", err)
	}
}

func TestReplaceProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 2)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 5); err != nil {
		t.Fatal(err)
	}

	items := []models.CartItem{
		{ProductID: pids[0], Quantity: 1},
		{ProductID: pids[1], Quantity: 2},
	}
	got, err := m.ReplaceProducts(ctx, c.ID, items)
	if err != nil {
		t.Fatalf("ReplaceProducts: %v", err)
	}
	if len(got.Products) != 2 || got.Products[0].Quantity != 1 {
		t.Errorf("replaced cart = %+v", got.Products)
	}
}

func TestReplaceProductsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 5); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		items   []models.CartItem
		wantVal bool
	}{
		{"unknown product", []models.CartItem{{ProductID: 99, Quantity: 1}}, false},
		{"duplicate reference", []models.CartItem{
			{ProductID: pids[0], Quantity: 1},
			{ProductID: pids[0], Quantity: 2},
		}, true},
		{"zero quantity", []models.CartItem{{ProductID: pids[0], Quantity: 0}}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.ReplaceProducts(ctx, c.ID, tc.items)
			if tc.wantVal && !models.IsValidation(err) {
				t.Fatalf("ReplaceProducts = %v, want validation error", err)
			}
			if !tc.wantVal && !errors.Is(err, models.ErrNotFound) {
				t.Fatalf("ReplaceProducts = %v, want ErrNotFound", err)
			}

			// The existing contents survive a failed replacement.
			resolved, err := m.Get(ctx, c.ID)
			if err != nil {
				t.Fatal(err)
			}
			if len(resolved.Products) != 1 || resolved.Products[0].Quantity != 5 {
				t.Errorf("cart mutated by failed replace: %+v", resolved.Products)
			}
		})
	}
}

func TestReplaceProductsNilBecomesEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 1); err != nil {
		t.Fatal(err)
	}

	got, err := m.ReplaceProducts(ctx, c.ID, nil)
	if err != nil {
		t.Fatalf("ReplaceProducts(nil): %v", err)
	}
	if got.Products == nil || len(got.Products) != 0 {
		t.Errorf("cart after nil replace = %+v", got.Products)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 4); err != nil {
		t.Fatal(err)
	}

	got, err := m.UpdateQuantity(ctx, c.ID, pids[0], 2)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if got.Products[0].Quantity != 2 {
		t.Errorf("quantity = %d, want overwrite to 2", got.Products[0].Quantity)
	}

	if _, err := m.UpdateQuantity(ctx, c.ID, pids[0], 0); !models.IsValidation(err) {
		t.Errorf("qty 0 = %v, want validation error", err)
	}
	if _, err := m.UpdateQuantity(ctx, c.ID, 99, 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("product not in cart = %v, want ErrNotFound", err)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, pids := newManager(t, 1)

	c, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddProduct(ctx, c.ID, pids[0], 4); err != nil {
		t.Fatal(err)
	}

	got, err := m.Clear(ctx, c.ID)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(got.Products) != 0 {
		t.Errorf("entries after clear = %d", len(got.Products))
	}

	// The cart itself survives.
	if _, err := m.Get(ctx, c.ID); err != nil {
		t.Errorf("Get after clear = %v", err)
	}

	if _, err := m.Clear(ctx, 99); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Clear missing cart = %v, want ErrNotFound", err)
	}
}
