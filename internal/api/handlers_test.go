// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/ecomd/ecomd/internal/cart"
	"github.com/ecomd/ecomd/internal/catalog"
	"github.com/ecomd/ecomd/internal/config"
	"github.com/ecomd/ecomd/internal/models"
	"github.com/ecomd/ecomd/internal/storage/jsonfile"
)

// newTestServer spins up the full route table over the JSON-file
// backend in a temp directory.
func newTestServer(t *testing.T) *httptest.Server {
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

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080, Timeout: 30 * time.Second},
		Storage: config.StorageConfig{Backend: config.BackendFile, DataDir: dir},
		API:     config.APIConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}

	handler := NewHandler(catalog.NewManager(products), cart.NewManager(carts, products), cfg, nil, nil)
	srv := httptest.NewServer(NewRouter(handler, cfg).SetupChi())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, models.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func sampleProduct(code string) map[string]interface{} {
	return map[string]interface{}{
		"title":       "Mug " + code,
		"description": "A ceramic mug",
		"code":        code,
		"price":       9.5,
		"stock":       12,
		"category":    "kitchen",
	}
}

func createProduct(t *testing.T, baseURL, code string) int64 {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, baseURL+"/api/products", sampleProduct(code))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: status %d, message %q", resp.StatusCode, env.Message)
	}

	payload, ok := env.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload has type %T", env.Payload)
	}
	return int64(payload["id"].(float64))
}

func TestCreateAndGetProduct(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createProduct(t, srv.URL, "mug-01")

	resp, env := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Status != "success" {
		t.Errorf("status field = %q", env.Status)
	}

	payload := env.Payload.(map[string]interface{})
	if payload["code"] != "MUG-01" {
		t.Errorf("code = %v, want normalized MUG-01", payload["code"])
	}
	if payload["status"] != true {
		t.Errorf("status default = %v, want true", payload["status"])
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	body := sampleProduct("mug-02")
	delete(body, "title")
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/products", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Status != "error" || env.Message == "" {
		t.Errorf("expected error envelope with message, got %+v", env)
	}
}

func TestCreateProductDuplicateCode(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	createProduct(t, srv.URL, "dup-01")

	// Same code with different case and whitespace still collides.
	body := sampleProduct("  DUP-01 ")
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/products", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for duplicate code", resp.StatusCode)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/products/4242", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Status != "error" {
		t.Errorf("status field = %q, want error", env.Status)
	}
}

func TestGetProductBadID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/products/banana", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createProduct(t, srv.URL, "upd-01")

	resp, env := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/products/%d", srv.URL, id),
		map[string]interface{}{"price": 19.99, "stock": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, message %q", resp.StatusCode, env.Message)
	}

	payload := env.Payload.(map[string]interface{})
	if payload["price"] != 19.99 {
		t.Errorf("price = %v, want 19.99", payload["price"])
	}
	if payload["title"] != "Mug upd-01" {
		t.Errorf("unpatched title changed: %v", payload["title"])
	}
}

func TestUpdateProductRejectsIDChange(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createProduct(t, srv.URL, "idc-01")

	resp, _ := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/products/%d", srv.URL, id),
		map[string]interface{}{"id": 999, "price": 5.0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when patching id", resp.StatusCode)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := createProduct(t, srv.URL, "del-01")

	resp, env := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	payload := env.Payload.(map[string]interface{})
	if payload["code"] != "DEL-01" {
		t.Errorf("deleted payload code = %v", payload["code"])
	}

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/products/%d", srv.URL, id), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", resp.StatusCode)
	}
}

func TestListProductsPagination(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	for i := 0; i < 15; i++ {
		createProduct(t, srv.URL, fmt.Sprintf("pag-%02d", i))
	}

	resp, err := http.Get(srv.URL + "/api/products?limit=5&page=2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var page models.ProductPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}

	if page.Status != "success" {
		t.Errorf("status = %q", page.Status)
	}
	if len(page.Payload) != 5 {
		t.Errorf("payload len = %d, want 5", len(page.Payload))
	}
	if page.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page.TotalPages)
	}
	if !page.HasPrevPage || !page.HasNextPage {
		t.Error("page 2 of 3 should have both neighbors")
	}
	if page.PrevLink == nil || *page.PrevLink != "/api/products?page=1&limit=5" {
		t.Errorf("prevLink = %v", page.PrevLink)
	}
	if page.NextLink == nil || *page.NextLink != "/api/products?page=3&limit=5" {
		t.Errorf("nextLink = %v", page.NextLink)
	}
}

func TestListProductsSortAndFilter(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	prices := []float64{30, 10, 20}
	for i, price := range prices {
		body := sampleProduct(fmt.Sprintf("srt-%02d", i))
		body["price"] = price
		if i == 0 {
			body["category"] = "outdoor"
		}
		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/products", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: %d %q", resp.StatusCode, env.Message)
		}
	}

	resp, err := http.Get(srv.URL + "/api/products?sort=asc")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var page models.ProductPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(page.Payload); i++ {
		if page.Payload[i].Price < page.Payload[i-1].Price {
			t.Fatalf("payload not sorted ascending: %v then %v", page.Payload[i-1].Price, page.Payload[i].Price)
		}
	}

	resp2, err := http.Get(srv.URL + "/api/products?query=category:outdoor")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()

	var filtered models.ProductPage
	if err := json.NewDecoder(resp2.Body).Decode(&filtered); err != nil {
		t.Fatal(err)
	}
	if len(filtered.Payload) != 1 || filtered.Payload[0].Category != "outdoor" {
		t.Errorf("category filter returned %+v", filtered.Payload)
	}
}

func TestCartLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	productID := createProduct(t, srv.URL, "cart-01")

	// Create cart.
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/carts", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cart: %d", resp.StatusCode)
	}
	cartID := int64(env.Payload.(map[string]interface{})["id"].(float64))

	// Add the product twice: quantities accumulate.
	addURL := fmt.Sprintf("%s/api/carts/%d/products/%d", srv.URL, cartID, productID)
	if resp, _ := doJSON(t, http.MethodPost, addURL, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("first add: %d", resp.StatusCode)
	}
	resp, env = doJSON(t, http.MethodPost, addURL, map[string]int{"quantity": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second add: %d", resp.StatusCode)
	}

	products := env.Payload.(map[string]interface{})["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("cart entries = %d, want 1", len(products))
	}
	entry := products[0].(map[string]interface{})
	if entry["quantity"] != float64(3) {
		t.Errorf("quantity = %v, want 3 (1 + 2)", entry["quantity"])
	}

	// Overwrite quantity.
	resp, env = doJSON(t, http.MethodPut, addURL, map[string]int{"quantity": 7})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update quantity: %d", resp.StatusCode)
	}
	entry = env.Payload.(map[string]interface{})["products"].([]interface{})[0].(map[string]interface{})
	if entry["quantity"] != float64(7) {
		t.Errorf("quantity = %v, want 7 (overwrite)", entry["quantity"])
	}

	// Resolved cart view.
	resp, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/carts/%d", srv.URL, cartID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get cart: %d", resp.StatusCode)
	}
	resolved := env.Payload.([]interface{})
	if len(resolved) != 1 {
		t.Fatalf("resolved entries = %d", len(resolved))
	}
	item := resolved[0].(map[string]interface{})
	if item["product"].(map[string]interface{})["code"] != "CART-01" {
		t.Errorf("resolved product = %v", item["product"])
	}

	// Remove is idempotent.
	if resp, _ := doJSON(t, http.MethodDelete, addURL, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("remove: %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, http.MethodDelete, addURL, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("second remove should still succeed: %d", resp.StatusCode)
	}
}

func TestAddUnknownProductToCart(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/carts", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("create cart failed")
	}
	cartID := int64(env.Payload.(map[string]interface{})["id"].(float64))

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/carts/%d/products/555", srv.URL, cartID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown product", resp.StatusCode)
	}
}

func TestReplaceCartProducts(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	p1 := createProduct(t, srv.URL, "rep-01")
	p2 := createProduct(t, srv.URL, "rep-02")

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/carts", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("create cart failed")
	}
	cartID := int64(env.Payload.(map[string]interface{})["id"].(float64))
	cartURL := fmt.Sprintf("%s/api/carts/%d", srv.URL, cartID)

	items := []map[string]interface{}{
		{"product": p1, "quantity": 2},
		{"product": p2, "quantity": 4},
	}
	resp, env = doJSON(t, http.MethodPut, cartURL, items)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replace: %d %q", resp.StatusCode, env.Message)
	}
	if got := len(env.Payload.(map[string]interface{})["products"].([]interface{})); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}

	// The wrapped {"products": [...]} form is accepted too.
	resp, env = doJSON(t, http.MethodPut, cartURL, map[string]interface{}{"products": items})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("wrapped replace: %d %q", resp.StatusCode, env.Message)
	}

	// A body that is neither an array nor a products wrapper is a 400.
	resp, _ = doJSON(t, http.MethodPut, cartURL, map[string]interface{}{"quantity": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-array body: %d, want 400", resp.StatusCode)
	}

	// One unknown product rejects the whole replacement.
	items = append(items, map[string]interface{}{"product": 999, "quantity": 1})
	resp, _ = doJSON(t, http.MethodPut, cartURL, items)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("replace with unknown product: %d, want 404", resp.StatusCode)
	}

	// Cart still holds the previous two entries.
	resp, env = doJSON(t, http.MethodGet, cartURL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("get cart failed")
	}
	if got := len(env.Payload.([]interface{})); got != 2 {
		t.Errorf("entries after failed replace = %d, want 2", got)
	}

	// Clear leaves an empty cart, not a 404.
	resp, env = doJSON(t, http.MethodDelete, cartURL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: %d", resp.StatusCode)
	}
	if got := len(env.Payload.(map[string]interface{})["products"].([]interface{})); got != 0 {
		t.Errorf("entries after clear = %d, want 0", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %d", resp.StatusCode)
	}
	payload := env.Payload.(map[string]interface{})
	if payload["status"] != "healthy" {
		t.Errorf("health status = %v", payload["status"])
	}
	if payload["backend"] != config.BackendFile {
		t.Errorf("backend = %v", payload["backend"])
	}

	for _, path := range []string{"/api/health/live", "/api/health/ready"} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: %d", path, resp.StatusCode)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: %d", resp.StatusCode)
	}
}

func TestWebsocketRejectedWithoutHub(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	for _, path := range []string{"/api/ws", "/ws"} {
		resp, env := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d, want 503 without hub", path, resp.StatusCode)
		}
		if env.Status != "error" {
			t.Errorf("%s: envelope status = %q", path, env.Status)
		}
	}
}
