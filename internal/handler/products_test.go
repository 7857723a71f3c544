package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock store ---

type mockProductStore struct {
	products   map[uuid.UUID]database.Product
	categories map[uuid.UUID]bool
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{
		products:   make(map[uuid.UUID]database.Product),
		categories: make(map[uuid.UUID]bool),
	}
}

func (m *mockProductStore) ListProducts(_ context.Context) ([]database.Product, error) {
	var result []database.Product
	for _, p := range m.products {
		if p.IsActive {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProductStore) ListProductsByCategory(_ context.Context, categoryID uuid.UUID) ([]database.Product, error) {
	var result []database.Product
	for _, p := range m.products {
		if p.IsActive && p.CategoryID == categoryID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProductStore) GetProduct(_ context.Context, id uuid.UUID) (database.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return database.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, arg database.CreateProductParams) (database.Product, error) {
	if !m.categories[arg.CategoryID] {
		return database.Product{}, &pgconn.PgError{Code: "23503"}
	}
	p := database.Product{
		ID: uuid.New(), CategoryID: arg.CategoryID,
		NamePt: arg.NamePt, NameEn: arg.NameEn, NameEs: arg.NameEs,
		DescriptionPt: arg.DescriptionPt, DescriptionEn: arg.DescriptionEn, DescriptionEs: arg.DescriptionEs,
		Price: arg.Price, OriginalPrice: arg.OriginalPrice, ImageUrl: arg.ImageUrl,
		HasAddons: arg.HasAddons, Items: arg.Items, DisplayOrder: arg.DisplayOrder,
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, arg database.UpdateProductParams) (database.Product, error) {
	p, ok := m.products[arg.ID]
	if !ok || !p.IsActive {
		return database.Product{}, pgx.ErrNoRows
	}
	if !m.categories[arg.CategoryID] {
		return database.Product{}, &pgconn.PgError{Code: "23503"}
	}
	p.CategoryID = arg.CategoryID
	p.NamePt, p.NameEn, p.NameEs = arg.NamePt, arg.NameEn, arg.NameEs
	p.Price, p.OriginalPrice = arg.Price, arg.OriginalPrice
	p.HasAddons, p.Items = arg.HasAddons, arg.Items
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) SoftDeleteProduct(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	p.IsActive = false
	m.products[id] = p
	return id, nil
}

// --- Helpers ---

func setupProductRouter(store *mockProductStore) *chi.Mux {
	h := handler.NewProductHandler(store)
	r := chi.NewRouter()
	r.Route("/admin/products", h.RegisterRoutes)
	return r
}

func numeric(s string) pgtype.Numeric {
	return database.DecimalToNumeric(mustDecimal(s))
}

func seedProduct(store *mockProductStore, categoryID uuid.UUID, name, price string) database.Product {
	store.categories[categoryID] = true
	p := database.Product{
		ID: uuid.New(), CategoryID: categoryID, NamePt: name,
		Price: numeric(price), Items: []string{}, IsActive: true, CreatedAt: time.Now(),
	}
	store.products[p.ID] = p
	return p
}

func productBody(categoryID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"category_id":    categoryID.String(),
		"name":           map[string]string{"pt": "Combo Família", "en": "Family Combo"},
		"description":    map[string]string{"pt": "4 brotinhos + refri"},
		"price":          "59.90",
		"original_price": "69.90",
		"has_addons":     false,
		"items":          []string{"4 brotinhos", " ", "1 refrigerante 2L"},
		"display_order":  1,
	}
}

// --- Tests ---

func TestProductCreate_Valid(t *testing.T) {
	store := newMockProductStore()
	catID := uuid.New()
	store.categories[catID] = true

	rr := doRequest(t, setupProductRouter(store), "POST", "/admin/products", productBody(catID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["price"] != "59.90" {
		t.Errorf("price: got %v, want 59.90", resp["price"])
	}
	if resp["original_price"] != "69.90" {
		t.Errorf("original_price: got %v, want 69.90", resp["original_price"])
	}
	items, _ := resp["items"].([]interface{})
	if len(items) != 2 {
		t.Errorf("blank bundle items should be dropped, got %v", items)
	}
	desc, _ := resp["description"].(map[string]interface{})
	if desc["pt"] != "4 brotinhos + refri" || desc["en"] != "" {
		t.Errorf("description: got %v", desc)
	}
}

func TestProductCreate_Validation(t *testing.T) {
	catID := uuid.New()
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"bad category id", func(b map[string]interface{}) { b["category_id"] = "nope" }},
		{"missing pt name", func(b map[string]interface{}) { b["name"] = map[string]string{"en": "X"} }},
		{"bad price", func(b map[string]interface{}) { b["price"] = "abc" }},
		{"negative price", func(b map[string]interface{}) { b["price"] = "-1" }},
		{"three decimals", func(b map[string]interface{}) { b["price"] = "1.999" }},
		{"original below price", func(b map[string]interface{}) { b["original_price"] = "50.00" }},
		{"original equal price", func(b map[string]interface{}) { b["original_price"] = "59.90" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockProductStore()
			store.categories[catID] = true
			body := productBody(catID)
			tt.mutate(body)

			rr := doRequest(t, setupProductRouter(store), "POST", "/admin/products", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if len(store.products) != 0 {
				t.Error("no product should be stored")
			}
		})
	}
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	rr := doRequest(t, setupProductRouter(newMockProductStore()), "POST", "/admin/products", productBody(uuid.New()))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProductCreate_NoOriginalPrice(t *testing.T) {
	store := newMockProductStore()
	catID := uuid.New()
	store.categories[catID] = true
	body := productBody(catID)
	delete(body, "original_price")

	rr := doRequest(t, setupProductRouter(store), "POST", "/admin/products", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if resp := decodeResponse(t, rr); resp["original_price"] != nil {
		t.Errorf("original_price: got %v, want null", resp["original_price"])
	}
}

func TestProductList_FilterByCategory(t *testing.T) {
	store := newMockProductStore()
	pizzas, drinks := uuid.New(), uuid.New()
	seedProduct(store, pizzas, "Brotinho de Calabresa", "17.90")
	seedProduct(store, drinks, "Guaraná 250ml", "4.00")
	router := setupProductRouter(store)

	rr := doRequest(t, router, "GET", "/admin/products", nil)
	if got := len(decodeListResponse(t, rr)); got != 2 {
		t.Errorf("all products: got %d, want 2", got)
	}

	rr = doRequest(t, router, "GET", "/admin/products?category_id="+drinks.String(), nil)
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 || resp[0]["price"] != "4.00" {
		t.Errorf("filtered products: got %v", resp)
	}

	rr = doRequest(t, router, "GET", "/admin/products?category_id=bad", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad filter: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProductGet(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, uuid.New(), "Brotinho de Milho", "15.90")
	router := setupProductRouter(store)

	rr := doRequest(t, router, "GET", "/admin/products/"+p.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	name, _ := decodeResponse(t, rr)["name"].(map[string]interface{})
	if name["pt"] != "Brotinho de Milho" {
		t.Errorf("name: got %v", name)
	}

	rr = doRequest(t, router, "GET", "/admin/products/"+uuid.New().String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown product: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestProductUpdate(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, uuid.New(), "Old", "10.00")

	body := productBody(p.CategoryID)
	rr := doRequest(t, setupProductRouter(store), "PUT", "/admin/products/"+p.ID.String(), body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if got := store.products[p.ID]; got.NamePt != "Combo Família" {
		t.Errorf("stored name: got %q", got.NamePt)
	}
}

func TestProductUpdate_NotFound(t *testing.T) {
	store := newMockProductStore()
	catID := uuid.New()
	store.categories[catID] = true

	rr := doRequest(t, setupProductRouter(store), "PUT", "/admin/products/"+uuid.New().String(), productBody(catID))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestProductDelete(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, uuid.New(), "Brotinho", "15.90")
	router := setupProductRouter(store)

	rr := doRequest(t, router, "DELETE", "/admin/products/"+p.ID.String(), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.products[p.ID].IsActive {
		t.Error("product should be inactive")
	}

	rr = doRequest(t, router, "DELETE", "/admin/products/"+p.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
