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
)

// --- Mock store ---

type mockCategoryStore struct {
	categories map[uuid.UUID]database.Category
}

func newMockCategoryStore() *mockCategoryStore {
	return &mockCategoryStore{categories: make(map[uuid.UUID]database.Category)}
}

func (m *mockCategoryStore) slugTaken(slug string, except uuid.UUID) bool {
	for _, c := range m.categories {
		if c.Slug == slug && c.ID != except {
			return true
		}
	}
	return false
}

func (m *mockCategoryStore) ListCategories(_ context.Context) ([]database.Category, error) {
	var result []database.Category
	for _, c := range m.categories {
		if c.IsActive {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCategoryStore) CreateCategory(_ context.Context, arg database.CreateCategoryParams) (database.Category, error) {
	if m.slugTaken(arg.Slug, uuid.Nil) {
		return database.Category{}, &pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"}
	}
	c := database.Category{
		ID:           uuid.New(),
		Slug:         arg.Slug,
		NamePt:       arg.NamePt,
		NameEn:       arg.NameEn,
		NameEs:       arg.NameEs,
		DisplayOrder: arg.DisplayOrder,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) UpdateCategory(_ context.Context, arg database.UpdateCategoryParams) (database.Category, error) {
	c, ok := m.categories[arg.ID]
	if !ok || !c.IsActive {
		return database.Category{}, pgx.ErrNoRows
	}
	if m.slugTaken(arg.Slug, arg.ID) {
		return database.Category{}, &pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"}
	}
	c.Slug = arg.Slug
	c.NamePt, c.NameEn, c.NameEs = arg.NamePt, arg.NameEn, arg.NameEs
	c.DisplayOrder = arg.DisplayOrder
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCategoryStore) SoftDeleteCategory(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	c, ok := m.categories[id]
	if !ok || !c.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	c.IsActive = false
	m.categories[c.ID] = c
	return c.ID, nil
}

// --- Helpers ---

func setupCategoryRouter(store *mockCategoryStore) *chi.Mux {
	h := handler.NewCategoryHandler(store)
	r := chi.NewRouter()
	r.Route("/admin/categories", h.RegisterRoutes)
	return r
}

func seedCategory(store *mockCategoryStore, slug string) database.Category {
	c := database.Category{
		ID: uuid.New(), Slug: slug, NamePt: "Pizzas", NameEn: "Pizzas", NameEs: "Pizzas",
		DisplayOrder: 1, IsActive: true, CreatedAt: time.Now(),
	}
	store.categories[c.ID] = c
	return c
}

// --- List tests ---

func TestCategoryList_Empty(t *testing.T) {
	rr := doRequest(t, setupCategoryRouter(newMockCategoryStore()), "GET", "/admin/categories", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if resp := decodeListResponse(t, rr); len(resp) != 0 {
		t.Errorf("expected empty list, got %d items", len(resp))
	}
}

func TestCategoryList_SkipsInactive(t *testing.T) {
	store := newMockCategoryStore()
	seedCategory(store, "pizza")
	gone := seedCategory(store, "promo")
	gone.IsActive = false
	store.categories[gone.ID] = gone

	rr := doRequest(t, setupCategoryRouter(store), "GET", "/admin/categories", nil)
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 || resp[0]["slug"] != "pizza" {
		t.Fatalf("expected only pizza, got %v", resp)
	}
	name, _ := resp[0]["name"].(map[string]interface{})
	if name["pt"] != "Pizzas" {
		t.Errorf("localized name: got %v", name)
	}
}

// --- Create tests ---

func TestCategoryCreate_Valid(t *testing.T) {
	store := newMockCategoryStore()
	rr := doRequest(t, setupCategoryRouter(store), "POST", "/admin/categories", map[string]interface{}{
		"slug":          " Drink ",
		"name":          map[string]string{"pt": "Bebidas", "en": "Drinks", "es": "Bebidas"},
		"display_order": 2,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["slug"] != "drink" {
		t.Errorf("slug: got %v, want drink", resp["slug"])
	}
	if resp["display_order"] != float64(2) {
		t.Errorf("display_order: got %v", resp["display_order"])
	}
	if resp["is_active"] != true {
		t.Errorf("is_active: got %v", resp["is_active"])
	}
}

func TestCategoryCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing slug", map[string]interface{}{"name": map[string]string{"pt": "X"}}},
		{"bad slug", map[string]interface{}{"slug": "no spaces", "name": map[string]string{"pt": "X"}}},
		{"missing pt name", map[string]interface{}{"slug": "x", "name": map[string]string{"en": "X"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, setupCategoryRouter(newMockCategoryStore()), "POST", "/admin/categories", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCategoryCreate_DuplicateSlug(t *testing.T) {
	store := newMockCategoryStore()
	seedCategory(store, "pizza")

	rr := doRequest(t, setupCategoryRouter(store), "POST", "/admin/categories", map[string]interface{}{
		"slug": "pizza", "name": map[string]string{"pt": "Outra"},
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

// --- Update tests ---

func TestCategoryUpdate(t *testing.T) {
	store := newMockCategoryStore()
	c := seedCategory(store, "pizza")

	rr := doRequest(t, setupCategoryRouter(store), "PUT", "/admin/categories/"+c.ID.String(), map[string]interface{}{
		"slug": "pizza", "name": map[string]string{"pt": "Brotinhos", "en": "Mini Pizzas"}, "display_order": 5,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if got := store.categories[c.ID]; got.NamePt != "Brotinhos" || got.DisplayOrder != 5 {
		t.Errorf("stored category: %+v", got)
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	rr := doRequest(t, setupCategoryRouter(newMockCategoryStore()), "PUT", "/admin/categories/"+uuid.New().String(), map[string]interface{}{
		"slug": "x", "name": map[string]string{"pt": "X"},
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryUpdate_InvalidID(t *testing.T) {
	rr := doRequest(t, setupCategoryRouter(newMockCategoryStore()), "PUT", "/admin/categories/not-a-uuid", map[string]interface{}{
		"slug": "x", "name": map[string]string{"pt": "X"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Delete tests ---

func TestCategoryDelete_SoftDeletes(t *testing.T) {
	store := newMockCategoryStore()
	c := seedCategory(store, "pizza")
	router := setupCategoryRouter(store)

	rr := doRequest(t, router, "DELETE", "/admin/categories/"+c.ID.String(), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.categories[c.ID].IsActive {
		t.Error("category should be inactive")
	}

	rr = doRequest(t, router, "DELETE", "/admin/categories/"+c.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
