package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/handler"
	"github.com/go-chi/chi/v5"
)

type failingSource struct{}

func (failingSource) Menu(context.Context) (*catalog.Catalog, error) {
	return nil, errors.New("db down")
}

func setupMenuRouter(source catalog.Source) *chi.Mux {
	h := handler.NewMenuHandler(source)
	r := chi.NewRouter()
	r.Route("/menu", h.RegisterRoutes)
	return r
}

func getMenu(t *testing.T, router http.Handler, path, acceptLanguage string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func findCategory(t *testing.T, resp map[string]interface{}, slug string) map[string]interface{} {
	t.Helper()
	cats, _ := resp["categories"].([]interface{})
	for _, c := range cats {
		m := c.(map[string]interface{})
		if m["slug"] == slug {
			return m
		}
	}
	t.Fatalf("category %q not in menu", slug)
	return nil
}

func TestMenu_LanguageSelection(t *testing.T) {
	router := setupMenuRouter(catalog.Static(catalog.Default()))

	tests := []struct {
		name           string
		path           string
		acceptLanguage string
		wantLang       string
		wantTitle      string
	}{
		{"default", "/menu", "", "pt", "Nossos Brotinhos"},
		{"query", "/menu?lang=en", "", "en", "Our Mini Pizzas"},
		{"query wins over header", "/menu?lang=es", "en-US", "es", "Nuestras Mini Pizzas"},
		{"header", "/menu", "en-GB,en;q=0.9", "en", "Our Mini Pizzas"},
		{"unsupported query falls back to header", "/menu?lang=fr", "es-AR", "es", "Nuestras Mini Pizzas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := getMenu(t, router, tt.path, tt.acceptLanguage)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
			}
			if got := rr.Header().Get("Content-Language"); got != tt.wantLang {
				t.Errorf("Content-Language: got %q, want %q", got, tt.wantLang)
			}
			resp := decodeResponse(t, rr)
			if resp["language"] != tt.wantLang {
				t.Errorf("language: got %v, want %s", resp["language"], tt.wantLang)
			}
			if got := findCategory(t, resp, "pizza")["title"]; got != tt.wantTitle {
				t.Errorf("title: got %v, want %s", got, tt.wantTitle)
			}
		})
	}
}

func TestMenu_ProductsAndAddons(t *testing.T) {
	rr := getMenu(t, setupMenuRouter(catalog.Static(catalog.Default())), "/menu?lang=en", "")
	resp := decodeResponse(t, rr)

	pizzas, _ := findCategory(t, resp, "pizza")["products"].([]interface{})
	if len(pizzas) == 0 {
		t.Fatal("no pizzas on the menu")
	}
	first := pizzas[0].(map[string]interface{})
	if first["name"] != "Mozzarella Mini Pizza" || first["price"] != "15.90" || first["has_addons"] != true {
		t.Errorf("first pizza: got %v", first)
	}
	if first["original_price"] != nil {
		t.Errorf("original_price: got %v, want null", first["original_price"])
	}

	combos, _ := findCategory(t, resp, "combo")["products"].([]interface{})
	combo := combos[0].(map[string]interface{})
	if combo["original_price"] != "40.00" {
		t.Errorf("combo original_price: got %v, want 40.00", combo["original_price"])
	}

	addons, _ := resp["addons"].([]interface{})
	if len(addons) != len(catalog.DefaultAddons()) {
		t.Fatalf("addons: got %d", len(addons))
	}
	if a := addons[0].(map[string]interface{}); a["name"] != "Extra Cheese" || a["price"] != "3.00" {
		t.Errorf("first addon: got %v", a)
	}
}

func TestMenu_SourceError(t *testing.T) {
	rr := getMenu(t, setupMenuRouter(failingSource{}), "/menu", "")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
