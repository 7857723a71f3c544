package handler

import (
	"log"
	"net/http"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/go-chi/chi/v5"
)

// MenuHandler serves the public, localized menu.
type MenuHandler struct {
	source catalog.Source
}

func NewMenuHandler(source catalog.Source) *MenuHandler {
	return &MenuHandler{source: source}
}

// RegisterRoutes expects to be mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type menuAddonResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type menuProductResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         string   `json:"price"`
	OriginalPrice *string  `json:"original_price"`
	ImageURL      string   `json:"image_url,omitempty"`
	HasAddons     bool     `json:"has_addons"`
	Items         []string `json:"items"`
}

type menuCategoryResponse struct {
	ID       string                `json:"id"`
	Slug     string                `json:"slug"`
	Name     string                `json:"name"`
	Title    string                `json:"title"`
	Products []menuProductResponse `json:"products"`
}

type menuResponse struct {
	Language   i18n.Language          `json:"language"`
	Categories []menuCategoryResponse `json:"categories"`
	Addons     []menuAddonResponse    `json:"addons"`
}

// requestLanguage picks ?lang when supported, else the best Accept-Language
// match, else Portuguese.
func requestLanguage(r *http.Request) i18n.Language {
	if raw := r.URL.Query().Get("lang"); raw != "" {
		if lang, err := i18n.Parse(raw); err == nil {
			return lang
		}
	}
	return i18n.FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

func toMenuProduct(p catalog.Product, lang i18n.Language) menuProductResponse {
	resp := menuProductResponse{
		ID:          p.ID,
		Name:        p.Name.Get(lang),
		Description: p.Description.Get(lang),
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		HasAddons:   p.HasAddons,
		Items:       p.Items,
	}
	if resp.Items == nil {
		resp.Items = []string{}
	}
	if p.OriginalPrice.Valid {
		s := p.OriginalPrice.Decimal.StringFixed(2)
		resp.OriginalPrice = &s
	}
	return resp
}

func toMenuResponse(c *catalog.Catalog, lang i18n.Language) menuResponse {
	labels := i18n.For(lang)
	resp := menuResponse{Language: lang}

	cats := c.Categories()
	resp.Categories = make([]menuCategoryResponse, 0, len(cats))
	for _, cat := range cats {
		name := cat.Name.Get(lang)
		title := labels.SectionTitle[cat.Slug]
		if title == "" {
			title = name
		}
		products := c.ProductsIn(cat.ID)
		items := make([]menuProductResponse, len(products))
		for i, p := range products {
			items[i] = toMenuProduct(p, lang)
		}
		resp.Categories = append(resp.Categories, menuCategoryResponse{
			ID:       cat.ID,
			Slug:     cat.Slug,
			Name:     name,
			Title:    title,
			Products: items,
		})
	}

	addons := c.AllAddons()
	resp.Addons = make([]menuAddonResponse, len(addons))
	for i, a := range addons {
		resp.Addons[i] = menuAddonResponse{ID: a.ID, Name: a.Name.Get(lang), Price: a.Price.StringFixed(2)}
	}
	return resp
}

// Get handles GET /menu?lang=.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	menu, err := h.source.Menu(r.Context())
	if err != nil {
		log.Printf("ERROR: load menu: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lang := requestLanguage(r)
	w.Header().Set("Content-Language", string(lang))
	writeJSON(w, http.StatusOK, toMenuResponse(menu, lang))
}
