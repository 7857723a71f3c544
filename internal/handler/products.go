package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ProductStore defines the database methods needed by product handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]database.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]database.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ProductHandler handles product CRUD endpoints.
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes registers product CRUD endpoints on the given Chi router.
// Expected to be mounted at /admin/products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type productRequest struct {
	CategoryID    string        `json:"category_id"`
	Name          localizedText `json:"name"`
	Description   localizedText `json:"description"`
	Price         string        `json:"price"`
	OriginalPrice string        `json:"original_price"`
	ImageURL      string        `json:"image_url"`
	HasAddons     bool          `json:"has_addons"`
	Items         []string      `json:"items"`
	DisplayOrder  int32         `json:"display_order"`
}

// productFields is a validated productRequest.
type productFields struct {
	categoryID    uuid.UUID
	name          localizedText
	description   localizedText
	price         pgtype.Numeric
	originalPrice pgtype.Numeric
	imageURL      pgtype.Text
	items         []string
}

func (req productRequest) validate() (productFields, string) {
	var f productFields

	catID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return f, "invalid category_id"
	}
	f.categoryID = catID

	f.name = req.Name.trimmed()
	if !f.name.hasDefault() {
		return f, "name.pt is required"
	}
	f.description = req.Description.trimmed()

	price, err := parsePrice(req.Price)
	if err != nil {
		return f, "invalid price"
	}
	original := decimal.NullDecimal{}
	if strings.TrimSpace(req.OriginalPrice) != "" {
		d, err := parsePrice(req.OriginalPrice)
		if err != nil {
			return f, "invalid original_price"
		}
		original = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if err := catalog.ValidatePrices(price, original); err != nil {
		return f, err.Error()
	}
	f.price = database.DecimalToNumeric(price)
	if original.Valid {
		f.originalPrice = database.DecimalToNumeric(original.Decimal)
	}

	f.imageURL = optionalText(req.ImageURL)
	f.items = []string{}
	for _, it := range req.Items {
		if it = strings.TrimSpace(it); it != "" {
			f.items = append(f.items, it)
		}
	}
	return f, ""
}

type productResponse struct {
	ID            uuid.UUID     `json:"id"`
	CategoryID    uuid.UUID     `json:"category_id"`
	Name          localizedText `json:"name"`
	Description   localizedText `json:"description"`
	Price         string        `json:"price"`
	OriginalPrice *string       `json:"original_price"`
	ImageURL      *string       `json:"image_url"`
	HasAddons     bool          `json:"has_addons"`
	Items         []string      `json:"items"`
	DisplayOrder  int32         `json:"display_order"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toProductResponse(p database.Product) productResponse {
	resp := productResponse{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       localizedText{Pt: p.NamePt, En: p.NameEn, Es: p.NameEs},
		Description: localizedText{
			Pt: p.DescriptionPt.String,
			En: p.DescriptionEn.String,
			Es: p.DescriptionEs.String,
		},
		Price:        database.NumericToDecimal(p.Price).StringFixed(2),
		HasAddons:    p.HasAddons,
		Items:        p.Items,
		DisplayOrder: p.DisplayOrder,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if resp.Items == nil {
		resp.Items = []string{}
	}
	if p.OriginalPrice.Valid {
		s := database.NumericToDecimal(p.OriginalPrice).StringFixed(2)
		resp.OriginalPrice = &s
	}
	if p.ImageUrl.Valid {
		resp.ImageURL = &p.ImageUrl.String
	}
	return resp
}

// --- Helpers ---

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

var errBadPrice = errors.New("bad price")

// parsePrice accepts a non-negative amount with at most two decimals.
func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || !d.Equal(d.Round(2)) {
		return decimal.Zero, errBadPrice
	}
	return d, nil
}

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

// --- Handlers ---

// List returns all active products, optionally filtered by ?category_id.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		products []database.Product
		err      error
	)
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		catID, perr := uuid.Parse(raw)
		if perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		products, err = h.store.ListProductsByCategory(r.Context(), catID)
	} else {
		products, err = h.store.ListProducts(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	prodID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	product, err := h.store.GetProduct(r.Context(), prodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Create adds a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	f, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	product, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		CategoryID:    f.categoryID,
		NamePt:        f.name.Pt,
		NameEn:        f.name.En,
		NameEs:        f.name.Es,
		DescriptionPt: optionalText(f.description.Pt),
		DescriptionEn: optionalText(f.description.En),
		DescriptionEs: optionalText(f.description.Es),
		Price:         f.price,
		OriginalPrice: f.originalPrice,
		ImageUrl:      f.imageURL,
		HasAddons:     req.HasAddons,
		Items:         f.items,
		DisplayOrder:  req.DisplayOrder,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: create product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update modifies an existing product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	prodID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	f, msg := req.validate()
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		CategoryID:    f.categoryID,
		NamePt:        f.name.Pt,
		NameEn:        f.name.En,
		NameEs:        f.name.Es,
		DescriptionPt: optionalText(f.description.Pt),
		DescriptionEn: optionalText(f.description.En),
		DescriptionEs: optionalText(f.description.Es),
		Price:         f.price,
		OriginalPrice: f.originalPrice,
		ImageUrl:      f.imageURL,
		HasAddons:     req.HasAddons,
		Items:         f.items,
		DisplayOrder:  req.DisplayOrder,
		ID:            prodID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: update product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete soft-deletes a product by setting is_active=false.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	prodID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	if _, err := h.store.SoftDeleteProduct(r.Context(), prodID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: delete product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
