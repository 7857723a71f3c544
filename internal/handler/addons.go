package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/brotinhos/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddonStore defines the database methods needed by add-on handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AddonStore interface {
	ListAddons(ctx context.Context) ([]database.Addon, error)
	CreateAddon(ctx context.Context, arg database.CreateAddonParams) (database.Addon, error)
	UpdateAddon(ctx context.Context, arg database.UpdateAddonParams) (database.Addon, error)
	SoftDeleteAddon(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// AddonHandler handles pizza add-on CRUD endpoints. Add-ons are global:
// any product with has_addons offers all of them.
type AddonHandler struct {
	store AddonStore
}

func NewAddonHandler(store AddonStore) *AddonHandler {
	return &AddonHandler{store: store}
}

// RegisterRoutes expects to be mounted at /admin/addons.
func (h *AddonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type addonRequest struct {
	Name         localizedText `json:"name"`
	Price        string        `json:"price"`
	DisplayOrder int32         `json:"display_order"`
}

type addonResponse struct {
	ID           uuid.UUID     `json:"id"`
	Name         localizedText `json:"name"`
	Price        string        `json:"price"`
	DisplayOrder int32         `json:"display_order"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
}

func toAddonResponse(a database.Addon) addonResponse {
	return addonResponse{
		ID:           a.ID,
		Name:         localizedText{Pt: a.NamePt, En: a.NameEn, Es: a.NameEs},
		Price:        database.NumericToDecimal(a.Price).StringFixed(2),
		DisplayOrder: a.DisplayOrder,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
	}
}

// decodeAddonRequest writes a 400 and reports false on invalid input.
func decodeAddonRequest(w http.ResponseWriter, r *http.Request) (database.CreateAddonParams, bool) {
	var req addonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return database.CreateAddonParams{}, false
	}
	req.Name = req.Name.trimmed()
	if !req.Name.hasDefault() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name.pt is required"})
		return database.CreateAddonParams{}, false
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return database.CreateAddonParams{}, false
	}
	return database.CreateAddonParams{
		NamePt:       req.Name.Pt,
		NameEn:       req.Name.En,
		NameEs:       req.Name.Es,
		Price:        database.DecimalToNumeric(price),
		DisplayOrder: req.DisplayOrder,
	}, true
}

// List returns active add-ons in display order.
func (h *AddonHandler) List(w http.ResponseWriter, r *http.Request) {
	addons, err := h.store.ListAddons(r.Context())
	if err != nil {
		log.Printf("ERROR: list addons: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]addonResponse, len(addons))
	for i, a := range addons {
		resp[i] = toAddonResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AddonHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeAddonRequest(w, r)
	if !ok {
		return
	}

	addon, err := h.store.CreateAddon(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toAddonResponse(addon))
}

func (h *AddonHandler) Update(w http.ResponseWriter, r *http.Request) {
	addonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid addon ID"})
		return
	}

	params, ok := decodeAddonRequest(w, r)
	if !ok {
		return
	}

	addon, err := h.store.UpdateAddon(r.Context(), database.UpdateAddonParams{
		NamePt:       params.NamePt,
		NameEn:       params.NameEn,
		NameEs:       params.NameEs,
		Price:        params.Price,
		DisplayOrder: params.DisplayOrder,
		ID:           addonID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "addon not found"})
			return
		}
		log.Printf("ERROR: update addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toAddonResponse(addon))
}

// Delete soft-deletes an add-on. Carts already holding it keep their snapshot.
func (h *AddonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	addonID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid addon ID"})
		return
	}

	if _, err := h.store.SoftDeleteAddon(r.Context(), addonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "addon not found"})
			return
		}
		log.Printf("ERROR: delete addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
