package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brotinhos/api/internal/cart"
	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/brotinhos/api/internal/service"
	"github.com/brotinhos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderStore defines the database methods needed by back-office order handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateOrderNotes(ctx context.Context, arg database.UpdateOrderNotesParams) (database.Order, error)
}

// EventPublisher pushes live events to back-office clients.
// Satisfied by *ws.Hub.
type EventPublisher interface {
	Publish(topic, eventType string, payload interface{}) error
}

// OrderHandler serves the back-office order queue.
type OrderHandler struct {
	store  OrderStore
	events EventPublisher
}

// NewOrderHandler creates a new OrderHandler. events may be nil.
func NewOrderHandler(store OrderStore, events EventPublisher) *OrderHandler {
	return &OrderHandler{store: store, events: events}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /admin/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/notes", h.UpdateNotes)
}

// --- Request / Response types ---

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

type orderAddonResponse struct {
	ID    string            `json:"id"`
	Name  catalog.Localized `json:"name"`
	Price string            `json:"price"`
}

type orderLineResponse struct {
	ProductID string               `json:"product_id"`
	Name      catalog.Localized    `json:"name"`
	Label     string               `json:"label"`
	Category  string               `json:"category"`
	UnitPrice string               `json:"unit_price"`
	Quantity  int                  `json:"quantity"`
	Total     string               `json:"total"`
	Addons    []orderAddonResponse `json:"addons"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	PaymentMethod string              `json:"payment_method"`
	PickupTime    *string             `json:"pickup_time"`
	Language      string              `json:"language"`
	Lines         []orderLineResponse `json:"lines"`
	Total         string              `json:"total"`
	Status        string              `json:"status"`
	Notes         *string             `json:"notes"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toOrderLineResponses(lines []cart.Line, lang i18n.Language) []orderLineResponse {
	resp := make([]orderLineResponse, len(lines))
	for i, l := range lines {
		addons := make([]orderAddonResponse, len(l.Addons))
		for j, a := range l.Addons {
			addons[j] = orderAddonResponse{ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2)}
		}
		resp[i] = orderLineResponse{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Label:     l.Product.Name.Get(lang),
			Category:  l.Product.Category,
			UnitPrice: l.UnitPrice().StringFixed(2),
			Quantity:  l.Quantity,
			Total:     l.Total.StringFixed(2),
			Addons:    addons,
		}
	}
	return resp
}

func dbOrderToResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: o.PaymentMethod,
		Language:      o.Language,
		Lines:         []orderLineResponse{},
		Total:         database.NumericToDecimal(o.Total).StringFixed(2),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.PickupTime.Valid {
		resp.PickupTime = &o.PickupTime.String
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}

	lines, err := cart.DecodeLines(o.Items)
	if err != nil {
		log.Printf("WARN: order %s: decode lines (version %d): %v", o.OrderNumber, o.ItemsVersion, err)
		return resp
	}
	resp.Lines = toOrderLineResponses(lines, i18n.Language(o.Language))
	return resp
}

func (h *OrderHandler) publish(eventType string, o database.Order) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ws.TopicOrders, eventType, dbOrderToResponse(o)); err != nil {
		log.Printf("WARN: publish %s for order %s: %v", eventType, o.OrderNumber, err)
	}
}

// --- Handlers ---

// List handles GET /admin/orders?status=&limit=&offset=, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if !service.IsValidStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// Get handles GET /admin/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(order))
}

// UpdateStatus handles PATCH /admin/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	if !service.IsValidStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for status update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := service.ValidateTransition(current.Status, req.Status); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		Status:   req.Status,
		ID:       orderID,
		Status_2: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status changed between the read and the write.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.publish(ws.EventOrderUpdated, updated)
	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))
}

// UpdateNotes handles PATCH /admin/orders/{id}/notes. Empty notes clear them.
func (h *OrderHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	notes := strings.TrimSpace(req.Notes)
	updated, err := h.store.UpdateOrderNotes(r.Context(), database.UpdateOrderNotesParams{
		Notes: pgtype.Text{String: notes, Valid: notes != ""},
		ID:    orderID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order notes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.publish(ws.EventOrderUpdated, updated)
	writeJSON(w, http.StatusOK, dbOrderToResponse(updated))
}
