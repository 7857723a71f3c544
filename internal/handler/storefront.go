package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/brotinhos/api/internal/cart"
	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/checkout"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/brotinhos/api/internal/service"
	"github.com/brotinhos/api/internal/whatsapp"
	"github.com/brotinhos/api/internal/ws"
	"github.com/go-chi/chi/v5"
)

const (
	SessionCookie = "brotinhos_session"
	SessionHeader = "X-Session-ID"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// SessionStore runs fn on a visitor session. Satisfied by *checkout.Store.
type SessionStore interface {
	With(id string, lang i18n.Language, fn func(*checkout.Session) error) (string, error)
}

// OrderRecorder persists submitted orders. Satisfied by *service.OrderService.
type OrderRecorder interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*database.Order, error)
}

// StorefrontHandler serves the visitor cart and the WhatsApp checkout.
type StorefrontHandler struct {
	sessions SessionStore
	source   catalog.Source
	linker   whatsapp.Linker
	orders   OrderRecorder
	events   EventPublisher
}

// NewStorefrontHandler creates a StorefrontHandler. orders and events may be
// nil, in which case submitted orders are only handed off.
func NewStorefrontHandler(sessions SessionStore, source catalog.Source, linker whatsapp.Linker, orders OrderRecorder, events EventPublisher) *StorefrontHandler {
	return &StorefrontHandler{
		sessions: sessions,
		source:   source,
		linker:   linker,
		orders:   orders,
		events:   events,
	}
}

// RegisterRoutes registers the storefront endpoints at the router root.
func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{productID}", h.RemoveItem)
	r.Delete("/cart", h.ClearCart)
	r.Post("/cart/open", h.OpenCart)
	r.Put("/session/language", h.SetLanguage)
	r.Post("/checkout", h.BeginCheckout)
	r.Post("/checkout/cancel", h.CancelCheckout)
	r.Post("/checkout/submit", h.Submit)
}

// --- Request / Response types ---

type addItemRequest struct {
	ProductID string   `json:"product_id"`
	AddonIDs  []string `json:"addon_ids"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type submitRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Payment    string `json:"payment"`
	PickupTime string `json:"pickup_time"`
	Notes      string `json:"notes"`
}

type cartAddonResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type cartLineResponse struct {
	ProductID string              `json:"product_id"`
	Name      string              `json:"name"`
	Quantity  int                 `json:"quantity"`
	UnitPrice string              `json:"unit_price"`
	Total     string              `json:"total"`
	Addons    []cartAddonResponse `json:"addons"`
}

type cartResponse struct {
	SessionID string             `json:"session_id"`
	State     checkout.State     `json:"state"`
	Language  i18n.Language      `json:"language"`
	Lines     []cartLineResponse `json:"lines"`
	Total     string             `json:"total"`
	ItemCount int                `json:"item_count"`
}

type submitResponse struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
	OrderNumber string `json:"order_number,omitempty"`
	Total       string `json:"total"`
	ItemCount   int    `json:"item_count"`
	Warning     string `json:"warning,omitempty"`
}

func toCartResponse(s *checkout.Session) cartResponse {
	c := s.Cart()
	lines := c.Lines()
	resp := cartResponse{
		SessionID: s.ID,
		State:     s.State(),
		Language:  s.Language,
		Lines:     make([]cartLineResponse, len(lines)),
		Total:     c.TotalPrice().StringFixed(2),
		ItemCount: c.ItemCount(),
	}
	for i, l := range lines {
		resp.Lines[i] = toCartLine(l, s.Language)
	}
	return resp
}

func toCartLine(l cart.Line, lang i18n.Language) cartLineResponse {
	addons := make([]cartAddonResponse, len(l.Addons))
	for i, a := range l.Addons {
		addons[i] = cartAddonResponse{ID: a.ID, Name: a.Name.Get(lang), Price: a.Price.StringFixed(2)}
	}
	return cartLineResponse{
		ProductID: l.Product.ID,
		Name:      l.Product.Name.Get(lang),
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice().StringFixed(2),
		Total:     l.Total.StringFixed(2),
		Addons:    addons,
	}
}

// --- Helpers ---

func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func setSessionID(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
}

// withSession runs fn on the caller's session and echoes the session id back.
func (h *StorefrontHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(*checkout.Session) error) error {
	id, err := h.sessions.With(sessionID(r), requestLanguage(r), fn)
	setSessionID(w, id)
	return err
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case whatsapp.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: storefront session: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// respondCart applies op to the session and replies with the resulting cart.
func (h *StorefrontHandler) respondCart(w http.ResponseWriter, r *http.Request, op func(*checkout.Session) error) {
	var resp cartResponse
	err := h.withSession(w, r, func(s *checkout.Session) error {
		if err := op(s); err != nil {
			return err
		}
		resp = toCartResponse(s)
		return nil
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Handlers ---

// GetCart handles GET /cart.
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, func(*checkout.Session) error { return nil })
}

// AddItem handles POST /cart/items. Add-ons are only accepted for products
// that take them.
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}

	menu, err := h.source.Menu(r.Context())
	if err != nil {
		log.Printf("ERROR: load menu: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	product, err := menu.Product(req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	if len(req.AddonIDs) > 0 && !product.HasAddons {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product does not take add-ons"})
		return
	}
	addons, err := menu.Addons(req.AddonIDs...)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.respondCart(w, r, func(s *checkout.Session) error {
		s.AddItem(product, addons...)
		return nil
	})
}

// RemoveItem handles DELETE /cart/items/{productID}, dropping every line of
// the product.
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	h.respondCart(w, r, func(s *checkout.Session) error {
		s.RemoveItem(productID)
		return nil
	})
}

// ClearCart handles DELETE /cart.
func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, func(s *checkout.Session) error {
		s.ClearCart()
		return nil
	})
}

// OpenCart handles POST /cart/open.
func (h *StorefrontHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, (*checkout.Session).OpenCart)
}

// SetLanguage handles PUT /session/language.
func (h *StorefrontHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	lang, err := i18n.Parse(req.Language)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported language"})
		return
	}

	h.respondCart(w, r, func(s *checkout.Session) error {
		s.Language = lang
		return nil
	})
}

// BeginCheckout handles POST /checkout.
func (h *StorefrontHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, (*checkout.Session).BeginCheckout)
}

// CancelCheckout handles POST /checkout/cancel.
func (h *StorefrontHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, (*checkout.Session).CancelCheckout)
}

// Submit handles POST /checkout/submit. The WhatsApp hand-off succeeds even
// when the order cannot be recorded; the failure is reported as a warning.
func (h *StorefrontHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	payment := enum.PaymentMethodCash
	if req.Payment != "" {
		payment = enum.PaymentMethod(req.Payment)
	}
	if !payment.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment method"})
		return
	}
	form := whatsapp.CheckoutForm{
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Payment:    payment,
		PickupTime: strings.TrimSpace(req.PickupTime),
		Notes:      strings.TrimSpace(req.Notes),
	}

	var (
		receipt *checkout.Receipt
		id      string
	)
	err := h.withSession(w, r, func(s *checkout.Session) error {
		var err error
		receipt, err = s.Submit(form, h.linker)
		id = s.ID
		return err
	})
	if err != nil {
		writeSessionError(w, err)
		return
	}

	resp := submitResponse{
		SessionID:   id,
		Message:     receipt.Message,
		WhatsAppURL: receipt.URL,
		Total:       receipt.Total.StringFixed(2),
		ItemCount:   receipt.ItemCount,
	}
	if order := h.record(r.Context(), receipt); order != nil {
		resp.OrderNumber = order.OrderNumber
	} else if h.orders != nil {
		resp.Warning = "order could not be recorded; the WhatsApp message is still valid"
	}

	writeJSON(w, http.StatusOK, resp)
}

// record stores the handed-off order and announces it to the back-office.
// It returns nil when there is no recorder or recording failed.
func (h *StorefrontHandler) record(ctx context.Context, receipt *checkout.Receipt) *database.Order {
	if h.orders == nil {
		return nil
	}
	order, err := h.orders.CreateOrder(ctx, service.CreateOrderRequest{
		CustomerName:  receipt.Form.Name,
		CustomerPhone: receipt.Form.Phone,
		Payment:       receipt.Form.Payment,
		PickupTime:    receipt.Form.PickupTime,
		Notes:         receipt.Form.Notes,
		Language:      receipt.Language,
		Lines:         receipt.Lines,
	})
	if err != nil {
		log.Printf("ERROR: record order: %v", err)
		return nil
	}

	if h.events != nil {
		if err := h.events.Publish(ws.TopicOrders, ws.EventOrderCreated, dbOrderToResponse(*order)); err != nil {
			log.Printf("WARN: publish %s for order %s: %v", ws.EventOrderCreated, order.OrderNumber, err)
		}
	}
	return order
}
