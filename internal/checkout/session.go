// Package checkout drives one visitor's way from browsing the menu to the
// WhatsApp hand-off. A Session owns exactly one cart and the language the
// visitor picked; sessions are kept in a bounded in-memory Store.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/brotinhos/api/internal/cart"
	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/brotinhos/api/internal/whatsapp"
	"github.com/shopspring/decimal"
)

// State of the checkout flow.
type State string

const (
	StateBrowsing        State = "browsing"
	StateReviewing       State = "reviewing"
	StateEnteringDetails State = "entering_details"
	StateSubmitted       State = "submitted"
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

func transitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Receipt is the snapshot taken when an order is handed off.
type Receipt struct {
	Form        whatsapp.CheckoutForm
	Language    i18n.Language
	Lines       []cart.Line
	Total       decimal.Decimal
	ItemCount   int
	Message     string
	URL         string
	SubmittedAt time.Time
}

// Session is one visitor's explicit context: cart, language and flow state.
// Not safe for concurrent use; Store.With serializes access.
type Session struct {
	ID       string
	Language i18n.Language

	state State
	cart  *cart.Cart
}

// NewSession starts browsing with an empty cart.
func NewSession(id string, lang i18n.Language) *Session {
	if lang == "" {
		lang = i18n.Default
	}
	return &Session{
		ID:       id,
		Language: lang,
		state:    StateBrowsing,
		cart:     cart.New(),
	}
}

func (s *Session) State() State { return s.state }

// Cart exposes the session cart for reading. Mutate through the session.
func (s *Session) Cart() *cart.Cart { return s.cart }

// restartIfSubmitted begins a new order after a hand-off.
func (s *Session) restartIfSubmitted() {
	if s.state == StateSubmitted {
		s.state = StateBrowsing
		s.cart = cart.New()
	}
}

// AddItem adds one unit of product with addons.
func (s *Session) AddItem(product catalog.Product, addons ...catalog.Addon) {
	s.restartIfSubmitted()
	s.cart.AddItem(product, addons...)
}

// RemoveItem drops every line of productID.
func (s *Session) RemoveItem(productID string) {
	s.restartIfSubmitted()
	s.cart.RemoveItem(productID)
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.restartIfSubmitted()
	s.cart.Clear()
}

// OpenCart shows the cart for review.
func (s *Session) OpenCart() error {
	switch s.state {
	case StateBrowsing, StateReviewing:
	case StateSubmitted:
		s.restartIfSubmitted()
	default:
		return transitionError(s.state, StateReviewing)
	}
	s.state = StateReviewing
	return nil
}

// BeginCheckout shows the checkout form. An empty cart cannot be checked out.
func (s *Session) BeginCheckout() error {
	if s.state != StateReviewing {
		return transitionError(s.state, StateEnteringDetails)
	}
	if s.cart.IsEmpty() {
		return whatsapp.ErrEmptyCart
	}
	s.state = StateEnteringDetails
	return nil
}

// CancelCheckout returns from the form to the cart.
func (s *Session) CancelCheckout() error {
	if s.state != StateEnteringDetails {
		return transitionError(s.state, StateReviewing)
	}
	s.state = StateReviewing
	return nil
}

// Submit renders the order, hands it off and clears the cart. On any error
// the session is left exactly as it was.
func (s *Session) Submit(form whatsapp.CheckoutForm, linker whatsapp.Linker) (*Receipt, error) {
	if s.state != StateEnteringDetails {
		return nil, transitionError(s.state, StateSubmitted)
	}
	h, err := linker.NewHandoff(s.cart, form, s.Language)
	if err != nil {
		return nil, err
	}

	r := &Receipt{
		Form:        form,
		Language:    s.Language,
		Lines:       s.cart.Lines(),
		Total:       s.cart.TotalPrice(),
		ItemCount:   s.cart.ItemCount(),
		Message:     h.Message,
		URL:         h.URL,
		SubmittedAt: time.Now(),
	}
	s.cart.Clear()
	s.state = StateSubmitted
	return r, nil
}
