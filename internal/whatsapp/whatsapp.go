// Package whatsapp renders a cart into the plain-text order message sent to
// the shop and builds the wa.me link that opens it.
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/brotinhos/api/internal/cart"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://wa.me"
	DefaultPhone   = "5511999999999"

	currency = "R$"
)

// Validation errors. The message is rendered fully or not at all.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrEmptyCart     = errors.New("cart is empty")
)

// IsValidation reports whether err is one of the checkout validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrPhoneRequired) ||
		errors.Is(err, ErrEmptyCart)
}

// CheckoutForm is what the customer types at checkout.
type CheckoutForm struct {
	Name       string
	Phone      string
	Payment    enum.PaymentMethod
	PickupTime string
	Notes      string
}

// Validate checks the required fields and that the cart has lines.
// Whitespace-only values count as missing.
func (f CheckoutForm) Validate(c *cart.Cart) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(f.Phone) == "" {
		return ErrPhoneRequired
	}
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

func money(d decimal.Decimal) string {
	return currency + " " + d.StringFixed(2)
}

// FormatOrder renders the order message in lang.
func FormatOrder(c *cart.Cart, form CheckoutForm, lang i18n.Language) (string, error) {
	if err := form.Validate(c); err != nil {
		return "", err
	}
	l := i18n.For(lang)

	var b strings.Builder
	b.WriteString(l.OrderHeader + "\n\n")
	fmt.Fprintf(&b, "*%s:* %s\n", l.Customer, form.Name)
	fmt.Fprintf(&b, "*%s:* %s\n", l.Phone, form.Phone)
	fmt.Fprintf(&b, "*%s:* %s\n", l.Payment, l.PaymentLabel(form.Payment))
	if strings.TrimSpace(form.PickupTime) != "" {
		fmt.Fprintf(&b, "*%s:* %s\n", l.PickupTime, form.PickupTime)
	}
	fmt.Fprintf(&b, "\n*%s:*\n", l.OrderItems)

	for i, line := range c.Lines() {
		fmt.Fprintf(&b, "\n%d. %s (%dx)\n", i+1, line.Product.Name.Get(lang), line.Quantity)
		fmt.Fprintf(&b, "   %s\n", money(line.Product.Price))
		if len(line.Addons) > 0 {
			fmt.Fprintf(&b, "   *%s:*\n", l.Addons)
			for _, a := range line.Addons {
				fmt.Fprintf(&b, "   - %s (+%s)\n", a.Name.Get(lang), money(a.Price))
			}
		}
	}

	fmt.Fprintf(&b, "\n*%s: %s*\n", l.Total, money(c.TotalPrice()))
	if strings.TrimSpace(form.Notes) != "" {
		fmt.Fprintf(&b, "\n*%s:* %s", l.Notes, form.Notes)
	}
	return b.String(), nil
}

// componentEscaper maps url.QueryEscape output onto the encodeURIComponent
// alphabet the wa.me endpoint is used to.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Link builds the click-to-chat URL with text percent-encoded.
func Link(baseURL, phone, text string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	encoded := componentEscaper.Replace(url.QueryEscape(text))
	return strings.TrimRight(baseURL, "/") + "/" + phone + "?text=" + encoded
}

// Handoff is a rendered message together with the link that opens it.
type Handoff struct {
	Message string
	URL     string
}

// Linker holds the shop's WhatsApp destination.
type Linker struct {
	BaseURL string
	Phone   string
}

// NewHandoff formats the order and builds its link.
func (lk Linker) NewHandoff(c *cart.Cart, form CheckoutForm, lang i18n.Language) (Handoff, error) {
	msg, err := FormatOrder(c, form, lang)
	if err != nil {
		return Handoff{}, err
	}
	phone := lk.Phone
	if phone == "" {
		phone = DefaultPhone
	}
	return Handoff{Message: msg, URL: Link(lk.BaseURL, phone, msg)}, nil
}
