// Package i18n holds the storefront's language selection and the
// localized strings used outside of catalog data.
package i18n

import (
	"errors"
	"strings"

	"github.com/brotinhos/api/internal/enum"
	"golang.org/x/text/language"
)

// Language is a supported display language code.
type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
	Spanish    Language = "es"

	Default = Portuguese
)

// ErrUnsupportedLanguage is returned by Parse for unknown codes.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Supported lists every language in display order.
var Supported = []Language{Portuguese, English, Spanish}

// matcher order must line up with Supported; the first entry is the fallback.
var matcher = language.NewMatcher([]language.Tag{
	language.Portuguese,
	language.English,
	language.Spanish,
})

// Parse accepts a language code such as "en" or "pt-BR".
func Parse(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	for _, l := range Supported {
		if string(l) == s {
			return l, nil
		}
	}
	return "", ErrUnsupportedLanguage
}

// FromAcceptLanguage picks the best supported language for an
// Accept-Language header value. Unparseable or empty headers yield Default.
func FromAcceptLanguage(header string) Language {
	if strings.TrimSpace(header) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Labels are the fixed strings of one language.
type Labels struct {
	OrderHeader  string
	Customer     string
	Phone        string
	Payment      string
	PickupTime   string
	OrderItems   string
	Addons       string
	Total        string
	Notes        string
	PaymentCash  string
	PaymentCard  string
	PaymentPix   string
	SectionTitle map[string]string
}

var labels = map[Language]Labels{
	Portuguese: {
		OrderHeader: "🍕 *NOVO PEDIDO - RETIRADA NO LOCAL* 🍕",
		Customer:    "Cliente",
		Phone:       "Telefone",
		Payment:     "Pagamento",
		PickupTime:  "Horário de retirada",
		OrderItems:  "ITENS DO PEDIDO",
		Addons:      "Adicionais",
		Total:       "TOTAL",
		Notes:       "Observações",
		PaymentCash: "Dinheiro",
		PaymentCard: "Cartão",
		PaymentPix:  "PIX",
		SectionTitle: map[string]string{
			enum.CategoryPizza: "Nossos Brotinhos",
			enum.CategoryDrink: "Bebidas",
			enum.CategoryCombo: "Combos",
			enum.CategoryPromo: "Promoções da Semana",
		},
	},
	English: {
		OrderHeader: "🍕 *NEW ORDER - PICKUP* 🍕",
		Customer:    "Customer",
		Phone:       "Phone",
		Payment:     "Payment",
		PickupTime:  "Pickup time",
		OrderItems:  "ORDER ITEMS",
		Addons:      "Add-ons",
		Total:       "TOTAL",
		Notes:       "Notes",
		PaymentCash: "Cash",
		PaymentCard: "Card",
		PaymentPix:  "PIX",
		SectionTitle: map[string]string{
			enum.CategoryPizza: "Our Mini Pizzas",
			enum.CategoryDrink: "Drinks",
			enum.CategoryCombo: "Combos",
			enum.CategoryPromo: "Weekly Deals",
		},
	},
	Spanish: {
		OrderHeader: "🍕 *NUEVO PEDIDO - RETIRO EN EL LOCAL* 🍕",
		Customer:    "Cliente",
		Phone:       "Teléfono",
		Payment:     "Pago",
		PickupTime:  "Hora de retiro",
		OrderItems:  "ARTÍCULOS DEL PEDIDO",
		Addons:      "Adicionales",
		Total:       "TOTAL",
		Notes:       "Observaciones",
		PaymentCash: "Efectivo",
		PaymentCard: "Tarjeta",
		PaymentPix:  "PIX",
		SectionTitle: map[string]string{
			enum.CategoryPizza: "Nuestras Mini Pizzas",
			enum.CategoryDrink: "Bebidas",
			enum.CategoryCombo: "Combos",
			enum.CategoryPromo: "Ofertas de la Semana",
		},
	},
}

// For returns the labels of lang, or of Default when lang is unknown.
func For(lang Language) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[Default]
}

// PaymentLabel returns the localized label of a payment method. Unknown
// methods are returned verbatim.
func (l Labels) PaymentLabel(m enum.PaymentMethod) string {
	switch m {
	case enum.PaymentMethodCash:
		return l.PaymentCash
	case enum.PaymentMethodCard:
		return l.PaymentCard
	case enum.PaymentMethodPix:
		return l.PaymentPix
	}
	return string(m)
}
