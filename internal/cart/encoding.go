package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/shopspring/decimal"
)

// LinesVersion is the version written by EncodeLines.
const LinesVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported cart encoding version")

type encodedLines struct {
	Version int           `json:"version"`
	Lines   []encodedLine `json:"lines"`
}

type encodedLine struct {
	Product  encodedProduct  `json:"product"`
	Addons   []encodedAddon  `json:"addons"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type encodedProduct struct {
	ID       string            `json:"id"`
	Category string            `json:"category"`
	Name     catalog.Localized `json:"name"`
	Price    decimal.Decimal   `json:"price"`
	Items    []string          `json:"items,omitempty"`
}

type encodedAddon struct {
	ID    string            `json:"id"`
	Name  catalog.Localized `json:"name"`
	Price decimal.Decimal   `json:"price"`
}

// legacyLine is the un-versioned shape stored by the first storefront:
// a bare array of {product, quantity, addons, totalPrice}.
type legacyLine struct {
	Product struct {
		ID            string              `json:"id"`
		Name          map[string]string   `json:"name"`
		Description   map[string]string   `json:"description"`
		Price         decimal.Decimal     `json:"price"`
		OriginalPrice decimal.NullDecimal `json:"originalPrice"`
		Image         string              `json:"image"`
		Category      string              `json:"category"`
		HasAddons     bool                `json:"hasAddons"`
		Items         []string            `json:"items"`
	} `json:"product"`
	Quantity int `json:"quantity"`
	Addons   []struct {
		ID    string            `json:"id"`
		Name  map[string]string `json:"name"`
		Price decimal.Decimal   `json:"price"`
	} `json:"addons"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// EncodeLines serializes a line snapshot for storage.
func EncodeLines(lines []Line) ([]byte, error) {
	out := encodedLines{Version: LinesVersion, Lines: make([]encodedLine, len(lines))}
	for i, l := range lines {
		el := encodedLine{
			Product: encodedProduct{
				ID:       l.Product.ID,
				Category: l.Product.Category,
				Name:     l.Product.Name,
				Price:    l.Product.Price,
				Items:    l.Product.Items,
			},
			Addons:   make([]encodedAddon, len(l.Addons)),
			Quantity: l.Quantity,
			Total:    l.Total,
		}
		for j, a := range l.Addons {
			el.Addons[j] = encodedAddon{ID: a.ID, Name: a.Name, Price: a.Price}
		}
		out.Lines[i] = el
	}
	return json.Marshal(out)
}

// DecodeLines reads data written by EncodeLines or the legacy array format.
func DecodeLines(data []byte) ([]Line, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeLegacy(trimmed)
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	if probe.Version != LinesVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, probe.Version)
	}

	var in encodedLines
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	lines := make([]Line, len(in.Lines))
	for i, el := range in.Lines {
		l := Line{
			Product: catalog.Product{
				ID:       el.Product.ID,
				Category: el.Product.Category,
				Name:     el.Product.Name,
				Price:    el.Product.Price,
				Items:    el.Product.Items,
			},
			Quantity: el.Quantity,
			Total:    el.Total,
		}
		for _, a := range el.Addons {
			l.Addons = append(l.Addons, catalog.Addon{ID: a.ID, Name: a.Name, Price: a.Price})
		}
		lines[i] = l
	}
	return lines, nil
}

func decodeLegacy(data []byte) ([]Line, error) {
	var in []legacyLine
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode legacy cart lines: %w", err)
	}
	lines := make([]Line, len(in))
	for i, ll := range in {
		l := Line{
			Product: catalog.Product{
				ID:            ll.Product.ID,
				Category:      ll.Product.Category,
				Name:          localized(ll.Product.Name),
				Description:   localized(ll.Product.Description),
				Price:         ll.Product.Price,
				OriginalPrice: ll.Product.OriginalPrice,
				ImageURL:      ll.Product.Image,
				HasAddons:     ll.Product.HasAddons,
				Items:         ll.Product.Items,
			},
			Quantity: ll.Quantity,
			Total:    ll.TotalPrice,
		}
		for _, a := range ll.Addons {
			l.Addons = append(l.Addons, catalog.Addon{ID: a.ID, Name: localized(a.Name), Price: a.Price})
		}
		lines[i] = l
	}
	return lines, nil
}

func localized(m map[string]string) catalog.Localized {
	if len(m) == 0 {
		return nil
	}
	out := make(catalog.Localized, len(m))
	for k, v := range m {
		out[i18n.Language(k)] = v
	}
	return out
}
