// Package catalog is the read-only menu the storefront sells from:
// categories, products and the add-ons a pizza can be customized with.
package catalog

import (
	"errors"
	"fmt"

	"github.com/brotinhos/api/internal/i18n"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrAddonNotFound    = errors.New("add-on not found")
	ErrDuplicateID      = errors.New("duplicate catalog id")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrOriginalPriceLow = errors.New("original price must exceed price")
)

// Localized holds one text per language.
type Localized map[i18n.Language]string

// Get returns the text for lang. It falls back to Portuguese, then to any
// non-empty translation in the order of i18n.Supported.
func (l Localized) Get(lang i18n.Language) string {
	if s := l[lang]; s != "" {
		return s
	}
	if s := l[i18n.Default]; s != "" {
		return s
	}
	for _, other := range i18n.Supported {
		if s := l[other]; s != "" {
			return s
		}
	}
	return ""
}

// Category groups products on the menu.
type Category struct {
	ID           string
	Slug         string
	Name         Localized
	DisplayOrder int32
}

// Product is a sellable menu item. Combos and promos list their bundle
// contents in Items.
type Product struct {
	ID            string
	CategoryID    string
	Category      string // slug of the owning category
	Name          Localized
	Description   Localized
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	ImageURL      string
	HasAddons     bool
	Items         []string
}

// Addon is an optional extra priced per unit of the product it is added to.
type Addon struct {
	ID    string
	Name  Localized
	Price decimal.Decimal
}

// Catalog is an immutable menu snapshot. Safe for concurrent use.
type Catalog struct {
	categories []Category
	products   []Product
	addons     []Addon

	categoryIdx map[string]int
	productIdx  map[string]int
	addonIdx    map[string]int
}

// New validates and indexes a menu. Slices are kept in the given order,
// which is the display order.
func New(categories []Category, products []Product, addons []Addon) (*Catalog, error) {
	c := &Catalog{
		categories:  append([]Category(nil), categories...),
		products:    make([]Product, 0, len(products)),
		addons:      append([]Addon(nil), addons...),
		categoryIdx: make(map[string]int, len(categories)),
		productIdx:  make(map[string]int, len(products)),
		addonIdx:    make(map[string]int, len(addons)),
	}

	for i, cat := range c.categories {
		if _, dup := c.categoryIdx[cat.ID]; dup {
			return nil, fmt.Errorf("category %q: %w", cat.ID, ErrDuplicateID)
		}
		c.categoryIdx[cat.ID] = i
	}

	for _, p := range products {
		if _, dup := c.productIdx[p.ID]; dup {
			return nil, fmt.Errorf("product %q: %w", p.ID, ErrDuplicateID)
		}
		ci, ok := c.categoryIdx[p.CategoryID]
		if !ok {
			return nil, fmt.Errorf("product %q: %w %q", p.ID, ErrUnknownCategory, p.CategoryID)
		}
		if err := ValidatePrices(p.Price, p.OriginalPrice); err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		p.Category = c.categories[ci].Slug
		p.Items = append([]string(nil), p.Items...)
		c.productIdx[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	for i, a := range c.addons {
		if _, dup := c.addonIdx[a.ID]; dup {
			return nil, fmt.Errorf("add-on %q: %w", a.ID, ErrDuplicateID)
		}
		if a.Price.IsNegative() {
			return nil, fmt.Errorf("add-on %q: %w", a.ID, ErrInvalidPrice)
		}
		c.addonIdx[a.ID] = i
	}

	return c, nil
}

// ValidatePrices checks a product price pair. An original price, when set,
// is the struck-through "was" price and must be higher than the current one.
func ValidatePrices(price decimal.Decimal, original decimal.NullDecimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if original.Valid && !original.Decimal.GreaterThan(price) {
		return ErrOriginalPriceLow
	}
	return nil
}

// Product looks up a product by ID.
func (c *Catalog) Product(id string) (Product, error) {
	i, ok := c.productIdx[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

// Addon looks up an add-on by ID.
func (c *Catalog) Addon(id string) (Addon, error) {
	i, ok := c.addonIdx[id]
	if !ok {
		return Addon{}, ErrAddonNotFound
	}
	return c.addons[i], nil
}

// Addons resolves ids in order. Any unknown id fails the whole lookup.
func (c *Catalog) Addons(ids ...string) ([]Addon, error) {
	out := make([]Addon, 0, len(ids))
	for _, id := range ids {
		a, err := c.Addon(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, id)
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// ProductsIn returns the products of the category with the given ID.
func (c *Catalog) ProductsIn(categoryID string) []Product {
	var out []Product
	for _, p := range c.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) AllAddons() []Addon {
	return append([]Addon(nil), c.addons...)
}
