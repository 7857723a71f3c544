// Package cart aggregates a visitor's selections into priced order lines.
//
// A line is identified by its product and the exact set of add-ons chosen
// for it. Adding the same product with the same add-ons again bumps the
// line's quantity; a different add-on set starts a new line. The cart is a
// plain value owned by one session and is not safe for concurrent use.
package cart

import (
	"sort"
	"strings"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/shopspring/decimal"
)

// Line is one entry of the cart.
type Line struct {
	Product  catalog.Product
	Addons   []catalog.Addon
	Quantity int
	Total    decimal.Decimal
}

// UnitPrice is the product price plus every add-on price.
func (l Line) UnitPrice() decimal.Decimal {
	p := l.Product.Price
	for _, a := range l.Addons {
		p = p.Add(a.Price)
	}
	return p
}

func (l Line) key() string {
	return lineKey(l.Product.ID, l.Addons)
}

func (l Line) clone() Line {
	l.Addons = append([]catalog.Addon(nil), l.Addons...)
	return l
}

// addonSetKey is independent of selection order.
func addonSetKey(addons []catalog.Addon) string {
	ids := make([]string, len(addons))
	for i, a := range addons {
		ids[i] = a.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x1f")
}

func lineKey(productID string, addons []catalog.Addon) string {
	return productID + "\x1e" + addonSetKey(addons)
}

// dedupe drops repeated add-on IDs, keeping the first occurrence.
func dedupe(addons []catalog.Addon) []catalog.Addon {
	seen := make(map[string]bool, len(addons))
	out := make([]catalog.Addon, 0, len(addons))
	for _, a := range addons {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

// Cart is an ordered list of lines with at most one line per
// (product, add-on set).
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from previously stored lines. Lines sharing a
// product and add-on set are merged.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l = l.clone()
		l.Addons = dedupe(l.Addons)
		if i := c.index(l.key()); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			c.lines[i].Total = c.lines[i].UnitPrice().Mul(decimal.NewFromInt(int64(c.lines[i].Quantity)))
			continue
		}
		l.Total = l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) index(key string) int {
	for i, l := range c.lines {
		if l.key() == key {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of product with the given add-ons.
func (c *Cart) AddItem(product catalog.Product, addons ...catalog.Addon) {
	addons = dedupe(addons)
	if i := c.index(lineKey(product.ID, addons)); i >= 0 {
		l := &c.lines[i]
		l.Quantity++
		l.Total = l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
		return
	}
	l := Line{Product: product, Addons: addons, Quantity: 1}
	l.Total = l.UnitPrice()
	c.lines = append(c.lines, l)
}

// RemoveItem drops every line of the product, whatever its add-ons.
// Removing a product that is not in the cart is a no-op.
func (c *Cart) RemoveItem(productID string) {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(c.lines); i++ {
		c.lines[i] = Line{}
	}
	c.lines = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = l.clone()
	}
	return out
}

// TotalPrice is the sum of line totals.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total)
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }
