package catalog

import (
	"context"
	"fmt"

	"github.com/brotinhos/api/internal/database"
)

// Source yields the menu the storefront currently sells.
type Source interface {
	Menu(ctx context.Context) (*Catalog, error)
}

type staticSource struct {
	c *Catalog
}

// Static serves a fixed catalog.
func Static(c *Catalog) Source {
	return staticSource{c: c}
}

func (s staticSource) Menu(context.Context) (*Catalog, error) {
	return s.c, nil
}

// MenuStore defines the database methods needed to build a catalog.
// Satisfied by *database.Queries.
type MenuStore interface {
	ListCategories(ctx context.Context) ([]database.Category, error)
	ListProducts(ctx context.Context) ([]database.Product, error)
	ListAddons(ctx context.Context) ([]database.Addon, error)
}

// StoreSource builds the catalog from the active database rows on every call,
// so back-office edits are visible to the next request.
type StoreSource struct {
	store MenuStore
}

func NewStoreSource(store MenuStore) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) Menu(ctx context.Context) (*Catalog, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	prods, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	adds, err := s.store.ListAddons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list add-ons: %w", err)
	}

	categories := make([]Category, len(cats))
	for i, c := range cats {
		categories[i] = Category{
			ID:           c.ID.String(),
			Slug:         c.Slug,
			Name:         loc(c.NamePt, c.NameEn, c.NameEs),
			DisplayOrder: c.DisplayOrder,
		}
	}

	products := make([]Product, len(prods))
	for i, p := range prods {
		products[i] = Product{
			ID:            p.ID.String(),
			CategoryID:    p.CategoryID.String(),
			Name:          loc(p.NamePt, p.NameEn, p.NameEs),
			Description:   loc(p.DescriptionPt.String, p.DescriptionEn.String, p.DescriptionEs.String),
			Price:         database.NumericToDecimal(p.Price),
			OriginalPrice: database.NumericToNullDecimal(p.OriginalPrice),
			ImageURL:      p.ImageUrl.String,
			HasAddons:     p.HasAddons,
			Items:         p.Items,
		}
	}

	addons := make([]Addon, len(adds))
	for i, a := range adds {
		addons[i] = Addon{
			ID:    a.ID.String(),
			Name:  loc(a.NamePt, a.NameEn, a.NameEs),
			Price: database.NumericToDecimal(a.Price),
		}
	}

	return New(categories, products, addons)
}
