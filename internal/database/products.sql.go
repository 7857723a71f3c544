package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, category_id, name_pt, name_en, name_es, description_pt, description_en, description_es,
       price, original_price, image_url, has_addons, items, display_order, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.NamePt,
		&i.NameEn,
		&i.NameEs,
		&i.DescriptionPt,
		&i.DescriptionEn,
		&i.DescriptionEs,
		&i.Price,
		&i.OriginalPrice,
		&i.ImageUrl,
		&i.HasAddons,
		&i.Items,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (category_id, name_pt, name_en, name_es, description_pt, description_en, description_es,
                      price, original_price, image_url, has_addons, items, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + productColumns

type CreateProductParams struct {
	CategoryID    uuid.UUID      `json:"category_id"`
	NamePt        string         `json:"name_pt"`
	NameEn        string         `json:"name_en"`
	NameEs        string         `json:"name_es"`
	DescriptionPt pgtype.Text    `json:"description_pt"`
	DescriptionEn pgtype.Text    `json:"description_en"`
	DescriptionEs pgtype.Text    `json:"description_es"`
	Price         pgtype.Numeric `json:"price"`
	OriginalPrice pgtype.Numeric `json:"original_price"`
	ImageUrl      pgtype.Text    `json:"image_url"`
	HasAddons     bool           `json:"has_addons"`
	Items         []string       `json:"items"`
	DisplayOrder  int32          `json:"display_order"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.CategoryID,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.DescriptionPt,
		arg.DescriptionEn,
		arg.DescriptionEs,
		arg.Price,
		arg.OriginalPrice,
		arg.ImageUrl,
		arg.HasAddons,
		nonNilItems(arg.Items),
		arg.DisplayOrder,
	)
	return scanProduct(row)
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + ` FROM products
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const listProducts = `-- name: ListProducts :many
SELECT p.id, p.category_id, p.name_pt, p.name_en, p.name_es, p.description_pt, p.description_en, p.description_es,
       p.price, p.original_price, p.image_url, p.has_addons, p.items, p.display_order, p.is_active, p.created_at, p.updated_at
FROM products p
JOIN categories c ON c.id = p.category_id
WHERE p.is_active = true AND c.is_active = true
ORDER BY c.display_order, p.display_order, p.name_pt
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProductsByCategory = `-- name: ListProductsByCategory :many
SELECT ` + productColumns + ` FROM products
WHERE category_id = $1 AND is_active = true
ORDER BY display_order, name_pt
`

func (q *Queries) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsByCategory, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const softDeleteProduct = `-- name: SoftDeleteProduct :one
UPDATE products SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteProduct, id)
	err := row.Scan(&id)
	return id, err
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET category_id = $1, name_pt = $2, name_en = $3, name_es = $4,
    description_pt = $5, description_en = $6, description_es = $7,
    price = $8, original_price = $9, image_url = $10, has_addons = $11, items = $12,
    display_order = $13, updated_at = now()
WHERE id = $14 AND is_active = true
RETURNING ` + productColumns

type UpdateProductParams struct {
	CategoryID    uuid.UUID      `json:"category_id"`
	NamePt        string         `json:"name_pt"`
	NameEn        string         `json:"name_en"`
	NameEs        string         `json:"name_es"`
	DescriptionPt pgtype.Text    `json:"description_pt"`
	DescriptionEn pgtype.Text    `json:"description_en"`
	DescriptionEs pgtype.Text    `json:"description_es"`
	Price         pgtype.Numeric `json:"price"`
	OriginalPrice pgtype.Numeric `json:"original_price"`
	ImageUrl      pgtype.Text    `json:"image_url"`
	HasAddons     bool           `json:"has_addons"`
	Items         []string       `json:"items"`
	DisplayOrder  int32          `json:"display_order"`
	ID            uuid.UUID      `json:"id"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.CategoryID,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.DescriptionPt,
		arg.DescriptionEn,
		arg.DescriptionEs,
		arg.Price,
		arg.OriginalPrice,
		arg.ImageUrl,
		arg.HasAddons,
		nonNilItems(arg.Items),
		arg.DisplayOrder,
		arg.ID,
	)
	return scanProduct(row)
}

// items is NOT NULL; a nil slice would be sent as SQL NULL.
func nonNilItems(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
