package database

import (
	"context"

	"github.com/google/uuid"
)

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (slug, name_pt, name_en, name_es, display_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, slug, name_pt, name_en, name_es, display_order, is_active, created_at, updated_at
`

type CreateCategoryParams struct {
	Slug         string `json:"slug"`
	NamePt       string `json:"name_pt"`
	NameEn       string `json:"name_en"`
	NameEs       string `json:"name_es"`
	DisplayOrder int32  `json:"display_order"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory,
		arg.Slug,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.DisplayOrder,
	)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.NamePt,
		&i.NameEn,
		&i.NameEs,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, slug, name_pt, name_en, name_es, display_order, is_active, created_at, updated_at FROM categories
WHERE is_active = true
ORDER BY display_order, name_pt
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var i Category
		if err := rows.Scan(
			&i.ID,
			&i.Slug,
			&i.NamePt,
			&i.NameEn,
			&i.NameEs,
			&i.DisplayOrder,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const softDeleteCategory = `-- name: SoftDeleteCategory :one
UPDATE categories SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteCategory, id)
	err := row.Scan(&id)
	return id, err
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories
SET slug = $1, name_pt = $2, name_en = $3, name_es = $4, display_order = $5, updated_at = now()
WHERE id = $6 AND is_active = true
RETURNING id, slug, name_pt, name_en, name_es, display_order, is_active, created_at, updated_at
`

type UpdateCategoryParams struct {
	Slug         string    `json:"slug"`
	NamePt       string    `json:"name_pt"`
	NameEn       string    `json:"name_en"`
	NameEs       string    `json:"name_es"`
	DisplayOrder int32     `json:"display_order"`
	ID           uuid.UUID `json:"id"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory,
		arg.Slug,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.DisplayOrder,
		arg.ID,
	)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Slug,
		&i.NamePt,
		&i.NameEn,
		&i.NameEs,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
