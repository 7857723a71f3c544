package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createAddon = `-- name: CreateAddon :one
INSERT INTO addons (name_pt, name_en, name_es, price, display_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name_pt, name_en, name_es, price, display_order, is_active, created_at, updated_at
`

type CreateAddonParams struct {
	NamePt       string         `json:"name_pt"`
	NameEn       string         `json:"name_en"`
	NameEs       string         `json:"name_es"`
	Price        pgtype.Numeric `json:"price"`
	DisplayOrder int32          `json:"display_order"`
}

func (q *Queries) CreateAddon(ctx context.Context, arg CreateAddonParams) (Addon, error) {
	row := q.db.QueryRow(ctx, createAddon,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.Price,
		arg.DisplayOrder,
	)
	var i Addon
	err := row.Scan(
		&i.ID,
		&i.NamePt,
		&i.NameEn,
		&i.NameEs,
		&i.Price,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAddons = `-- name: ListAddons :many
SELECT id, name_pt, name_en, name_es, price, display_order, is_active, created_at, updated_at FROM addons
WHERE is_active = true
ORDER BY display_order, name_pt
`

func (q *Queries) ListAddons(ctx context.Context) ([]Addon, error) {
	rows, err := q.db.Query(ctx, listAddons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Addon{}
	for rows.Next() {
		var i Addon
		if err := rows.Scan(
			&i.ID,
			&i.NamePt,
			&i.NameEn,
			&i.NameEs,
			&i.Price,
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

const softDeleteAddon = `-- name: SoftDeleteAddon :one
UPDATE addons SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteAddon(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteAddon, id)
	err := row.Scan(&id)
	return id, err
}

const updateAddon = `-- name: UpdateAddon :one
UPDATE addons
SET name_pt = $1, name_en = $2, name_es = $3, price = $4, display_order = $5, updated_at = now()
WHERE id = $6 AND is_active = true
RETURNING id, name_pt, name_en, name_es, price, display_order, is_active, created_at, updated_at
`

type UpdateAddonParams struct {
	NamePt       string         `json:"name_pt"`
	NameEn       string         `json:"name_en"`
	NameEs       string         `json:"name_es"`
	Price        pgtype.Numeric `json:"price"`
	DisplayOrder int32          `json:"display_order"`
	ID           uuid.UUID      `json:"id"`
}

func (q *Queries) UpdateAddon(ctx context.Context, arg UpdateAddonParams) (Addon, error) {
	row := q.db.QueryRow(ctx, updateAddon,
		arg.NamePt,
		arg.NameEn,
		arg.NameEs,
		arg.Price,
		arg.DisplayOrder,
		arg.ID,
	)
	var i Addon
	err := row.Scan(
		&i.ID,
		&i.NamePt,
		&i.NameEn,
		&i.NameEs,
		&i.Price,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
