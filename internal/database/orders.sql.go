package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, customer_name, customer_phone, payment_method, pickup_time, language,
       items, items_version, total, status, notes, created_at, updated_at`

func scanOrder(row rowScanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OrderNumber,
		&i.CustomerName,
		&i.CustomerPhone,
		&i.PaymentMethod,
		&i.PickupTime,
		&i.Language,
		&i.Items,
		&i.ItemsVersion,
		&i.Total,
		&i.Status,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (order_number, customer_name, customer_phone, payment_method, pickup_time, language,
                    items, items_version, total, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	OrderNumber   string         `json:"order_number"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	PaymentMethod string         `json:"payment_method"`
	PickupTime    pgtype.Text    `json:"pickup_time"`
	Language      string         `json:"language"`
	Items         []byte         `json:"items"`
	ItemsVersion  int32          `json:"items_version"`
	Total         pgtype.Numeric `json:"total"`
	Notes         pgtype.Text    `json:"notes"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderNumber,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.PaymentMethod,
		arg.PickupTime,
		arg.Language,
		arg.Items,
		arg.ItemsVersion,
		arg.Total,
		arg.Notes,
	)
	return scanOrder(row)
}

const getNextOrderNumber = `-- name: GetNextOrderNumber :one
SELECT (COALESCE(MAX(SUBSTRING(order_number FROM 5)::INTEGER), 0) + 1)::INTEGER AS next_number
FROM orders
`

func (q *Queries) GetNextOrderNumber(ctx context.Context) (int32, error) {
	row := q.db.QueryRow(ctx, getNextOrderNumber)
	var next_number int32
	err := row.Scan(&next_number)
	return next_number, err
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListOrdersParams struct {
	Status pgtype.Text `json:"status"`
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
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

const updateOrderNotes = `-- name: UpdateOrderNotes :one
UPDATE orders SET notes = $1, updated_at = now()
WHERE id = $2
RETURNING ` + orderColumns

type UpdateOrderNotesParams struct {
	Notes pgtype.Text `json:"notes"`
	ID    uuid.UUID   `json:"id"`
}

func (q *Queries) UpdateOrderNotes(ctx context.Context, arg UpdateOrderNotesParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderNotes, arg.Notes, arg.ID))
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $1, updated_at = now()
WHERE id = $2 AND status = $3
RETURNING ` + orderColumns

// Status_2 is the status the caller read; the update is a no-op (ErrNoRows)
// when the row changed in between.
type UpdateOrderStatusParams struct {
	Status   string    `json:"status"`
	ID       uuid.UUID `json:"id"`
	Status_2 string    `json:"status_2"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.Status, arg.ID, arg.Status_2))
}
