package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const getDashboardStats = `-- name: GetDashboardStats :one
SELECT
    (SELECT COUNT(*) FROM orders WHERE status = 'pending')::BIGINT AS pending_orders,
    (SELECT COUNT(*) FROM orders WHERE created_at >= $1)::BIGINT AS today_orders,
    (SELECT COALESCE(SUM(total), 0) FROM orders WHERE created_at >= $1 AND status <> 'cancelled')::NUMERIC(12,2) AS today_revenue,
    (SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'cancelled')::NUMERIC(12,2) AS total_revenue,
    (SELECT COUNT(*) FROM products WHERE is_active = true)::BIGINT AS active_products
`

type GetDashboardStatsRow struct {
	PendingOrders  int64          `json:"pending_orders"`
	TodayOrders    int64          `json:"today_orders"`
	TodayRevenue   pgtype.Numeric `json:"today_revenue"`
	TotalRevenue   pgtype.Numeric `json:"total_revenue"`
	ActiveProducts int64          `json:"active_products"`
}

func (q *Queries) GetDashboardStats(ctx context.Context, since time.Time) (GetDashboardStatsRow, error) {
	row := q.db.QueryRow(ctx, getDashboardStats, since)
	var i GetDashboardStatsRow
	err := row.Scan(
		&i.PendingOrders,
		&i.TodayOrders,
		&i.TodayRevenue,
		&i.TotalRevenue,
		&i.ActiveProducts,
	)
	return i, err
}
