package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/brotinhos/api/internal/database"
	"github.com/go-chi/chi/v5"
)

// DashboardStore defines the database methods needed by the dashboard.
// Satisfied by *database.Queries; narrow interface for testability.
type DashboardStore interface {
	GetDashboardStats(ctx context.Context, since time.Time) (database.GetDashboardStatsRow, error)
}

// DashboardHandler serves the back-office summary cards.
type DashboardHandler struct {
	store DashboardStore
	loc   *time.Location
	now   func() time.Time
}

// NewDashboardHandler creates a DashboardHandler. "Today" starts at local
// midnight in loc; a nil loc means time.Local.
func NewDashboardHandler(store DashboardStore, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardHandler{store: store, loc: loc, now: time.Now}
}

// RegisterRoutes expects to be mounted at /admin/dashboard.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Stats)
}

type dashboardResponse struct {
	PendingOrders  int64     `json:"pending_orders"`
	TodayOrders    int64     `json:"today_orders"`
	TodayRevenue   string    `json:"today_revenue"`
	TotalRevenue   string    `json:"total_revenue"`
	ActiveProducts int64     `json:"active_products"`
	Since          time.Time `json:"since"`
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Stats handles GET /admin/dashboard. Revenue excludes cancelled orders.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	since := startOfDay(h.now(), h.loc)

	row, err := h.store.GetDashboardStats(r.Context(), since)
	if err != nil {
		log.Printf("ERROR: dashboard stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		PendingOrders:  row.PendingOrders,
		TodayOrders:    row.TodayOrders,
		TodayRevenue:   database.NumericToDecimal(row.TodayRevenue).StringFixed(2),
		TotalRevenue:   database.NumericToDecimal(row.TotalRevenue).StringFixed(2),
		ActiveProducts: row.ActiveProducts,
		Since:          since,
	})
}
