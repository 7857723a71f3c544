package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brotinhos/api/internal/cart"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrNameRequired    = errors.New("customer name is required")
	ErrPhoneRequired   = errors.New("customer phone is required")
	ErrEmptyItems      = errors.New("items are required")
	ErrInvalidPayment  = errors.New("invalid payment method")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrInvalidLanguage = errors.New("invalid language")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to record orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is a submitted storefront order.
type CreateOrderRequest struct {
	CustomerName  string
	CustomerPhone string
	Payment       enum.PaymentMethod
	PickupTime    string
	Notes         string
	Language      i18n.Language
	Lines         []cart.Line
}

// OrderService records storefront orders.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

func (req CreateOrderRequest) validate() error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return ErrPhoneRequired
	}
	if !req.Payment.Valid() {
		return ErrInvalidPayment
	}
	if len(req.Lines) == 0 {
		return ErrEmptyItems
	}
	for i, l := range req.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("line[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	if req.Language != "" {
		if _, err := i18n.Parse(string(req.Language)); err != nil {
			return ErrInvalidLanguage
		}
	}
	return nil
}

// CreateOrder validates and stores an order atomically. Line totals are
// recomputed from unit prices so the stored total always matches the lines.
// Retries up to maxOrderNumberRetries times when a concurrent insert took
// the same order number.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*database.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Language == "" {
		req.Language = i18n.Default
	}

	lines := cart.FromLines(req.Lines).Lines()
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	items, err := cart.EncodeLines(lines)
	if err != nil {
		return nil, fmt.Errorf("encode lines: %w", err)
	}

	params := database.CreateOrderParams{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		PaymentMethod: string(req.Payment),
		PickupTime:    optionalText(req.PickupTime),
		Language:      string(req.Language),
		Items:         items,
		ItemsVersion:  cart.LinesVersion,
		Total:         database.DecimalToNumeric(total),
		Notes:         optionalText(req.Notes),
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		order, err := s.createOrderTx(ctx, params)
		if err == nil {
			return order, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

func (s *OrderService) createOrderTx(ctx context.Context, params database.CreateOrderParams) (*database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	nextNum, err := store.GetNextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	params.OrderNumber = FormatOrderNumber(nextNum)

	order, err := store.CreateOrder(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &order, nil
}

// FormatOrderNumber renders the sequence as BRT-0001.
func FormatOrderNumber(n int32) string {
	return fmt.Sprintf("BRT-%04d", n)
}

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}
