package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Addon struct {
	ID           uuid.UUID      `json:"id"`
	NamePt       string         `json:"name_pt"`
	NameEn       string         `json:"name_en"`
	NameEs       string         `json:"name_es"`
	Price        pgtype.Numeric `json:"price"`
	DisplayOrder int32          `json:"display_order"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type Category struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	NamePt       string    `json:"name_pt"`
	NameEn       string    `json:"name_en"`
	NameEs       string    `json:"name_es"`
	DisplayOrder int32     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Order struct {
	ID            uuid.UUID      `json:"id"`
	OrderNumber   string         `json:"order_number"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	PaymentMethod string         `json:"payment_method"`
	PickupTime    pgtype.Text    `json:"pickup_time"`
	Language      string         `json:"language"`
	Items         []byte         `json:"items"`
	ItemsVersion  int32          `json:"items_version"`
	Total         pgtype.Numeric `json:"total"`
	Status        string         `json:"status"`
	Notes         pgtype.Text    `json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Product struct {
	ID            uuid.UUID      `json:"id"`
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
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Profile struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"hashed_password"`
	FullName       pgtype.Text `json:"full_name"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type UserRole struct {
	UserID              uuid.UUID `json:"user_id"`
	Role                string    `json:"role"`
	CanManageProducts   bool      `json:"can_manage_products"`
	CanManageCategories bool      `json:"can_manage_categories"`
	CanManageUsers      bool      `json:"can_manage_users"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
