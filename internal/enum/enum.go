package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleSuperAdmin = "super_admin"
	UserRoleAdmin      = "admin"
	UserRoleEditor     = "editor"
)

// Back-office permissions carried in access tokens.
const (
	PermissionProducts   = "products"
	PermissionCategories = "categories"
	PermissionUsers      = "users"
)

// ── Group B: Configurable labels (no DB constraint) ──

// PaymentMethod is how the customer pays at pickup.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodPix  PaymentMethod = "pix"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodPix:
		return true
	}
	return false
}

const (
	CategoryPizza = "pizza"
	CategoryDrink = "drink"
	CategoryCombo = "combo"
	CategoryPromo = "promo"
)
