package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// UserAccount is a profile joined with its (optional) back-office role.
type UserAccount struct {
	ID                  uuid.UUID   `json:"id"`
	Email               string      `json:"email"`
	HashedPassword      string      `json:"hashed_password"`
	FullName            pgtype.Text `json:"full_name"`
	IsActive            bool        `json:"is_active"`
	Role                pgtype.Text `json:"role"`
	CanManageProducts   bool        `json:"can_manage_products"`
	CanManageCategories bool        `json:"can_manage_categories"`
	CanManageUsers      bool        `json:"can_manage_users"`
	CreatedAt           time.Time   `json:"created_at"`
}

const userAccountSelect = `SELECT p.id, p.email, p.hashed_password, p.full_name, p.is_active, r.role,
       COALESCE(r.can_manage_products, false), COALESCE(r.can_manage_categories, false),
       COALESCE(r.can_manage_users, false), p.created_at
FROM profiles p
LEFT JOIN user_roles r ON r.user_id = p.id
`

func scanUserAccount(row rowScanner) (UserAccount, error) {
	var i UserAccount
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.HashedPassword,
		&i.FullName,
		&i.IsActive,
		&i.Role,
		&i.CanManageProducts,
		&i.CanManageCategories,
		&i.CanManageUsers,
		&i.CreatedAt,
	)
	return i, err
}

const createProfile = `-- name: CreateProfile :one
INSERT INTO profiles (email, hashed_password, full_name)
VALUES ($1, $2, $3)
RETURNING id, email, hashed_password, full_name, is_active, created_at, updated_at
`

type CreateProfileParams struct {
	Email          string      `json:"email"`
	HashedPassword string      `json:"hashed_password"`
	FullName       pgtype.Text `json:"full_name"`
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRow(ctx, createProfile, arg.Email, arg.HashedPassword, arg.FullName)
	var i Profile
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.HashedPassword,
		&i.FullName,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteUserRole = `-- name: DeleteUserRole :one
DELETE FROM user_roles WHERE user_id = $1
RETURNING user_id
`

func (q *Queries) DeleteUserRole(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteUserRole, userID)
	var user_id uuid.UUID
	err := row.Scan(&user_id)
	return user_id, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
` + userAccountSelect + `WHERE p.email = $1 AND p.is_active = true
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (UserAccount, error) {
	return scanUserAccount(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `-- name: GetUserByID :one
` + userAccountSelect + `WHERE p.id = $1 AND p.is_active = true
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (UserAccount, error) {
	return scanUserAccount(q.db.QueryRow(ctx, getUserByID, id))
}

const listUsers = `-- name: ListUsers :many
` + userAccountSelect + `WHERE p.is_active = true
ORDER BY p.created_at
`

func (q *Queries) ListUsers(ctx context.Context) ([]UserAccount, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []UserAccount{}
	for rows.Next() {
		i, err := scanUserAccount(rows)
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

const upsertUserRole = `-- name: UpsertUserRole :one
INSERT INTO user_roles (user_id, role, can_manage_products, can_manage_categories, can_manage_users)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE
SET role = EXCLUDED.role,
    can_manage_products = EXCLUDED.can_manage_products,
    can_manage_categories = EXCLUDED.can_manage_categories,
    can_manage_users = EXCLUDED.can_manage_users,
    updated_at = now()
RETURNING user_id, role, can_manage_products, can_manage_categories, can_manage_users, created_at, updated_at
`

type UpsertUserRoleParams struct {
	UserID              uuid.UUID `json:"user_id"`
	Role                string    `json:"role"`
	CanManageProducts   bool      `json:"can_manage_products"`
	CanManageCategories bool      `json:"can_manage_categories"`
	CanManageUsers      bool      `json:"can_manage_users"`
}

func (q *Queries) UpsertUserRole(ctx context.Context, arg UpsertUserRoleParams) (UserRole, error) {
	row := q.db.QueryRow(ctx, upsertUserRole,
		arg.UserID,
		arg.Role,
		arg.CanManageProducts,
		arg.CanManageCategories,
		arg.CanManageUsers,
	)
	var i UserRole
	err := row.Scan(
		&i.UserID,
		&i.Role,
		&i.CanManageProducts,
		&i.CanManageCategories,
		&i.CanManageUsers,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
