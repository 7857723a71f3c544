package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/brotinhos/api/internal/auth"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserStore defines the database methods needed by user handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type UserStore interface {
	ListUsers(ctx context.Context) ([]database.UserAccount, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.UserAccount, error)
	CreateProfile(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error)
	UpsertUserRole(ctx context.Context, arg database.UpsertUserRoleParams) (database.UserRole, error)
	DeleteUserRole(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// UserHandler manages back-office accounts and their roles.
type UserHandler struct {
	store UserStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// RegisterRoutes registers user endpoints on the given Chi router.
// Expected to be mounted at /admin/users behind the users permission.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}/role", h.SetRole)
	r.Delete("/{id}/role", h.DeleteRole)
}

// --- Request / Response types ---

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type setRoleRequest struct {
	Role                string `json:"role"`
	CanManageProducts   bool   `json:"can_manage_products"`
	CanManageCategories bool   `json:"can_manage_categories"`
	CanManageUsers      bool   `json:"can_manage_users"`
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        *string   `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u database.UserAccount) userResponse {
	resp := userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName.String,
		Permissions: auth.PermissionsFor(u.Role.String, u.CanManageProducts, u.CanManageCategories, u.CanManageUsers),
		CreatedAt:   u.CreatedAt,
	}
	if u.Role.Valid {
		resp.Role = &u.Role.String
	}
	return resp
}

// --- Handlers ---

// List returns every active profile with its role, if any.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("ERROR: list users: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a profile. It has no back-office access until a role is set.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "valid email is required"})
		return
	}
	if len(req.Password) < minPasswordLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash password: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	fullName := pgtype.Text{}
	if name := strings.TrimSpace(req.FullName); name != "" {
		fullName = pgtype.Text{String: name, Valid: true}
	}

	profile, err := h.store.CreateProfile(r.Context(), database.CreateProfileParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       fullName,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
			return
		}
		log.Printf("ERROR: create profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(database.UserAccount{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		IsActive:  profile.IsActive,
		CreatedAt: profile.CreatedAt,
	}))
}

// SetRole assigns or replaces a user's role. Only super admins may grant
// super_admin, and nobody may change their own role.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidRole(req.Role) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}

	if status, msg := checkRoleChange(r, userID, req.Role); status != 0 {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		log.Printf("ERROR: get user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	role, err := h.store.UpsertUserRole(r.Context(), database.UpsertUserRoleParams{
		UserID:              userID,
		Role:                req.Role,
		CanManageProducts:   req.CanManageProducts,
		CanManageCategories: req.CanManageCategories,
		CanManageUsers:      req.CanManageUsers,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		log.Printf("ERROR: upsert user role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	user.Role = pgtype.Text{String: role.Role, Valid: true}
	user.CanManageProducts = role.CanManageProducts
	user.CanManageCategories = role.CanManageCategories
	user.CanManageUsers = role.CanManageUsers
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteRole revokes a user's back-office access.
func (h *UserHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	if status, msg := checkRoleChange(r, userID, ""); status != 0 {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}

	if _, err := h.store.DeleteUserRole(r.Context(), userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "role not found"})
			return
		}
		log.Printf("ERROR: delete user role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// checkRoleChange returns a non-zero status when the caller may not change
// target's role to newRole ("" for removal).
func checkRoleChange(r *http.Request, target uuid.UUID, newRole string) (int, string) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return http.StatusUnauthorized, "not authenticated"
	}
	if claims.UserID == target {
		return http.StatusBadRequest, "cannot change your own role"
	}
	if newRole == enum.UserRoleSuperAdmin && claims.Role != enum.UserRoleSuperAdmin {
		return http.StatusForbidden, "only super admins can grant super_admin"
	}
	return 0, ""
}

func isValidRole(role string) bool {
	switch role {
	case enum.UserRoleSuperAdmin, enum.UserRoleAdmin, enum.UserRoleEditor:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
