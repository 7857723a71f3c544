package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/config"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Super admin email address")
	password := flag.String("password", "", "Super admin password")
	name := flag.String("name", "", "Super admin full name")
	skipMenu := flag.Bool("skip-menu", false, "Do not load the built-in menu")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "admin@brotinhos.com.br"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Admin Brotinhos"
	}

	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Seed in a transaction (menu + admin or neither)
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if !*skipMenu {
		if err := seedMenu(ctx, tx, catalog.Default()); err != nil {
			log.Fatalf("Failed to seed menu: %v", err)
		}
	}

	userID, err := seedSuperAdmin(ctx, tx, strings.ToLower(*email), *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Super admin ID: %s", userID)
}

// seedMenu loads the built-in menu. Categories are matched by slug; products
// and add-ons are only inserted into empty tables.
func seedMenu(ctx context.Context, tx pgx.Tx, menu *catalog.Catalog) error {
	q := database.New(tx)
	name := func(l catalog.Localized, lang i18n.Language) string { return l[lang] }
	text := func(l catalog.Localized, lang i18n.Language) pgtype.Text {
		return pgtype.Text{String: l[lang], Valid: l[lang] != ""}
	}

	categoryIDs := make(map[string]uuid.UUID)
	for _, c := range menu.Categories() {
		var existingID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM categories WHERE slug = $1`, c.Slug).Scan(&existingID)
		if err == nil {
			log.Printf("Category '%s' already exists (ID: %s), skipping", c.Slug, existingID)
			categoryIDs[c.ID] = existingID
			continue
		}
		if err != pgx.ErrNoRows {
			return fmt.Errorf("check category %s: %w", c.Slug, err)
		}

		created, err := q.CreateCategory(ctx, database.CreateCategoryParams{
			Slug:         c.Slug,
			NamePt:       name(c.Name, i18n.Portuguese),
			NameEn:       name(c.Name, i18n.English),
			NameEs:       name(c.Name, i18n.Spanish),
			DisplayOrder: c.DisplayOrder,
		})
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.ID] = created.ID
		log.Printf("Created category '%s' (ID: %s)", c.Slug, created.ID)
	}

	var productCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&productCount); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if productCount > 0 {
		log.Printf("%d products already exist, skipping products", productCount)
	} else {
		for i, p := range menu.Products() {
			params := database.CreateProductParams{
				CategoryID:    categoryIDs[p.CategoryID],
				NamePt:        name(p.Name, i18n.Portuguese),
				NameEn:        name(p.Name, i18n.English),
				NameEs:        name(p.Name, i18n.Spanish),
				DescriptionPt: text(p.Description, i18n.Portuguese),
				DescriptionEn: text(p.Description, i18n.English),
				DescriptionEs: text(p.Description, i18n.Spanish),
				Price:         database.DecimalToNumeric(p.Price),
				ImageUrl:      pgtype.Text{String: p.ImageURL, Valid: p.ImageURL != ""},
				HasAddons:     p.HasAddons,
				Items:         append([]string{}, p.Items...),
				DisplayOrder:  int32(i + 1),
			}
			if p.OriginalPrice.Valid {
				params.OriginalPrice = database.DecimalToNumeric(p.OriginalPrice.Decimal)
			}
			if _, err := q.CreateProduct(ctx, params); err != nil {
				return fmt.Errorf("insert product %s: %w", p.ID, err)
			}
		}
		log.Printf("Created %d products", len(menu.Products()))
	}

	var addonCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM addons`).Scan(&addonCount); err != nil {
		return fmt.Errorf("count add-ons: %w", err)
	}
	if addonCount > 0 {
		log.Printf("%d add-ons already exist, skipping add-ons", addonCount)
		return nil
	}
	for i, a := range menu.AllAddons() {
		if _, err := q.CreateAddon(ctx, database.CreateAddonParams{
			NamePt:       name(a.Name, i18n.Portuguese),
			NameEn:       name(a.Name, i18n.English),
			NameEs:       name(a.Name, i18n.Spanish),
			Price:        database.DecimalToNumeric(a.Price),
			DisplayOrder: int32(i + 1),
		}); err != nil {
			return fmt.Errorf("insert add-on %s: %w", a.ID, err)
		}
	}
	log.Printf("Created %d add-ons", len(menu.AllAddons()))
	return nil
}

// seedSuperAdmin creates the first back-office account if it doesn't exist.
func seedSuperAdmin(ctx context.Context, tx pgx.Tx, email, password, fullName string) (uuid.UUID, error) {
	q := database.New(tx)

	// Check if user already exists
	var existingID uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM profiles WHERE email = $1 LIMIT 1`, email).Scan(&existingID)
	if err == nil {
		log.Printf("User '%s' already exists (ID: %s), skipping", email, existingID)
		return existingID, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("check user: %w", err)
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	profile, err := q.CreateProfile(ctx, database.CreateProfileParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       pgtype.Text{String: fullName, Valid: fullName != ""},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert profile: %w", err)
	}

	if _, err := q.UpsertUserRole(ctx, database.UpsertUserRoleParams{
		UserID:              profile.ID,
		Role:                enum.UserRoleSuperAdmin,
		CanManageProducts:   true,
		CanManageCategories: true,
		CanManageUsers:      true,
	}); err != nil {
		return uuid.Nil, fmt.Errorf("insert role: %w", err)
	}

	log.Printf("Created super admin '%s' (ID: %s)", email, profile.ID)
	return profile.ID, nil
}
