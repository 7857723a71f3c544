package router

import (
	"log"
	"net/http"
	"time"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/checkout"
	"github.com/brotinhos/api/internal/config"
	"github.com/brotinhos/api/internal/database"
	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/handler"
	mw "github.com/brotinhos/api/internal/middleware"
	"github.com/brotinhos/api/internal/service"
	"github.com/brotinhos/api/internal/whatsapp"
	"github.com/brotinhos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
// The storefront is public; everything under /admin requires a bearer token
// and, for catalog and user management, the matching permission.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, sessions *checkout.Store) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", handler.SessionHeader},
		ExposedHeaders:   []string{"Content-Language", handler.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	source := menuSource(cfg, queries)

	menuHandler := handler.NewMenuHandler(source)
	r.Route("/menu", menuHandler.RegisterRoutes)

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	storefrontHandler := handler.NewStorefrontHandler(
		sessions,
		source,
		whatsapp.Linker{BaseURL: cfg.WhatsAppBaseURL, Phone: cfg.WhatsAppPhone},
		orderService,
		hub,
	)
	storefrontHandler.RegisterRoutes(r)

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, ws.TopicOrders, w, r)
	})

	// Back-office routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Any back-office role
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleSuperAdmin, enum.UserRoleAdmin, enum.UserRoleEditor))

			orderHandler := handler.NewOrderHandler(queries, hub)
			r.Route("/orders", orderHandler.RegisterRoutes)

			dashboardHandler := handler.NewDashboardHandler(queries, location(cfg.TimeZone))
			r.Route("/dashboard", dashboardHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequirePermission(enum.PermissionCategories))
			categoryHandler := handler.NewCategoryHandler(queries)
			r.Route("/categories", categoryHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequirePermission(enum.PermissionProducts))
			productHandler := handler.NewProductHandler(queries)
			r.Route("/products", productHandler.RegisterRoutes)

			addonHandler := handler.NewAddonHandler(queries)
			r.Route("/addons", addonHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequirePermission(enum.PermissionUsers))
			userHandler := handler.NewUserHandler(queries)
			r.Route("/users", userHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

func menuSource(cfg *config.Config, queries *database.Queries) catalog.Source {
	if cfg.CatalogSource == config.CatalogSourceStatic {
		log.Println("Serving the built-in menu")
		return catalog.Static(catalog.Default())
	}
	return catalog.NewStoreSource(queries)
}

func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARN: unknown time zone %q, using local time: %v", name, err)
		return time.Local
	}
	return loc
}
