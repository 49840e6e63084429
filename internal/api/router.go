package api

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/go-rental/internal/api/handlers"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/metrics"
	"github.com/hugh/go-rental/internal/quota"
	"github.com/hugh/go-rental/internal/rental"
	"github.com/hugh/go-rental/internal/web"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	AuthService    *auth.Service
	Guard          *quota.Guard
	Rental         *rental.Service
	Templates      *web.Templates
	StaticFS       fs.FS
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
	SecureCookie   bool
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	session := middleware.Session(cfg.AuthService)

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger, cfg.SecureCookie)
	userHandler := handlers.NewUserHandler(cfg.AuthService, cfg.Logger)
	planHandler := handlers.NewPlanHandler(cfg.Guard, cfg.Logger)
	ownerHandler := handlers.NewOwnerHandler(cfg.Rental, cfg.Logger)
	propertyHandler := handlers.NewPropertyHandler(cfg.Rental, cfg.Logger)
	tenantHandler := handlers.NewTenantHandler(cfg.Rental, cfg.Logger)
	receiptHandler := handlers.NewReceiptHandler(cfg.Rental, cfg.Logger)
	dashboardHandler := handlers.NewDashboardHandler(cfg.Guard, cfg.Rental, cfg.Templates, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(session)
			r.Use(middleware.RotationGate)
			if cfg.RateLimitReqs > 0 {
				r.Use(middleware.RateLimitByUser(cfg.RateLimitReqs, cfg.RateLimitSecs))
			}

			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/me", authHandler.UpdateMe)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			r.With(middleware.RequireAdmin).Post("/auth/register", authHandler.Register)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
				r.Post("/{id}/activate", userHandler.Activate)
				r.Post("/{id}/deactivate", userHandler.Deactivate)
				r.Put("/{id}/plan", userHandler.SetPlan)
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", planHandler.List)
				r.Get("/usage", planHandler.Usage)
				r.Get("/check/{kind}", planHandler.Check)
				r.Get("/{id}", planHandler.Get)
				r.With(middleware.RequireAdmin).Put("/{id}", planHandler.Update)
			})

			r.Route("/owners", func(r chi.Router) {
				r.Get("/", ownerHandler.List)
				r.Post("/", ownerHandler.Create)
				r.Get("/{id}", ownerHandler.Get)
				r.Put("/{id}", ownerHandler.Update)
				r.Delete("/{id}", ownerHandler.Delete)
			})

			r.Route("/properties", func(r chi.Router) {
				r.Get("/", propertyHandler.List)
				r.Post("/", propertyHandler.Create)
				r.Get("/{id}", propertyHandler.Get)
				r.Put("/{id}", propertyHandler.Update)
				r.Delete("/{id}", propertyHandler.Delete)
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", tenantHandler.List)
				r.Post("/", tenantHandler.Create)
				r.Get("/{id}", tenantHandler.Get)
				r.Put("/{id}", tenantHandler.Update)
				r.Delete("/{id}", tenantHandler.Delete)
				r.Get("/{id}/receipts/last", tenantHandler.LastReceipt)
			})

			r.Route("/receipts", func(r chi.Router) {
				r.Get("/", receiptHandler.List)
				r.Post("/", receiptHandler.Create)
				r.Post("/generate", receiptHandler.Generate)
				r.Get("/{id}", receiptHandler.Get)
				r.Put("/{id}", receiptHandler.Update)
				r.Delete("/{id}", receiptHandler.Delete)
				r.Post("/{id}/pay", receiptHandler.Pay)
				r.Get("/{id}/words", receiptHandler.Words)
			})
		})
	})

	// Web dashboard routes
	r.Get("/login", dashboardHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(session)
		r.Use(middleware.RotationGate)
		r.Get("/change-password", dashboardHandler.ChangePassword)
		r.Get("/", dashboardHandler.Index)
		r.Get("/dashboard", dashboardHandler.Index)
	})

	// Static files
	if cfg.StaticFS != nil {
		fileServer := http.FileServer(http.FS(cfg.StaticFS))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return &Router{r}
}
