// Package api provides the HTTP API server and handlers for the midshelf application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/midshelf/midshelf-server/internal/ratelimit"
	"github.com/midshelf/midshelf-server/internal/service"
	"github.com/midshelf/midshelf-server/internal/transfer"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService     *service.AuthService
	itemService     *service.ItemService
	taxonomyService *service.TaxonomyService
	tagService      *service.TagService
	settingsService *service.SettingsService
	transferEngine  *transfer.Engine
	loginLimiter    *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	logger          *slog.Logger
}

// Config carries the server's tunables.
type Config struct {
	LoginRatePerMinute int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	itemService *service.ItemService,
	taxonomyService *service.TaxonomyService,
	tagService *service.TagService,
	settingsService *service.SettingsService,
	transferEngine *transfer.Engine,
	cfg Config,
	logger *slog.Logger,
) *Server {
	if cfg.LoginRatePerMinute <= 0 {
		cfg.LoginRatePerMinute = 10
	}

	s := &Server{
		authService:     authService,
		itemService:     itemService,
		taxonomyService: taxonomyService,
		tagService:      tagService,
		settingsService: settingsService,
		transferEngine:  transferEngine,
		loginLimiter:    ratelimit.New(float64(cfg.LoginRatePerMinute)/time.Minute.Seconds(), cfg.LoginRatePerMinute),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.With(s.throttleLogin).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(s.requireAuth).Get("/me", s.handleGetCurrentAccount)
		})

		// Account-level operations.
		r.Route("/account", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Delete("/data", s.handleResetAccountData)
		})

		// Items.
		r.Route("/items", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListItems)
			r.Post("/", s.handleCreateItem)
			r.Get("/{id}", s.handleGetItem)
			r.Put("/{id}", s.handleUpdateItem)
			r.Delete("/{id}", s.handleDeleteItem)
		})

		// Categories.
		r.Route("/categories", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Get("/{id}", s.handleGetCategory)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		// Locations.
		r.Route("/locations", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListLocations)
			r.Post("/", s.handleCreateLocation)
			r.Get("/{id}", s.handleGetLocation)
			r.Put("/{id}", s.handleUpdateLocation)
			r.Delete("/{id}", s.handleDeleteLocation)
		})

		// Tags (read-only; tags appear and disappear through items).
		r.Route("/tags", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListTags)
			r.Get("/search", s.handleSearchTags)
		})

		// Per-account settings.
		r.Route("/settings", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleUpdateSetting)
		})

		// Bulk transfer.
		r.Route("/transfer", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/export/csv", s.handleExportCSV)
			r.Post("/import/csv", s.handleImportCSV)
			r.Get("/export/json", s.handleExportJSON)
			r.Post("/import/json", s.handleImportJSON)
		})
	})
}
