// Package web provides the HTTP server and handlers for the price
// book: catalog browsing and search for field devices, estimate
// sessions, and the admin import endpoint.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/amsfield/pricebook/internal/cache"
	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/config"
	"github.com/amsfield/pricebook/internal/estimate"
	"github.com/amsfield/pricebook/internal/web/middleware"
)

// Server is the HTTP server for the price-book application.
type Server struct {
	store     *catalog.Store
	estimates *estimate.Registry
	cache     *cache.Cache // nil when no upstream is configured
	cfg       *config.Config
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server instance. The cache may be nil; the
// refresh endpoint then reports that no upstream is configured.
func NewServer(store *catalog.Store, estimates *estimate.Registry, c *cache.Cache, cfg *config.Config) *Server {
	s := &Server{
		store:     store,
		estimates: estimates,
		cache:     c,
		cfg:       cfg,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Catalog browsing
		r.Get("/catalog", s.handleGetCatalog)
		r.Get("/catalog/search", s.handleSearch)
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{name}", s.handleCategory)
		r.Get("/families", s.handleFamilies)
		r.Post("/catalog/refresh", s.handleRefresh)

		// Estimate sessions
		r.Post("/estimates", s.handleCreateEstimate)
		r.Get("/estimates/{sessionID}", s.handleGetEstimate)
		r.Post("/estimates/{sessionID}/select", s.handleSelect)
		r.Post("/estimates/{sessionID}/deselect", s.handleDeselect)
		r.Post("/estimates/{sessionID}/clear", s.handleClearEstimate)
		r.Get("/estimates/{sessionID}/quote", s.handleQuote)

		// Admin import
		r.Post("/admin/import", s.handleImport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
