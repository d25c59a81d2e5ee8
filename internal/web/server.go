// Package web provides the JSON HTTP layer over the uploads service. It
// parses nothing itself: handlers pass raw CSV bytes down and translate the
// service's typed errors into client responses.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clarifi-dev/clarifi/internal/config"
	"github.com/clarifi-dev/clarifi/internal/uploads"
)

// Server is the HTTP server for the statement ingestion API.
type Server struct {
	service *uploads.Service
	router  *chi.Mux
	server  *http.Server

	maxUploadSize int64
}

// NewServer creates a Server wired to the given service.
func NewServer(service *uploads.Service, cfg *config.Config) *Server {
	s := &Server{
		service:       service,
		router:        chi.NewRouter(),
		maxUploadSize: cfg.Upload.MaxFileSize,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleHealth)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/uploads", s.handleIngest)
		r.Get("/uploads", s.handleListUploads)
		r.Get("/uploads/{uploadID}", s.handleGetUpload)
		r.Get("/uploads/{uploadID}/transactions", s.handleListTransactions)
		r.Get("/uploads/{uploadID}/summary", s.handleSummary)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving requests. Blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
