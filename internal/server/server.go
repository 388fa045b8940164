// Package server exposes the newsletter service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"trendletter/internal/config"
	"trendletter/internal/email"
	"trendletter/internal/logger"
	"trendletter/internal/metrics"
	"trendletter/internal/store"
	"trendletter/internal/subscription"
)

// Server represents the HTTP server
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	coordinator *subscription.Coordinator
	dispatcher  *email.Dispatcher
	store       *store.Store
	gatherer    prometheus.Gatherer
	log         *slog.Logger
}

// New creates a new HTTP server instance
func New(coordinator *subscription.Coordinator, dispatcher *email.Dispatcher, st *store.Store, gatherer prometheus.Gatherer, cfg config.Server) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		coordinator: coordinator,
		dispatcher:  dispatcher,
		store:       st,
		gatherer:    gatherer,
		log:         logger.Get(),
	}

	s.setupMiddleware(config.Duration(cfg.Timeout, 60*time.Second))
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware(timeout time.Duration) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(timeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", metrics.Handler(s.gatherer))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/subscribe", s.handleSubscribe)
		r.Post("/generate", s.handleGenerate)
		r.Get("/email-status", s.handleEmailStatus)
		r.Get("/stats", s.handleStats)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
