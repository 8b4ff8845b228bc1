// Package server provides the HTTP API for Kensho.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/processor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP gateway for the Kensho API. It translates requests into
// commands, forwards them to the processor, and renders the resulting
// effects as responses and log lines.
type Server struct {
	processor *processor.Processor
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(p *processor.Processor, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		processor: p,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/v1/status", s.handleStatus)

	r.Post("/api/v1/documents", s.handleRegisterDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)

	r.Post("/api/v1/models", s.handleRegisterModel)
	r.Get("/api/v1/models", s.handleListModels)
	r.Get("/api/v1/models/{id}", s.handleGetModel)

	r.Post("/api/v1/queries/verify", s.handleVerifyQuery)
	r.Get("/api/v1/queries", s.handleListQueries)
	r.Get("/api/v1/queries/{id}", s.handleGetQuery)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
