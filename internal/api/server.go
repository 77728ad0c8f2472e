// Package api exposes the analysis engine over HTTP: single-file analysis,
// archive analysis, and an inline-code endpoint returning a flattened report.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jward/lignin"
	"github.com/jward/lignin/internal/config"
	"github.com/jward/lignin/internal/logging"
)

// Server is the HTTP API server.
type Server struct {
	router *http.ServeMux
	server *http.Server
	engine *lignin.Engine
	logger *logging.Logger
	cfg    config.ServerConfig
}

// NewServer wires routes and middleware around an Engine.
func NewServer(cfg config.ServerConfig, engine *lignin.Engine, logger *logging.Logger) *Server {
	s := &Server{
		router: http.NewServeMux(),
		engine: engine,
		logger: logger,
		cfg:    cfg,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.applyMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("POST /analyze/file", s.handleAnalyzeFile)
	s.router.HandleFunc("POST /analyze/archive", s.handleAnalyzeArchive)
	s.router.HandleFunc("POST /analyze/code", s.handleAnalyzeCode)
}

// applyMiddleware wraps the router; the last middleware applied runs first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}

// Start blocks until the listener fails or the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", map[string]interface{}{
		"addr": s.cfg.Addr,
	})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: listen on %s: %w", s.cfg.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server", nil)
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}

// ServeHTTP lets tests drive the full middleware chain without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}
