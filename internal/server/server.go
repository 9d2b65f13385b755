// Package server exposes the analysis pipeline over a small REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/interfaces"
)

// Server wraps the HTTP server and its collaborators.
type Server struct {
	analyzer interfaces.AnalyzerService
	config   *common.Config
	logger   *common.Logger
	server   *http.Server
	now      func() time.Time
}

// NewServer creates the REST API server.
func NewServer(config *common.Config, analyzer interfaces.AnalyzerService, logger *common.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
