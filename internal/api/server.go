package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/api/handlers"
	"github.com/amaumene/mediacleanerr/internal/api/middleware"
	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/controllers"
	"github.com/amaumene/mediacleanerr/internal/metrics"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	scanCtrl    *controllers.ScanController
	cleanupCtrl *controllers.CleanupController
	statusCtrl  *controllers.StatusController
	metrics     *metrics.Manager
	logger      *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, scanCtrl *controllers.ScanController, cleanupCtrl *controllers.CleanupController,
	statusCtrl *controllers.StatusController, m *metrics.Manager, logger *logrus.Logger) *Server {
	s := &Server{
		scanCtrl:    scanCtrl,
		cleanupCtrl: cleanupCtrl,
		statusCtrl:  statusCtrl,
		metrics:     m,
		logger:      logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a scan waits on every collector in turn
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return middleware.Recover(middleware.Logging(mux, s.logger), s.logger)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.Handle("/health", handlers.NewHealthHandler(s.logger))
	mux.Handle("/metrics", s.metrics.Handler())

	mux.Handle("/api/status", handlers.NewStatusHandler(s.statusCtrl, s.logger))

	scanHandler := handlers.NewScanHandler(s.scanCtrl, s.statusCtrl, s.logger)
	mux.HandleFunc("/api/scan", scanHandler.Scan)
	mux.HandleFunc("/api/disk", scanHandler.Disk)
	mux.HandleFunc("/api/media", scanHandler.Media)

	deleteHandler := handlers.NewDeleteHandler(s.cleanupCtrl, s.logger)
	mux.HandleFunc("/api/delete", deleteHandler.Delete)
	mux.HandleFunc("/api/deletions", deleteHandler.Deletions)

	mux.Handle("/api/settings", handlers.NewSettingsHandler(s.scanCtrl, s.logger))
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
