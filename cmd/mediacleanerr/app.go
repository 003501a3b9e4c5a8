package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/controllers"
	"github.com/amaumene/mediacleanerr/internal/metrics"
	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/amaumene/mediacleanerr/internal/services/jellyfin"
	"github.com/amaumene/mediacleanerr/internal/services/qbittorrent"
	"github.com/amaumene/mediacleanerr/internal/services/radarr"
	"github.com/amaumene/mediacleanerr/internal/services/sonarr"
	"github.com/amaumene/mediacleanerr/internal/utils"
)

// app holds the wired services shared by the commands
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *models.Database
	tracer *sdktrace.TracerProvider

	metrics *metrics.Manager

	scanCtrl    *controllers.ScanController
	cleanupCtrl *controllers.CleanupController
	statusCtrl  *controllers.StatusController
}

// newApp loads configuration and wires every component. When requireDB is
// false a locked or unreadable database only disables saved settings.
func newApp(requireDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.WithError(err).Warn("Database unavailable, using policy from environment")
		db = nil
	}

	keepList, err := utils.LoadKeepList(cfg.KeepListFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load keep-list, continuing without it")
		keepList = utils.NewKeepList()
	} else {
		logger.WithField("terms", keepList.Len()).Info("Keep-list loaded")
	}

	radarrClient := radarr.NewClient(cfg, logger)
	sonarrClient := sonarr.NewClient(cfg, logger)
	qbitClient := qbittorrent.NewClient(cfg, logger)
	jellyfinClient := jellyfin.NewClient(cfg, logger)

	tp := metrics.NewTracerProvider(logger)
	otel.SetTracerProvider(tp)

	m := metrics.NewManager()

	a := &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		tracer:  tp,
		metrics: m,
		scanCtrl: controllers.NewScanController(cfg, db, radarrClient, sonarrClient, qbitClient, jellyfinClient, m, logger).
			WithTracerProvider(tp),
		cleanupCtrl: controllers.NewCleanupController(db, radarrClient, sonarrClient, qbitClient, keepList, m, logger),
		statusCtrl: controllers.NewStatusController([]controllers.ServiceChecker{
			radarrClient, sonarrClient, qbitClient, jellyfinClient,
		}, controllers.StatusTTL, logger),
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.WithError(err).Warn("Failed to shut down tracer provider")
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close database")
		}
	}
}
