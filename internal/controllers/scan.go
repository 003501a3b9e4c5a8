package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/matcher"
	"github.com/amaumene/mediacleanerr/internal/metrics"
	"github.com/amaumene/mediacleanerr/internal/models"
)

const tracerName = "github.com/amaumene/mediacleanerr/internal/controllers"

// Collector is the part shared by every external source
type Collector interface {
	Name() string
	Configured() bool
}

// MovieCollector lists the movie library, its history and storage
type MovieCollector interface {
	Collector
	GetMovies(ctx context.Context) ([]models.MediaItem, error)
	GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error)
	GetDiskSpace(ctx context.Context) ([]models.DiskSpace, error)
	GetRootFolders(ctx context.Context) ([]models.RootFolder, error)
}

// SeriesCollector lists the series library and its history
type SeriesCollector interface {
	Collector
	GetSeries(ctx context.Context) ([]models.MediaItem, error)
	GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error)
}

// TorrentCollector lists the download client torrents
type TorrentCollector interface {
	Collector
	GetTorrents(ctx context.Context) ([]models.Torrent, error)
}

// PlayerCollector returns the play state of every player user
type PlayerCollector interface {
	Collector
	GetPlayState(ctx context.Context) ([][]models.PlayerItem, error)
}

// ScanController fetches every source and aggregates the result
type ScanController struct {
	cfg      *config.Config
	db       *models.Database
	movies   MovieCollector
	series   SeriesCollector
	torrents TorrentCollector
	player   PlayerCollector
	metrics  *metrics.Manager
	tracer   trace.Tracer
	logger   *logrus.Logger
}

// NewScanController creates a new scan controller. db may be nil, in which
// case the policy always comes from the environment.
func NewScanController(cfg *config.Config, db *models.Database, movies MovieCollector, series SeriesCollector,
	torrents TorrentCollector, player PlayerCollector, m *metrics.Manager, logger *logrus.Logger) *ScanController {
	return &ScanController{
		cfg:      cfg,
		db:       db,
		movies:   movies,
		series:   series,
		torrents: torrents,
		player:   player,
		metrics:  m,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// WithTracerProvider replaces the global tracer provider
func (c *ScanController) WithTracerProvider(tp trace.TracerProvider) *ScanController {
	c.tracer = tp.Tracer(tracerName)
	return c
}

// Policy returns the persisted policy, or the environment defaults when none is saved
func (c *ScanController) Policy() models.Policy {
	fallback := c.cfg.Policy()
	if c.db == nil {
		return fallback
	}

	policy, err := c.db.EffectivePolicy(fallback)
	if err != nil {
		c.logger.WithError(err).Error("Failed to read saved policy, using defaults")
		return fallback
	}
	return policy
}

// SavePolicy validates and persists a policy for subsequent scans
func (c *ScanController) SavePolicy(policy models.Policy) error {
	if err := config.ValidatePolicy(policy); err != nil {
		return err
	}
	if c.db == nil {
		return fmt.Errorf("no database configured")
	}
	if err := c.db.SavePolicy(policy); err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"disk_threshold": policy.DiskThreshold,
		"min_seed_weeks": policy.MinSeedWeeks,
		"min_ratio":      policy.MinRatio,
	}).Info("Saved deletion policy")
	return nil
}

// Snapshot fetches every source sequentially. A failing source contributes
// an empty slice; the failure is logged and counted but never returned.
func (c *ScanController) Snapshot(ctx context.Context) matcher.Snapshot {
	ctx, span := c.tracer.Start(ctx, "scan.snapshot")
	defer span.End()

	pageSize := c.cfg.HistoryPageSize

	var s matcher.Snapshot
	s.Movies = collect(ctx, c, c.movies, "movies", c.movies.GetMovies)
	s.MovieHistory = collect(ctx, c, c.movies, "history", func(ctx context.Context) ([]models.HistoryRecord, error) {
		return c.movies.GetHistory(ctx, pageSize)
	})
	s.Disks = collect(ctx, c, c.movies, "diskspace", c.movies.GetDiskSpace)
	s.RootFolders = collect(ctx, c, c.movies, "rootfolders", c.movies.GetRootFolders)
	s.Series = collect(ctx, c, c.series, "series", c.series.GetSeries)
	s.SeriesHistory = collect(ctx, c, c.series, "history", func(ctx context.Context) ([]models.HistoryRecord, error) {
		return c.series.GetHistory(ctx, pageSize)
	})
	s.Torrents = collect(ctx, c, c.torrents, "torrents", c.torrents.GetTorrents)
	s.PlayerItems = collect(ctx, c, c.player, "playstate", c.player.GetPlayState)

	return s
}

// Scan runs one full aggregation with the current policy
func (c *ScanController) Scan(ctx context.Context) *matcher.Result {
	start := time.Now()
	policy := c.Policy()

	snapshot := c.Snapshot(ctx)
	result := matcher.NewEngine(policy, c.cfg.DiskFallbackPath, c.logger).Aggregate(snapshot)

	elapsed := time.Since(start)
	var diskPercent *float64
	if result.DiskUsage != nil {
		diskPercent = &result.DiskUsage.Percent
	}
	if c.metrics != nil {
		c.metrics.ObserveScan(len(result.Rows), result.Deletable(), diskPercent, elapsed)
	}

	c.logger.WithFields(logrus.Fields{
		"rows":      len(result.Rows),
		"deletable": result.Deletable(),
		"duration":  elapsed.Round(time.Millisecond),
	}).Info("Scan completed")

	return result
}

func collect[T any](ctx context.Context, c *ScanController, src Collector, what string, fetch func(context.Context) ([]T, error)) []T {
	source := src.Name()
	log := c.logger.WithFields(logrus.Fields{
		"source": source,
		"fetch":  what,
	})

	if !src.Configured() {
		log.Warn("Source not configured, using empty result")
		c.collectorFailed(source, metrics.ReasonNotConfigured)
		return []T{}
	}

	ctx, span := c.tracer.Start(ctx, source+"."+what, trace.WithAttributes(
		attribute.String("source", source),
	))
	defer span.End()

	records, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("Source unreachable, using empty result")
		c.collectorFailed(source, metrics.ReasonUnreachable)
		return []T{}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	if c.metrics != nil {
		c.metrics.CollectorSucceeded(source, what, len(records))
	}
	log.WithField("records", len(records)).Debug("Fetched records")
	return records
}

func (c *ScanController) collectorFailed(source, reason string) {
	if c.metrics != nil {
		c.metrics.CollectorFailed(source, reason)
	}
}
