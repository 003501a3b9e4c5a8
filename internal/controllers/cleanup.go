package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/metrics"
	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/amaumene/mediacleanerr/internal/utils"
)

var (
	// ErrInvalidRequest is returned for malformed deletion requests
	ErrInvalidRequest = errors.New("invalid delete request")
	// ErrProtected is returned when the item's title matches the keep-list
	ErrProtected = errors.New("item is protected by the keep-list")
)

// DeleteRequest identifies a library item and the torrents to remove with it
type DeleteRequest struct {
	Origin        models.Origin     `json:"origin"`
	ID            int               `json:"id"`
	TorrentHashes []string          `json:"torrent_hashes"`
	DeleteType    models.DeleteType `json:"delete_type"`
}

// Validate checks the request and defaults the delete type to media
func (r *DeleteRequest) Validate() error {
	if r.Origin != models.OriginRadarr && r.Origin != models.OriginSonarr {
		return fmt.Errorf("%w: unknown origin %q", ErrInvalidRequest, r.Origin)
	}
	if r.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidRequest)
	}
	if r.DeleteType == "" {
		r.DeleteType = models.DeleteTypeMedia
	}
	switch r.DeleteType {
	case models.DeleteTypeMedia:
	case models.DeleteTypeTorrent:
		if len(r.TorrentHashes) == 0 {
			return fmt.Errorf("%w: torrent deletion needs at least one hash", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown delete type %q", ErrInvalidRequest, r.DeleteType)
	}
	return nil
}

// MovieManager looks up and removes movies
type MovieManager interface {
	GetMovie(ctx context.Context, id int) (models.MediaItem, error)
	DeleteMovie(ctx context.Context, id int) error
}

// SeriesManager looks up and removes series
type SeriesManager interface {
	GetSeriesByID(ctx context.Context, id int) (models.MediaItem, error)
	DeleteSeries(ctx context.Context, id int) error
}

// TorrentRemover deletes torrents and their files
type TorrentRemover interface {
	DeleteTorrents(ctx context.Context, hashes []string) error
}

// CleanupController carries out user-requested deletions
type CleanupController struct {
	db       *models.Database
	movies   MovieManager
	series   SeriesManager
	torrents TorrentRemover
	keepList *utils.KeepList
	metrics  *metrics.Manager
	logger   *logrus.Logger
}

// NewCleanupController creates a new cleanup controller
func NewCleanupController(db *models.Database, movies MovieManager, series SeriesManager, torrents TorrentRemover,
	keepList *utils.KeepList, m *metrics.Manager, logger *logrus.Logger) *CleanupController {
	return &CleanupController{
		db:       db,
		movies:   movies,
		series:   series,
		torrents: torrents,
		keepList: keepList,
		metrics:  m,
		logger:   logger,
	}
}

// Delete removes the requested torrents and, for media deletions, the
// library entry with its files. Step failures are collected on the returned
// deletion rather than aborting the remaining steps.
func (c *CleanupController) Delete(ctx context.Context, req DeleteRequest) (*models.Deletion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := c.lookup(ctx, req.Origin, req.ID)
	if err != nil {
		return nil, err
	}

	if protected, term := c.keepList.IsProtected(item.Title); protected {
		c.logger.WithFields(logrus.Fields{
			"origin": req.Origin,
			"id":     req.ID,
			"title":  item.Title,
			"term":   term,
		}).Warn("Refusing to delete protected item")
		return nil, fmt.Errorf("%w: %q matches %q", ErrProtected, item.Title, term)
	}

	log := c.logger.WithFields(logrus.Fields{
		"origin":      req.Origin,
		"id":          req.ID,
		"title":       item.Title,
		"delete_type": req.DeleteType,
		"hashes":      req.TorrentHashes,
	})
	log.Info("Received delete request")

	deletion := &models.Deletion{
		Origin:        req.Origin,
		MediaID:       req.ID,
		Title:         item.Title,
		TorrentHashes: req.TorrentHashes,
		DeleteType:    req.DeleteType,
		DeletedAt:     time.Now(),
	}

	if len(req.TorrentHashes) > 0 {
		if err := c.torrents.DeleteTorrents(ctx, req.TorrentHashes); err != nil {
			log.WithError(err).Error("Failed to delete torrents")
			deletion.Errors = append(deletion.Errors, err.Error())
		}
	}

	if req.DeleteType == models.DeleteTypeMedia {
		if err := c.deleteMedia(ctx, req.Origin, req.ID); err != nil {
			log.WithError(err).Error("Failed to delete media")
			deletion.Errors = append(deletion.Errors, err.Error())
		}
	}

	if c.db != nil {
		if err := c.db.CreateDeletion(deletion); err != nil {
			log.WithError(err).Error("Failed to record deletion")
		}
	}
	if c.metrics != nil {
		c.metrics.DeletionPerformed(string(req.Origin), string(req.DeleteType))
	}

	log.WithField("errors", len(deletion.Errors)).Info("Delete request completed")
	return deletion, nil
}

// History returns the deletion log, newest first
func (c *CleanupController) History(origin models.Origin) ([]*models.Deletion, error) {
	if c.db == nil {
		return []*models.Deletion{}, nil
	}
	if origin != "" {
		return c.db.GetDeletionsByOrigin(origin)
	}
	return c.db.GetDeletions()
}

func (c *CleanupController) lookup(ctx context.Context, origin models.Origin, id int) (models.MediaItem, error) {
	var (
		item models.MediaItem
		err  error
	)
	switch origin {
	case models.OriginRadarr:
		item, err = c.movies.GetMovie(ctx, id)
	case models.OriginSonarr:
		item, err = c.series.GetSeriesByID(ctx, id)
	}
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to look up %s item %d: %w", origin, id, err)
	}
	return item, nil
}

func (c *CleanupController) deleteMedia(ctx context.Context, origin models.Origin, id int) error {
	switch origin {
	case models.OriginRadarr:
		return c.movies.DeleteMovie(ctx, id)
	case models.OriginSonarr:
		return c.series.DeleteSeries(ctx, id)
	}
	return fmt.Errorf("%w: unknown origin %q", ErrInvalidRequest, origin)
}
