package qbittorrent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/models"
)

// ErrNotConfigured is returned when no qBittorrent host is set
var ErrNotConfigured = errors.New("qbittorrent host not configured")

// api is the subset of the qBittorrent Web API used here
type api interface {
	LoginCtx(ctx context.Context) error
	GetTorrentsCtx(ctx context.Context, o qbt.TorrentFilterOptions) ([]qbt.Torrent, error)
	DeleteTorrentsCtx(ctx context.Context, hashes []string, deleteFiles bool) error
	GetAppVersionCtx(ctx context.Context) (string, error)
}

// Client wraps a qBittorrent session with lazy login
type Client struct {
	api    api
	logger *logrus.Logger

	mu       sync.Mutex
	loggedIn bool
}

// NewClient creates a qBittorrent client; it does not connect until first use
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	c := &Client{logger: logger}
	if cfg.QBitHost == "" {
		return c
	}

	c.api = qbt.NewClient(qbt.Config{
		Host:     cfg.QBitHost,
		Username: cfg.QBitUsername,
		Password: cfg.QBitPassword,
		Timeout:  int(cfg.HTTPTimeout.Seconds()),
	})
	return c
}

// Name identifies the service in logs and metrics
func (c *Client) Name() string {
	return "qbittorrent"
}

// Configured reports whether the WebUI host is set
func (c *Client) Configured() bool {
	return c.api != nil
}

func (c *Client) login(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loggedIn && !force {
		return nil
	}
	if err := c.api.LoginCtx(ctx); err != nil {
		c.loggedIn = false
		return fmt.Errorf("failed to login to qBittorrent: %w", err)
	}
	c.loggedIn = true
	return nil
}

// withSession runs fn after logging in, and retries once with a fresh login
// when the session was rejected
func (c *Client) withSession(ctx context.Context, fn func() error) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if err := c.login(ctx, false); err != nil {
		return err
	}

	err := fn()
	if err == nil {
		return nil
	}

	c.logger.WithError(err).Debug("qBittorrent request failed, re-authenticating")
	if loginErr := c.login(ctx, true); loginErr != nil {
		return loginErr
	}
	return fn()
}

// GetTorrents returns every torrent known to qBittorrent
func (c *Client) GetTorrents(ctx context.Context) ([]models.Torrent, error) {
	var torrents []qbt.Torrent
	err := c.withSession(ctx, func() error {
		var err error
		torrents, err = c.api.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	result := make([]models.Torrent, 0, len(torrents))
	for _, t := range torrents {
		result = append(result, models.Torrent{
			Hash:        t.Hash,
			Name:        t.Name,
			State:       string(t.State),
			ContentPath: t.ContentPath,
			Ratio:       t.Ratio,
			SeedingTime: t.SeedingTime,
		})
	}
	return result, nil
}

// DeleteTorrents removes torrents together with their downloaded data
func (c *Client) DeleteTorrents(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	err := c.withSession(ctx, func() error {
		return c.api.DeleteTorrentsCtx(ctx, hashes, true)
	})
	if err != nil {
		return fmt.Errorf("failed to delete torrents: %w", err)
	}

	c.logger.WithField("hashes", hashes).Info("Deleted torrents from qBittorrent")
	return nil
}

// CheckConnection logs in and reads the application version
func (c *Client) CheckConnection(ctx context.Context) error {
	return c.withSession(ctx, func() error {
		version, err := c.api.GetAppVersionCtx(ctx)
		if err != nil {
			return err
		}
		c.logger.WithField("version", version).Debug("qBittorrent reachable")
		return nil
	})
}
