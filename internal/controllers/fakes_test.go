package controllers

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/mediacleanerr/internal/models"
)

var errUnreachable = errors.New("connection refused")

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeSource struct {
	name       string
	configured bool
	err        error
	checks     int
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Configured() bool { return f.configured }

func (f *fakeSource) CheckConnection(ctx context.Context) error {
	f.checks++
	return f.err
}

type fakeRadarr struct {
	fakeSource
	movies       []models.MediaItem
	history      []models.HistoryRecord
	disks        []models.DiskSpace
	folders      []models.RootFolder
	deleted      []int
	lastPageSize int
}

func (f *fakeRadarr) GetMovies(ctx context.Context) ([]models.MediaItem, error) {
	return f.movies, f.err
}

func (f *fakeRadarr) GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error) {
	f.lastPageSize = pageSize
	return f.history, f.err
}

func (f *fakeRadarr) GetDiskSpace(ctx context.Context) ([]models.DiskSpace, error) {
	return f.disks, f.err
}

func (f *fakeRadarr) GetRootFolders(ctx context.Context) ([]models.RootFolder, error) {
	return f.folders, f.err
}

func (f *fakeRadarr) GetMovie(ctx context.Context, id int) (models.MediaItem, error) {
	if f.err != nil {
		return models.MediaItem{}, f.err
	}
	for _, m := range f.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return models.MediaItem{}, errors.New("not found")
}

func (f *fakeRadarr) DeleteMovie(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeSonarr struct {
	fakeSource
	series  []models.MediaItem
	history []models.HistoryRecord
	deleted []int
}

func (f *fakeSonarr) GetSeries(ctx context.Context) ([]models.MediaItem, error) {
	return f.series, f.err
}

func (f *fakeSonarr) GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error) {
	return f.history, f.err
}

func (f *fakeSonarr) GetSeriesByID(ctx context.Context, id int) (models.MediaItem, error) {
	for _, s := range f.series {
		if s.ID == id {
			return s, nil
		}
	}
	return models.MediaItem{}, errors.New("not found")
}

func (f *fakeSonarr) DeleteSeries(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeQBit struct {
	fakeSource
	torrents  []models.Torrent
	deleted   []string
	deleteErr error
}

func (f *fakeQBit) GetTorrents(ctx context.Context) ([]models.Torrent, error) {
	return f.torrents, f.err
}

func (f *fakeQBit) DeleteTorrents(ctx context.Context, hashes []string) error {
	f.deleted = append(f.deleted, hashes...)
	return f.deleteErr
}

type fakePlayer struct {
	fakeSource
	items [][]models.PlayerItem
}

func (f *fakePlayer) GetPlayState(ctx context.Context) ([][]models.PlayerItem, error) {
	return f.items, f.err
}
