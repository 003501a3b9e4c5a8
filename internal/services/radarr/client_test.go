package radarr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(&config.Config{
		RadarrHost:   server.URL + "/",
		RadarrAPIKey: "secret",
		HTTPTimeout:  5 * time.Second,
	}, logger)
}

func TestGetMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/movie", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[
			{"id": 1, "title": "The Matrix", "year": 1999, "path": "/movies/The Matrix (1999)",
			 "monitored": true, "hasFile": true, "tmdbId": 603, "imdbId": "tt0133093"},
			{"id": 2, "title": "Unknown", "year": 2020, "path": "/movies/Unknown", "monitored": false}
		]`))
	})

	movies, err := client.GetMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)

	assert.Equal(t, models.MediaItem{
		ID: 1, Kind: models.MediaTypeMovie, Title: "The Matrix", Year: 1999,
		Path: "/movies/The Matrix (1999)", Monitored: true, HasFile: true,
		ExternalIDs: models.ExternalIDs{TMDB: "603", IMDB: "tt0133093"},
	}, movies[0])
	assert.Equal(t, models.ExternalIDs{}, movies[1].ExternalIDs, "absent ids stay empty")
}

func TestGetHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/history", r.URL.Path)
		assert.Equal(t, "10000", r.URL.Query().Get("pageSize"))
		w.Write([]byte(`{"page": 1, "pageSize": 10000, "totalRecords": 2, "records": [
			{"movieId": 1, "downloadId": "ABC123", "eventType": "downloadFolderImported"},
			{"movieId": 2, "eventType": "movieFileDeleted"}
		]}`))
	})

	records, err := client.GetHistory(context.Background(), 10000)
	require.NoError(t, err)
	assert.Equal(t, []models.HistoryRecord{
		{MediaID: 1, DownloadID: "ABC123"},
		{MediaID: 2},
	}, records)
}

func TestGetDiskSpaceAndRootFolders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/diskspace":
			w.Write([]byte(`[{"path": "/media", "label": "", "freeSpace": 100, "totalSpace": 1000}]`))
		case "/api/v3/rootfolder":
			w.Write([]byte(`[{"id": 1, "path": "/media/movies", "accessible": true}]`))
		default:
			http.NotFound(w, r)
		}
	})

	disks, err := client.GetDiskSpace(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.DiskSpace{{Path: "/media", FreeSpace: 100, TotalSpace: 1000}}, disks)

	folders, err := client.GetRootFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.RootFolder{{Path: "/media/movies"}}, folders)
}

func TestDeleteMovie(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v3/movie/42", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("deleteFiles"))
	})

	require.NoError(t, client.DeleteMovie(context.Background(), 42))
	assert.True(t, called)
}

func TestErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.GetMovies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Error(t, client.CheckConnection(context.Background()))
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{HTTPTimeout: time.Second}, logrus.New())

	assert.False(t, client.Configured())
	_, err := client.GetMovies(context.Background())
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestGetMovie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/movie/7", r.URL.Path)
		w.Write([]byte(`{"id": 7, "title": "Heat", "year": 1995, "hasFile": true}`))
	})

	movie, err := client.GetMovie(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Heat", movie.Title)
	assert.True(t, movie.HasFile)
}
