package radarr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/mediacleanerr/internal/models"
)

// Movie is a movie record from the Radarr API
type Movie struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Path      string `json:"path"`
	Monitored bool   `json:"monitored"`
	HasFile   bool   `json:"hasFile"`
	TmdbID    int    `json:"tmdbId"`
	ImdbID    string `json:"imdbId"`
}

// ToMediaItem converts the API record into a library item
func (m Movie) ToMediaItem() models.MediaItem {
	tmdb := ""
	if m.TmdbID != 0 {
		tmdb = strconv.Itoa(m.TmdbID)
	}
	return models.MediaItem{
		ID:          m.ID,
		Kind:        models.MediaTypeMovie,
		Title:       m.Title,
		Year:        m.Year,
		Path:        m.Path,
		Monitored:   m.Monitored,
		HasFile:     m.HasFile,
		ExternalIDs: models.ExternalIDs{TMDB: tmdb, IMDB: m.ImdbID},
	}
}

// HistoryRecord is a history entry from the Radarr API
type HistoryRecord struct {
	MovieID    int    `json:"movieId"`
	DownloadID string `json:"downloadId"`
	EventType  string `json:"eventType"`
}

type historyPage struct {
	Page         int             `json:"page"`
	PageSize     int             `json:"pageSize"`
	TotalRecords int             `json:"totalRecords"`
	Records      []HistoryRecord `json:"records"`
}

// GetMovies retrieves every movie in the library
func (c *Client) GetMovies(ctx context.Context) ([]models.MediaItem, error) {
	var movies []Movie
	if err := c.doRequest(ctx, http.MethodGet, "/movie", nil, &movies); err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	items := make([]models.MediaItem, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movie.ToMediaItem())
	}
	return items, nil
}

// GetHistory retrieves up to pageSize history records, newest first
func (c *Client) GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortKey", "date")
	params.Set("sortDirection", "descending")

	var page historyPage
	if err := c.doRequest(ctx, http.MethodGet, "/history", params, &page); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	records := make([]models.HistoryRecord, 0, len(page.Records))
	for _, record := range page.Records {
		records = append(records, models.HistoryRecord{
			MediaID:    record.MovieID,
			DownloadID: record.DownloadID,
		})
	}
	return records, nil
}

// GetDiskSpace retrieves the storage volumes Radarr can see
func (c *Client) GetDiskSpace(ctx context.Context) ([]models.DiskSpace, error) {
	var disks []models.DiskSpace
	if err := c.doRequest(ctx, http.MethodGet, "/diskspace", nil, &disks); err != nil {
		return nil, fmt.Errorf("failed to get disk space: %w", err)
	}
	return disks, nil
}

// GetRootFolders retrieves the configured library root folders
func (c *Client) GetRootFolders(ctx context.Context) ([]models.RootFolder, error) {
	var folders []models.RootFolder
	if err := c.doRequest(ctx, http.MethodGet, "/rootfolder", nil, &folders); err != nil {
		return nil, fmt.Errorf("failed to get root folders: %w", err)
	}
	return folders, nil
}

// GetMovie retrieves a single movie by its Radarr id
func (c *Client) GetMovie(ctx context.Context, movieID int) (models.MediaItem, error) {
	var movie Movie
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/movie/%d", movieID), nil, &movie); err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to get movie %d: %w", movieID, err)
	}
	return movie.ToMediaItem(), nil
}

// DeleteMovie removes a movie and its files from Radarr
func (c *Client) DeleteMovie(ctx context.Context, movieID int) error {
	params := url.Values{}
	params.Set("deleteFiles", "true")

	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.doRequest(ctx, http.MethodDelete, path, params, nil); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", movieID, err)
	}

	c.logger.WithField("movie_id", movieID).Info("Deleted movie from Radarr")
	return nil
}
