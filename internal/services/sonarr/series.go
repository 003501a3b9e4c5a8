package sonarr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/mediacleanerr/internal/models"
)

// Series is a series record from the Sonarr API
type Series struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	Path       string `json:"path"`
	Monitored  bool   `json:"monitored"`
	TvdbID     int    `json:"tvdbId"`
	Statistics struct {
		EpisodeCount     int `json:"episodeCount"`
		EpisodeFileCount int `json:"episodeFileCount"`
	} `json:"statistics"`
}

// ToMediaItem converts the API record into a library item
func (s Series) ToMediaItem() models.MediaItem {
	tvdb := ""
	if s.TvdbID != 0 {
		tvdb = strconv.Itoa(s.TvdbID)
	}
	return models.MediaItem{
		ID:               s.ID,
		Kind:             models.MediaTypeSeries,
		Title:            s.Title,
		Year:             s.Year,
		Path:             s.Path,
		Monitored:        s.Monitored,
		EpisodeCount:     s.Statistics.EpisodeCount,
		EpisodeFileCount: s.Statistics.EpisodeFileCount,
		ExternalIDs:      models.ExternalIDs{TVDB: tvdb},
	}
}

// HistoryRecord is a history entry from the Sonarr API
type HistoryRecord struct {
	SeriesID   int    `json:"seriesId"`
	EpisodeID  int    `json:"episodeId"`
	DownloadID string `json:"downloadId"`
	EventType  string `json:"eventType"`
	Episode    *struct {
		SeasonNumber  int `json:"seasonNumber"`
		EpisodeNumber int `json:"episodeNumber"`
	} `json:"episode,omitempty"`
}

type historyPage struct {
	Page         int             `json:"page"`
	PageSize     int             `json:"pageSize"`
	TotalRecords int             `json:"totalRecords"`
	Records      []HistoryRecord `json:"records"`
}

// GetSeries retrieves every series in the library
func (c *Client) GetSeries(ctx context.Context) ([]models.MediaItem, error) {
	var series []Series
	if err := c.doRequest(ctx, http.MethodGet, "/series", nil, &series); err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	items := make([]models.MediaItem, 0, len(series))
	for _, s := range series {
		items = append(items, s.ToMediaItem())
	}
	return items, nil
}

// GetSeriesByID retrieves a single series by its Sonarr id
func (c *Client) GetSeriesByID(ctx context.Context, seriesID int) (models.MediaItem, error) {
	var series Series
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/series/%d", seriesID), nil, &series); err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to get series %d: %w", seriesID, err)
	}
	return series.ToMediaItem(), nil
}

// GetHistory retrieves up to pageSize history records with their episodes, newest first
func (c *Client) GetHistory(ctx context.Context, pageSize int) ([]models.HistoryRecord, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("includeEpisode", "true")
	params.Set("sortKey", "date")
	params.Set("sortDirection", "descending")

	var page historyPage
	if err := c.doRequest(ctx, http.MethodGet, "/history", params, &page); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	records := make([]models.HistoryRecord, 0, len(page.Records))
	for _, record := range page.Records {
		hr := models.HistoryRecord{
			MediaID:    record.SeriesID,
			DownloadID: record.DownloadID,
		}
		if record.Episode != nil {
			hr.Episode = &models.Episode{
				Season: record.Episode.SeasonNumber,
				Number: record.Episode.EpisodeNumber,
			}
		}
		records = append(records, hr)
	}
	return records, nil
}

// DeleteSeries removes a series and its files from Sonarr
func (c *Client) DeleteSeries(ctx context.Context, seriesID int) error {
	params := url.Values{}
	params.Set("deleteFiles", "true")

	path := fmt.Sprintf("/series/%d", seriesID)
	if err := c.doRequest(ctx, http.MethodDelete, path, params, nil); err != nil {
		return fmt.Errorf("failed to delete series %d: %w", seriesID, err)
	}

	c.logger.WithField("series_id", seriesID).Info("Deleted series from Sonarr")
	return nil
}
