package sonarr

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
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(&config.Config{
		SonarrHost:   server.URL,
		SonarrAPIKey: "key",
		HTTPTimeout:  5 * time.Second,
	}, logger)
}

func TestGetSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/series" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": 3, "title": "Breaking Bad", "year": 2008, "path": "/tv/Breaking Bad",
			"monitored": true, "tvdbId": 81189,
			"statistics": {"episodeCount": 62, "episodeFileCount": 40}}]`))
	})

	series, err := client.GetSeries(context.Background())
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(series))
	}

	s := series[0]
	if s.Kind != models.MediaTypeSeries || s.ID != 3 || s.Title != "Breaking Bad" {
		t.Errorf("Unexpected series %+v", s)
	}
	if s.EpisodeCount != 62 || s.EpisodeFileCount != 40 {
		t.Errorf("Statistics mismatch: %d/%d", s.EpisodeFileCount, s.EpisodeCount)
	}
	if s.ExternalIDs.TVDB != "81189" {
		t.Errorf("Expected TVDB id 81189, got %q", s.ExternalIDs.TVDB)
	}
}

func TestGetHistoryIncludesEpisodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("includeEpisode") != "true" || q.Get("pageSize") != "500" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"records": [
			{"seriesId": 3, "episodeId": 10, "downloadId": "HASH1",
			 "episode": {"seasonNumber": 2, "episodeNumber": 5}},
			{"seriesId": 3, "downloadId": "HASH2"}
		]}`))
	})

	records, err := client.GetHistory(context.Background(), 500)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Episode == nil || *records[0].Episode != (models.Episode{Season: 2, Number: 5}) {
		t.Errorf("Episode mismatch: %+v", records[0].Episode)
	}
	if records[1].Episode != nil {
		t.Errorf("Record without episode should have nil episode")
	}
	if records[0].MediaID != 3 || records[0].DownloadID != "HASH1" {
		t.Errorf("Record mismatch: %+v", records[0])
	}
}

func TestDeleteSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v3/series/3" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("deleteFiles") != "true" {
			t.Error("Expected deleteFiles=true")
		}
	})

	if err := client.DeleteSeries(context.Background(), 3); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{SonarrHost: "http://sonarr"}, logrus.New())
	if _, err := client.GetSeries(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestGetSeriesByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/series/9" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id": 9, "title": "Severance", "statistics": {"episodeCount": 19, "episodeFileCount": 19}}`))
	})

	series, err := client.GetSeriesByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetSeriesByID failed: %v", err)
	}
	if series.Title != "Severance" || series.EpisodeFileCount != 19 {
		t.Errorf("Unexpected series %+v", series)
	}
}
