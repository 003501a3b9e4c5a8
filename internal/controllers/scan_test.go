package controllers

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/amaumene/mediacleanerr/internal/config"
	"github.com/amaumene/mediacleanerr/internal/metrics"
	"github.com/amaumene/mediacleanerr/internal/models"
)

const day = int64(24 * 60 * 60)

func testConfig() *config.Config {
	return &config.Config{
		DiskThreshold:    90,
		MinSeedWeeks:     2,
		MinRatio:         1.0,
		HistoryPageSize:  250,
		DiskFallbackPath: "/media",
	}
}

type scanFixture struct {
	radarr  *fakeRadarr
	sonarr  *fakeSonarr
	qbit    *fakeQBit
	player  *fakePlayer
	metrics *metrics.Manager
}

func newScanFixture() *scanFixture {
	ids := models.ExternalIDs{TMDB: "603"}
	return &scanFixture{
		radarr: &fakeRadarr{
			fakeSource: fakeSource{name: "radarr", configured: true},
			movies: []models.MediaItem{{
				ID: 1, Kind: models.MediaTypeMovie, Title: "The Matrix", Path: "/media/movies/The Matrix",
				Monitored: true, HasFile: true, ExternalIDs: ids,
			}},
			history: []models.HistoryRecord{{MediaID: 1, DownloadID: "ABC"}},
			disks:   []models.DiskSpace{{Path: "/media", FreeSpace: 5, TotalSpace: 100}},
			folders: []models.RootFolder{{Path: "/media/movies"}},
		},
		sonarr: &fakeSonarr{fakeSource: fakeSource{name: "sonarr", configured: true}},
		qbit: &fakeQBit{
			fakeSource: fakeSource{name: "qbittorrent", configured: true},
			torrents: []models.Torrent{{
				Hash: "abc", Name: "The.Matrix", State: "uploading", Ratio: 2, SeedingTime: 30 * day,
			}},
		},
		player: &fakePlayer{
			fakeSource: fakeSource{name: "jellyfin", configured: true},
			items: [][]models.PlayerItem{{{
				ID: "jf", Type: models.ItemTypeMovie, ProviderIDs: ids, Played: true,
			}}},
		},
		metrics: metrics.NewManager(),
	}
}

func (f *scanFixture) controller(cfg *config.Config, db *models.Database) *ScanController {
	return NewScanController(cfg, db, f.radarr, f.sonarr, f.qbit, f.player, f.metrics, quietLogger())
}

func TestScanAggregatesAllSources(t *testing.T) {
	f := newScanFixture()
	result := f.controller(testConfig(), nil).Scan(context.Background())

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, []string{"abc"}, row.TorrentHashes)
	assert.True(t, row.Watched)
	assert.True(t, row.Deletable)
	require.NotNil(t, result.DiskUsage)
	assert.Equal(t, 95.0, result.DiskUsage.Percent)
	assert.Equal(t, 250, f.radarr.lastPageSize)

	expected := `
# HELP mediacleanerr_media_rows Rows produced by the last scan
# TYPE mediacleanerr_media_rows gauge
mediacleanerr_media_rows 1
# HELP mediacleanerr_deletable_rows Rows flagged deletable by the last scan
# TYPE mediacleanerr_deletable_rows gauge
mediacleanerr_deletable_rows 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.metrics.GetRegistry(), strings.NewReader(expected),
		"mediacleanerr_media_rows", "mediacleanerr_deletable_rows"))
}

func TestScanSoftFailsUnreachableSources(t *testing.T) {
	f := newScanFixture()
	f.qbit.err = errUnreachable
	f.player.err = errUnreachable

	result := f.controller(testConfig(), nil).Scan(context.Background())

	require.Len(t, result.Rows, 1, "library rows survive collector failures")
	row := result.Rows[0]
	assert.Empty(t, row.TorrentHashes)
	assert.False(t, row.Watched)
	assert.False(t, row.Deletable)
	assert.Equal(t, models.NotAvailable, row.TorrentState)

	expected := `
# HELP mediacleanerr_collector_errors_total Collector calls that degraded to an empty result
# TYPE mediacleanerr_collector_errors_total counter
mediacleanerr_collector_errors_total{reason="unreachable",source="jellyfin"} 1
mediacleanerr_collector_errors_total{reason="unreachable",source="qbittorrent"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.metrics.GetRegistry(), strings.NewReader(expected),
		"mediacleanerr_collector_errors_total"))
}

func TestScanSkipsUnconfiguredSources(t *testing.T) {
	f := newScanFixture()
	f.sonarr.configured = false
	f.sonarr.series = []models.MediaItem{{ID: 9, Kind: models.MediaTypeSeries, Title: "Hidden"}}

	result := f.controller(testConfig(), nil).Scan(context.Background())
	require.Len(t, result.Rows, 1)
	assert.Equal(t, models.OriginRadarr, result.Rows[0].Origin)

	expected := `
# HELP mediacleanerr_collector_errors_total Collector calls that degraded to an empty result
# TYPE mediacleanerr_collector_errors_total counter
mediacleanerr_collector_errors_total{reason="not_configured",source="sonarr"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(f.metrics.GetRegistry(), strings.NewReader(expected),
		"mediacleanerr_collector_errors_total"))
}

func TestScanUsesSavedPolicy(t *testing.T) {
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "scan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.SavePolicy(models.Policy{DiskThreshold: 99, MinSeedWeeks: 2, MinRatio: 1}))

	result := newScanFixture().controller(testConfig(), db).Scan(context.Background())
	assert.Equal(t, 99.0, result.Policy.DiskThreshold)
	require.Len(t, result.Rows, 1)
	assert.False(t, result.Rows[0].Criteria.Disk)
	assert.False(t, result.Rows[0].Deletable)
}

func TestSnapshotTracesEachFetch(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	f := newScanFixture()
	f.qbit.err = errUnreachable
	f.player.configured = false

	f.controller(testConfig(), nil).WithTracerProvider(tp).Snapshot(context.Background())

	status := map[string]codes.Code{}
	for _, span := range recorder.Ended() {
		status[span.Name()] = span.Status().Code
	}

	assert.Contains(t, status, "scan.snapshot")
	assert.Equal(t, codes.Unset, status["radarr.movies"])
	assert.Contains(t, status, "radarr.history")
	assert.Contains(t, status, "radarr.diskspace")
	assert.Contains(t, status, "sonarr.series")
	assert.Equal(t, codes.Error, status["qbittorrent.torrents"])
	assert.NotContains(t, status, "jellyfin.playstate", "unconfigured sources are not called")
}

func TestSavePolicy(t *testing.T) {
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "policy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := newScanFixture().controller(testConfig(), db)
	assert.Equal(t, testConfig().Policy(), ctrl.Policy())

	assert.Error(t, ctrl.SavePolicy(models.Policy{DiskThreshold: 101}))
	require.NoError(t, ctrl.SavePolicy(models.Policy{DiskThreshold: 80, MinSeedWeeks: 1, MinRatio: 2}))
	assert.Equal(t, models.Policy{DiskThreshold: 80, MinSeedWeeks: 1, MinRatio: 2}, ctrl.Policy())

	assert.Error(t, newScanFixture().controller(testConfig(), nil).SavePolicy(models.Policy{DiskThreshold: 80}))
}
