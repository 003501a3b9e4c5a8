package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorMetrics(t *testing.T) {
	m := NewManager()

	m.CollectorFailed("radarr", ReasonUnreachable)
	m.CollectorFailed("radarr", ReasonUnreachable)
	m.CollectorFailed("jellyfin", ReasonNotConfigured)
	m.CollectorSucceeded("sonarr", "series", 12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.collectorErrors.WithLabelValues("radarr", ReasonUnreachable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.collectorErrors.WithLabelValues("jellyfin", ReasonNotConfigured)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.collectorRecords.WithLabelValues("sonarr", "series")))
}

func TestObserveScan(t *testing.T) {
	m := NewManager()

	percent := 91.5
	m.ObserveScan(10, 3, &percent, 2*time.Second)
	assert.Equal(t, 10.0, testutil.ToFloat64(m.mediaRows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.deletableRows))
	assert.Equal(t, 91.5, testutil.ToFloat64(m.diskUsage))

	m.ObserveScan(4, 0, nil, time.Second)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.mediaRows))
	assert.Equal(t, 91.5, testutil.ToFloat64(m.diskUsage), "unknown disk usage keeps the last value")
	assert.Equal(t, 1, testutil.CollectAndCount(m.scanDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.DeletionPerformed("Radarr", "media")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mediacleanerr_deletions_total{delete_type="media",origin="Radarr"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
