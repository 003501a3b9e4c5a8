// Package metrics exposes scan and collector health as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediacleanerr"

// Failure reasons reported by collectors
const (
	ReasonUnreachable   = "unreachable"
	ReasonNotConfigured = "not_configured"
)

// Manager owns the Prometheus registry and every application metric
type Manager struct {
	registry *prometheus.Registry

	collectorErrors  *prometheus.CounterVec
	collectorRecords *prometheus.GaugeVec
	mediaRows        prometheus.Gauge
	deletableRows    prometheus.Gauge
	diskUsage        prometheus.Gauge
	scanDuration     prometheus.Histogram
	deletions        *prometheus.CounterVec
}

// NewManager creates a registry with the Go and process collectors plus the application metrics
func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Manager{
		registry: registry,
		collectorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_errors_total",
			Help:      "Collector calls that degraded to an empty result",
		}, []string{"source", "reason"}),
		collectorRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collector_records",
			Help:      "Records returned by the last successful collector call",
		}, []string{"source", "fetch"}),
		mediaRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "media_rows",
			Help:      "Rows produced by the last scan",
		}),
		deletableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deletable_rows",
			Help:      "Rows flagged deletable by the last scan",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_usage_percent",
			Help:      "Used percentage of the selected media volume",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent collecting and aggregating one scan",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_total",
			Help:      "Deletion requests carried out",
		}, []string{"origin", "delete_type"}),
	}

	registry.MustRegister(
		m.collectorErrors,
		m.collectorRecords,
		m.mediaRows,
		m.deletableRows,
		m.diskUsage,
		m.scanDuration,
		m.deletions,
	)

	return m
}

// GetRegistry returns the underlying registry
func (m *Manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CollectorFailed counts a source that could not be fetched
func (m *Manager) CollectorFailed(source, reason string) {
	m.collectorErrors.WithLabelValues(source, reason).Inc()
}

// CollectorSucceeded records how many records one fetch returned
func (m *Manager) CollectorSucceeded(source, fetch string, records int) {
	m.collectorRecords.WithLabelValues(source, fetch).Set(float64(records))
}

// ObserveScan records the outcome of one scan. A nil diskPercent leaves the gauge untouched.
func (m *Manager) ObserveScan(rows, deletable int, diskPercent *float64, elapsed time.Duration) {
	m.mediaRows.Set(float64(rows))
	m.deletableRows.Set(float64(deletable))
	if diskPercent != nil {
		m.diskUsage.Set(*diskPercent)
	}
	m.scanDuration.Observe(elapsed.Seconds())
}

// DeletionPerformed counts an executed deletion
func (m *Manager) DeletionPerformed(origin, deleteType string) {
	m.deletions.WithLabelValues(origin, deleteType).Inc()
}
