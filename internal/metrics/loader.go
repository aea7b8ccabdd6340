package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const loaderNamespace = "geofeed_loader"

// Failure reasons recorded by the loader.
const (
	ReasonInvalidRow = "invalid_row"
	ReasonBatchError = "batch_error"
)

// LoaderMetrics tracks batch loader progress per dataset.
type LoaderMetrics struct {
	RowsLoaded    *prometheus.CounterVec
	RowsFailed    *prometheus.CounterVec
	BatchesTotal  *prometheus.CounterVec
	BatchDuration *prometheus.HistogramVec
	LastRunRows   *prometheus.GaugeVec
}

// NewLoaderMetrics creates the loader metrics and registers them on reg.
func NewLoaderMetrics(reg prometheus.Registerer) *LoaderMetrics {
	m := &LoaderMetrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: loaderNamespace,
			Name:      "rows_loaded_total",
			Help:      "Total rows written to the store",
		}, []string{"dataset"}),

		RowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: loaderNamespace,
			Name:      "rows_failed_total",
			Help:      "Total rows skipped or rejected",
		}, []string{"dataset", "reason"}),

		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: loaderNamespace,
			Name:      "batches_total",
			Help:      "Total insert batches sent",
		}, []string{"dataset"}),

		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: loaderNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Insert batch duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),

		LastRunRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: loaderNamespace,
			Name:      "last_run_rows",
			Help:      "Rows loaded by the most recent run",
		}, []string{"dataset"}),
	}

	reg.MustRegister(m.RowsLoaded, m.RowsFailed, m.BatchesTotal, m.BatchDuration, m.LastRunRows)
	return m
}
