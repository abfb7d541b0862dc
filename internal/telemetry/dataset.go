package telemetry

import (
	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// DatasetMetrics tracks the loaded address hierarchy and load outcomes.
type DatasetMetrics struct {
	entries      *prometheus.GaugeVec
	loadFailures *prometheus.CounterVec
	loads        prometheus.Counter
	lastLoad     prometheus.Gauge
}

// NewDatasetMetrics registers the dataset collectors on reg.
func NewDatasetMetrics(namespace string, reg prometheus.Registerer) *DatasetMetrics {
	if namespace == "" {
		namespace = "thaiaddress"
	}

	m := &DatasetMetrics{
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "dataset",
				Name:      "entries",
				Help:      "Number of distinct entries in the loaded address hierarchy",
			},
			[]string{"level"},
		),
		loadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dataset",
				Name:      "load_failures_total",
				Help:      "Failed dataset loads by error code",
			},
			[]string{"code"},
		),
		loads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dataset",
				Name:      "loads_total",
				Help:      "Successful dataset loads",
			},
		),
		lastLoad: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "dataset",
				Name:      "last_load_timestamp_seconds",
				Help:      "Unix time of the last successful dataset load",
			},
		),
	}

	reg.MustRegister(m.entries, m.loadFailures, m.loads, m.lastLoad)
	return m
}

// Observe records the outcome of one Load. On failure the gauges keep
// describing the previous hierarchy, which the store still serves.
func (m *DatasetMetrics) Observe(stats address.Stats, err error) {
	if err != nil {
		m.loadFailures.WithLabelValues(domain.ErrorCode(err)).Inc()
		CaptureError(err, map[string]any{"component": "dataset"})
		return
	}

	m.loads.Inc()
	m.lastLoad.SetToCurrentTime()
	m.entries.WithLabelValues("province").Set(float64(stats.Provinces))
	m.entries.WithLabelValues("district").Set(float64(stats.Districts))
	m.entries.WithLabelValues("sub_district").Set(float64(stats.SubDistricts))
	m.entries.WithLabelValues("zip_code").Set(float64(stats.ZipCodes))

	AddBreadcrumb("dataset", "address dataset loaded", map[string]any{
		"provinces":     stats.Provinces,
		"districts":     stats.Districts,
		"sub_districts": stats.SubDistricts,
		"zip_codes":     stats.ZipCodes,
	})
}
