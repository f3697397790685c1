package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dashboard Prometheus metrics.
var (
	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carelens",
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset load attempts",
		},
		[]string{"status"},
	)

	DatasetLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "carelens",
			Name:      "dataset_load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "carelens",
			Name:      "dataset_records",
			Help:      "Number of records loaded per source",
		},
		[]string{"source"},
	)

	StateUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carelens",
			Name:      "state_updates_total",
			Help:      "Total number of state updates",
		},
		[]string{"kind"}, // "selection" / "filter" / "mixed"
	)

	ViewBuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carelens",
			Name:      "view_build_duration_seconds",
			Help:      "View-model build duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"view"},
	)

	TopNCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carelens",
			Name:      "topn_cache_total",
			Help:      "Top-N key set cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "carelens",
			Name:      "subscribers",
			Help:      "Number of active frame subscribers",
		},
	)
)

var dashMetricsRegistered bool

// RegisterDashboardMetrics registers Prometheus dashboard metrics. Must be called once from main.
func RegisterDashboardMetrics() {
	if dashMetricsRegistered {
		return
	}
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadDuration)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(StateUpdatesTotal)
	prometheus.MustRegister(ViewBuildDuration)
	prometheus.MustRegister(TopNCacheTotal)
	prometheus.MustRegister(Subscribers)
	dashMetricsRegistered = true
}
