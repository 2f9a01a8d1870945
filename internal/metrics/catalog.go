package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search paths.
const (
	PathIndex    = "index"
	PathFallback = "fallback"
)

// Outcome statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Catalog Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "starlet",
			Name:      "search_queries_total",
			Help:      "Search queries by kind and serving path",
		},
		[]string{"kind", "path"}, // path: "index" / "fallback"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "starlet",
			Name:      "search_duration_seconds",
			Help:      "Search latency including hydration",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind", "path"},
	)

	IndexSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "starlet",
			Name:      "index_sync_total",
			Help:      "Per-save search index updates",
		},
		[]string{"kind", "status"},
	)

	ReindexItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "starlet",
			Name:      "reindex_items_total",
			Help:      "Documents written by full reindex runs",
		},
		[]string{"kind", "status"},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers search and indexing metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(IndexSyncTotal)
	prometheus.MustRegister(ReindexItemsTotal)
	catalogMetricsRegistered = true
}
