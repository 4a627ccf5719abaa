package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plotmatch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plotmatch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plotmatch",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plotmatch",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plotmatch",
			Name:      "index_searches_total",
			Help:      "Total vector index search requests",
		},
		[]string{"status"},
	)

	IndexSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plotmatch",
			Name:      "index_search_duration_seconds",
			Help:      "Vector index search duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	MetadataLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plotmatch",
			Name:      "metadata_lookups_total",
			Help:      "Total metadata lookups by outcome",
		},
		[]string{"result"}, // "found" / "miss" / "error"
	)

	MetadataLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plotmatch",
			Name:      "metadata_lookup_duration_seconds",
			Help:      "Metadata lookup duration in seconds (both steps)",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingErrorsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(IndexSearchesTotal)
	prometheus.MustRegister(IndexSearchDuration)
	prometheus.MustRegister(MetadataLookupsTotal)
	prometheus.MustRegister(MetadataLookupDuration)
	pipelineMetricsRegistered = true
}
