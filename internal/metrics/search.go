package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and embedding Prometheus metrics. Registered explicitly from
// the composition root (no init()).
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "searches_total",
			Help:      "Total number of searches by tenant and outcome",
		},
		[]string{"domain", "status"},
	)

	SearchMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simsearch",
			Name:      "search_matches",
			Help:      "Ranked matches returned per search",
			Buckets:   []float64{0, 1, 5, 10, 15, 20, 25},
		},
		[]string{"domain"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simsearch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simsearch",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterSearchMetrics registers all search and embedding metrics.
func RegisterSearchMetrics() {
	prometheus.MustRegister(
		SearchesTotal,
		SearchMatches,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingCacheTotal,
	)
}
