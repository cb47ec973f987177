package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Index and service level metrics.
var (
	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_request_duration_seconds",
			Help:      "Index engine call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"engine", "operation"},
	)

	IndexErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_errors_total",
			Help:      "Total failed index engine calls",
		},
		[]string{"engine", "operation"},
	)

	SearchResultsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_total_hits",
			Help:      "Distribution of total hits per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
		},
	)

	SuggestionsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggestions_returned",
			Help:      "Number of titles returned per suggestion request",
			Buckets:   []float64{0, 1, 2, 5, 10},
		},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Response cache lookups",
		},
		[]string{"kind", "result"}, // kind: search/suggest, result: hit/miss/error
	)

	SeedDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_documents_total",
			Help:      "Documents written by the bulk loader",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(IndexRequestDuration)
	prometheus.MustRegister(IndexErrorsTotal)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(SuggestionsReturned)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(SeedDocumentsTotal)
}

// ObserveIndexCall records one engine call. Call it with the call's error.
func ObserveIndexCall(engine, operation string, start time.Time, err error) {
	IndexRequestDuration.WithLabelValues(engine, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		IndexErrorsTotal.WithLabelValues(engine, operation).Inc()
	}
}
