// Package metrics provides Prometheus metrics for the digest pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// degradedFetchesTotal counts fetches that failed and were replaced by an empty result.
	// Labels:
	//   - unit: the degraded unit (e.g., "categories", "category_tasks", "follow_ups")
	degradedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdigest_degraded_fetches_total",
			Help: "Total number of upstream fetches that degraded to an empty result",
		},
		[]string{"unit"},
	)

	// cacheLookupsTotal counts TTL cache lookups.
	// Labels:
	//   - cache: cache name (e.g., "categories", "tasks")
	//   - result: "hit" or "miss"
	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskdigest_cache_lookups_total",
			Help: "Total number of TTL cache lookups",
		},
		[]string{"cache", "result"},
	)

	// upstreamRequestDuration records Taskmaster API latency.
	// Buckets: 50ms up to 60s, the longest per-call timeout.
	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskdigest_upstream_request_duration_seconds",
			Help:    "Duration of Taskmaster API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"endpoint", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(degradedFetchesTotal)
	prometheus.MustRegister(cacheLookupsTotal)
	prometheus.MustRegister(upstreamRequestDuration)
}

func RecordDegradedFetch(unit string) {
	degradedFetchesTotal.WithLabelValues(unit).Inc()
}

func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordUpstreamRequest records one Taskmaster call. outcome is "ok" or "error".
func RecordUpstreamRequest(endpoint, outcome string, durationSeconds float64) {
	upstreamRequestDuration.WithLabelValues(endpoint, outcome).Observe(durationSeconds)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
