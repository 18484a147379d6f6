// Package metrics exposes Prometheus collectors for the preview service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	previewOutcomesTotal       *prometheus.CounterVec
	cacheOpsTotal              *prometheus.CounterVec
	cacheEntries               prometheus.Gauge
	fetchBytesTotal            prometheus.Counter
	fetchTruncationsTotal      prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		previewOutcomesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_outcomes_total",
				Help: "Total number of computed preview outcomes, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		cacheOpsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_cache_ops_total",
				Help: "Total number of cache operations, labeled by op (hit, miss, insert).",
			},
			[]string{"op"},
		)

		cacheEntries = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "preview_cache_entries",
				Help: "Number of entries currently held by the outcome cache.",
			},
		)

		fetchBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "preview_fetch_bytes_total",
				Help: "Total number of body bytes accepted by the bounded fetcher.",
			},
		)

		fetchTruncationsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "preview_fetch_truncations_total",
				Help: "Total number of fetches truncated at the byte cap.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePreview increments the outcome counter ("success" or "failure").
func ObservePreview(outcome string) {
	previewOutcomesTotal.WithLabelValues(outcome).Inc()
}

// ObserveCacheHit counts a lookup answered from the cache.
func ObserveCacheHit() {
	cacheOpsTotal.WithLabelValues("hit").Inc()
}

// ObserveCacheMiss counts a lookup that required a fresh computation.
func ObserveCacheMiss() {
	cacheOpsTotal.WithLabelValues("miss").Inc()
}

// ObserveCacheInsert counts a stored outcome.
func ObserveCacheInsert() {
	cacheOpsTotal.WithLabelValues("insert").Inc()
}

// SetCacheEntries records the current cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// ObserveFetch records the accepted body size and whether the cap was hit.
func ObserveFetch(bytes int, truncated bool) {
	if bytes > 0 {
		fetchBytesTotal.Add(float64(bytes))
	}
	if truncated {
		fetchTruncationsTotal.Inc()
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
