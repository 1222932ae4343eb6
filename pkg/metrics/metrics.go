// Package metrics exposes the Prometheus registry of the Jikan client and
// the metrics that belong to no single package.
//
// Package-local metrics are registered via promauto where they are
// recorded (client, cache, ratelimit).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the Jikan client.
var Registry = prometheus.DefaultRegisterer

// ViewResolutions counts how page views resolved.
var ViewResolutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jikan_view_resolutions_total",
		Help: "Total number of view loads by view and resolved state",
	},
	[]string{"view", "state"},
)

// ObserveView records one resolved view.
func ObserveView(view, state string) {
	ViewResolutions.WithLabelValues(view, state).Inc()
}

// Handler serves every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Throttle Metrics (pkg/ratelimit):
//   - jikan_dispatches_total (Counter): Requests released by the throttle
//   - jikan_throttle_wait_seconds (Histogram): Time callers waited for a dispatch slot
//
// Cache Metrics (pkg/cache):
//   - jikan_cache_hits_total{layer} (Counter): Fresh cache hits by backend ("memory", "redis")
//   - jikan_cache_misses_total (Counter): Cache misses
//   - jikan_cache_stale_serves_total (Counter): Stale entries served after a failed request
//   - jikan_304_responses_total (Counter): 304 Not Modified responses
//   - jikan_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - jikan_cache_errors_total{operation} (Counter): Cache backend errors
//
// Request Metrics (pkg/client):
//   - jikan_requests_total{endpoint, status} (Counter): Attempts by endpoint label and HTTP status
//   - jikan_request_duration_seconds{endpoint} (Histogram): Attempt duration by endpoint label
//   - jikan_errors_total{class} (Counter): Failed attempts by error class
//
// Retry Metrics (pkg/client):
//   - jikan_retries_total{error_class} (Counter): Retries by error class
//   - jikan_retry_backoff_seconds{error_class} (Histogram): Cooldown before each retry
//   - jikan_retry_exhausted_total{error_class} (Counter): Requests that ran out of attempts
//
// View Metrics (this package, recorded by internal/views):
//   - jikan_view_resolutions_total{view, state} (Counter): Resolved view states
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(jikan_cache_hits_total[5m])) /
//   (sum(rate(jikan_cache_hits_total[5m])) + sum(rate(jikan_cache_misses_total[5m])))
//
//   # Share of views rendered from fallback data
//   sum(rate(jikan_view_resolutions_total{state="fallback"}[5m])) /
//   sum(rate(jikan_view_resolutions_total[5m]))
//
//   # Rate-limit pressure
//   rate(jikan_retries_total{error_class="rate_limit"}[5m])
//
//   # P95 Attempt Latency
//   histogram_quantile(0.95, rate(jikan_request_duration_seconds_bucket[5m]))
