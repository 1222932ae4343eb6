package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh cache hits by backend layer ("memory", "redis")
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_cache_hits_total",
			Help: "Total number of fresh Jikan cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_cache_misses_total",
			Help: "Total number of Jikan cache misses",
		},
	)

	// StaleServes tracks stale entries served in place of a failed live request
	StaleServes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_cache_stale_serves_total",
			Help: "Total number of stale cache entries served after a failed request",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_304_responses_total",
			Help: "Total number of Jikan 304 Not Modified responses",
		},
	)

	// ConditionalRequestsSent tracks revalidation requests
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_conditional_requests_total",
			Help: "Total number of conditional requests sent to Jikan",
		},
	)

	// CacheEvictions tracks items dropped from the in-process backend: expired
	// ones on access or sweep, and live ones pushed out at capacity
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jikan_cache_evictions_total",
			Help: "Total number of items removed from the in-memory cache",
		},
	)

	// CacheErrors tracks backend errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jikan_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
