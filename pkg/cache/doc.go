// Package cache keeps Jikan responses so repeated page loads do not spend the
// upstream rate budget.
//
// Entries are fresh until the upstream Expires header (or DefaultTTL, one
// hour, matching the site's hourly revalidation). After that they stay in
// the backend for a configurable stale window, during which the client
//
//   - revalidates them with conditional requests (If-None-Match or
//     If-Modified-Since) and keeps the body on 304 Not Modified;
//   - serves them when the live request fails softly and stale serving is
//     enabled.
//
// # Backends
//
// A Manager stores entries in a Backend. Two are provided:
//
//	// In-process, lost on restart
//	manager := cache.NewManager(cache.NewMemoryBackend(), 24*time.Hour)
//
//	// Shared between replicas
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(cache.NewRedisBackend(redisClient), 24*time.Hour)
//
// # Keys
//
//	key := cache.CacheKey{
//		Endpoint:    "/top/anime",
//		QueryParams: url.Values{"page": []string{"1"}, "limit": []string{"25"}},
//	}
//	key.String() // jikan:top/anime:limit=25:page=1
//
// # Metrics
//
//   - jikan_cache_hits_total{layer} - fresh hits per backend
//   - jikan_cache_misses_total - misses
//   - jikan_cache_stale_serves_total - stale entries served after a failure
//   - jikan_304_responses_total - revalidations answered with 304
//   - jikan_conditional_requests_total - conditional requests sent
//   - jikan_cache_errors_total{operation} - backend errors
package cache
