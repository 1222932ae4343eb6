// Package client provides the Jikan HTTP client with request pacing, retries,
// per-attempt timeouts, response caching and stale fallback.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/cache"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for Jikan client operations.
var (
	jikanRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_requests_total",
		Help: "Total Jikan requests by endpoint and status",
	}, []string{"endpoint", "status"})

	jikanRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jikan_request_duration_seconds",
		Help:    "Jikan request duration in seconds by endpoint, retries included",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	jikanErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_errors_total",
		Help: "Total failed Jikan attempts by error class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the public Jikan v4 API.
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// DefaultUserAgent identifies the client when none is configured.
	DefaultUserAgent = "jikan-client/1.0"

	// DefaultAttemptTimeout bounds a single attempt, body read included.
	DefaultAttemptTimeout = 10 * time.Second
)

// Source tells where a Response body came from.
type Source string

const (
	// SourceLive is a fresh upstream response.
	SourceLive Source = "live"

	// SourceCache is a fresh cache entry or a 304-revalidated one.
	SourceCache Source = "cache"

	// SourceStale is an expired cache entry served because upstream failed.
	SourceStale Source = "stale"
)

// Response is a fully read upstream (or cached) response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Source     Source
	Task       *FetchTask
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, without trailing slash.
	BaseURL string

	// UserAgent header sent with every attempt.
	UserAgent string

	// HTTPClient is used for attempts. Its own Timeout should be zero or
	// longer than AttemptTimeout.
	HTTPClient *http.Client

	// Throttle paces every network attempt. Clients sharing a Throttle share
	// one request budget. Nil creates a private throttle at the default interval.
	Throttle *ratelimit.Throttle

	// Cache stores successful responses. Nil disables caching.
	Cache *cache.Manager

	// Retry policy.
	Retry RetryConfig

	// AttemptTimeout bounds a single attempt.
	AttemptTimeout time.Duration

	// ServeStale returns an expired cache entry instead of a soft failure.
	ServeStale bool

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		Retry:          DefaultRetryConfig(),
		AttemptTimeout: DefaultAttemptTimeout,
		ServeStale:     true,
	}
}

// Client is the Jikan client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	throttle   *ratelimit.Throttle
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a new Jikan client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if err := cfg.Retry.Validate(); err != nil {
		return nil, fmt.Errorf("retry config: %w", err)
	}

	if cfg.AttemptTimeout <= 0 {
		return nil, fmt.Errorf("attempt timeout must be > 0 (got %s)", cfg.AttemptTimeout)
	}

	logger := logging.NewLogger("jikan-client")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	throttle := cfg.Throttle
	if throttle == nil {
		throttle = ratelimit.NewThrottle(ratelimit.DefaultInterval, logger)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		throttle:   throttle,
		cache:      cfg.Cache,
		config:     cfg,
		logger:     logger,
	}, nil
}

// attemptResult is one fully read upstream response.
type attemptResult struct {
	statusCode int
	header     http.Header
	body       []byte
}

// Do performs a request with pacing, caching, retries and stale fallback.
// The request context bounds the whole call, cooldowns included.
func (c *Client) Do(req *http.Request) (*Response, error) {
	ctx := req.Context()
	path := c.relativePath(req.URL.Path)
	endpoint := EndpointLabel(path)
	task := newTask(req.URL.String(), endpoint)

	startTime := time.Now()
	defer func() {
		jikanRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	logger := c.logger.With().
		Str("endpoint", endpoint).
		Str("task_id", task.ID.String()).
		Logger()

	// Step 1: Check Cache
	cacheKey := cache.CacheKey{Endpoint: path, QueryParams: req.URL.Query()}
	var cachedEntry *cache.CacheEntry
	if c.cacheable(req, path) {
		entry, err := c.cache.Lookup(ctx, cacheKey)
		switch {
		case err == nil && !entry.IsExpired():
			cache.CacheHits.WithLabelValues(c.cache.Layer()).Inc()
			jikanRequestsTotal.WithLabelValues(endpoint, "cache").Inc()
			logger.Debug().Dur("ttl", entry.TTL()).Msg("Cache hit")
			task.finish(OutcomeSuccess)
			return entryToResponse(entry, SourceCache, task), nil
		case err == nil:
			cachedEntry = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			logger.Warn().Err(err).Msg("Cache get error")
		}
	}

	// Step 2: Execute with retry, one throttle slot per attempt
	var result *attemptResult
	attempts, err := retryWithBackoff(ctx, c.config.Retry, logger, func(attempt int) error {
		task.Attempts = attempt
		res, attemptErr := c.attempt(ctx, req, cachedEntry, endpoint, logger)
		if attemptErr != nil {
			return attemptErr
		}
		result = res
		return nil
	})
	task.Attempts = attempts

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.URL == "" {
			apiErr.URL = req.URL.String()
		}

		// Step 3: Serve stale on soft failure
		if c.config.ServeStale && cachedEntry != nil && IsSoftFailure(err) {
			cache.StaleServes.Inc()
			logger.Warn().
				Err(err).
				Dur("age", cachedEntry.Age()).
				Msg("Serving stale cache entry")
			task.finish(outcomeFor(ClassOf(err)))
			return entryToResponse(cachedEntry, SourceStale, task), nil
		}

		task.finish(outcomeFor(ClassOf(err)))
		return nil, err
	}

	task.finish(OutcomeSuccess)

	// Step 4: Handle 304 Not Modified
	if result.statusCode == http.StatusNotModified {
		cache.NotModifiedResponses.Inc()
		logger.Debug().Msg("304 Not Modified - using cache")

		cachedEntry.Expires = cache.ExpiresAt(result.header)
		if err := c.cache.Set(ctx, cacheKey, cachedEntry); err != nil {
			logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}
		return entryToResponse(cachedEntry, SourceCache, task), nil
	}

	// Step 5: Update Cache on success
	if c.cacheable(req, path) && result.statusCode == http.StatusOK {
		entry := cache.NewEntry(result.statusCode, result.header, result.body)
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			logger.Debug().Dur("ttl", entry.TTL()).Msg("Cached response")
		}
	}

	return &Response{
		StatusCode: result.statusCode,
		Header:     result.header,
		Body:       result.body,
		Source:     SourceLive,
		Task:       task,
	}, nil
}

// attempt runs one throttled request under its own deadline and reads the
// body before returning.
func (c *Client) attempt(ctx context.Context, req *http.Request, cachedEntry *cache.CacheEntry, endpoint string, logger zerolog.Logger) (*attemptResult, error) {
	if _, err := c.throttle.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, &APIError{ErrorClass: ErrorClassCanceled, Message: "cancelled while throttled", Err: ctx.Err()}
		}
		return nil, &APIError{ErrorClass: ErrorClassNetwork, Message: "dispatch refused", Err: err}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.AttemptTimeout)
	defer cancel()

	r := req.Clone(attemptCtx)
	r.Header.Set("User-Agent", c.config.UserAgent)
	r.Header.Set("Accept", "application/json")
	if cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(r, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		logger.Debug().Str("etag", cachedEntry.ETag).Msg("Making conditional request")
	}

	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err, logger)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, err, logger)
	}

	status := strconv.Itoa(resp.StatusCode)
	jikanRequestsTotal.WithLabelValues(endpoint, status).Inc()

	switch {
	case resp.StatusCode == http.StatusNotModified && cachedEntry != nil:
		return &attemptResult{statusCode: resp.StatusCode, header: resp.Header}, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return &attemptResult{statusCode: resp.StatusCode, header: resp.Header, body: body}, nil
	}

	errClass := classifyStatus(resp.StatusCode)
	jikanErrorsTotal.WithLabelValues(string(errClass)).Inc()
	logger.Warn().
		Int("status", resp.StatusCode).
		Str("error_class", string(errClass)).
		Msg("Jikan request error")

	return nil, &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: errClass,
		Message:    errorMessage(resp, body),
		URL:        req.URL.String(),
	}
}

// transportError classifies a failure that produced no usable response.
// Parent cancellation wins over the attempt deadline.
func (c *Client) transportError(ctx context.Context, endpoint string, err error, logger zerolog.Logger) error {
	errClass := ErrorClassNetwork
	var netErr net.Error
	switch {
	case ctx.Err() != nil:
		errClass = ErrorClassCanceled
		err = ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		errClass = ErrorClassTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		errClass = ErrorClassTimeout
	}

	jikanErrorsTotal.WithLabelValues(string(errClass)).Inc()
	jikanRequestsTotal.WithLabelValues(endpoint, string(errClass)).Inc()
	if errClass != ErrorClassCanceled {
		logger.Warn().Err(err).Str("error_class", string(errClass)).Msg("HTTP request failed")
	}

	return &APIError{ErrorClass: errClass, Err: err}
}

// classifyStatus categorizes a failed HTTP status.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusNotFound:
		return ErrorClassNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// errorMessage extracts the upstream error message, falling back to the status text.
func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return resp.Status
}

// cacheable reports whether a request may be served from or stored in cache.
// Random endpoints must never repeat an answer.
func (c *Client) cacheable(req *http.Request, path string) bool {
	return c.cache != nil &&
		req.Method == http.MethodGet &&
		!strings.HasPrefix(path, "/random/")
}

// relativePath strips the base URL path, so "/v4/anime/1" becomes "/anime/1".
func (c *Client) relativePath(path string) string {
	rel := strings.TrimPrefix(path, c.baseURL.Path)
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return rel
}

// EndpointLabel replaces numeric path segments with {id} so metric labels
// stay bounded: "/anime/5114/full" becomes "/anime/{id}/full".
func EndpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func entryToResponse(entry *cache.CacheEntry, source Source, task *FetchTask) *Response {
	statusCode := entry.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	header := entry.Headers.Clone()
	if header == nil {
		header = http.Header{}
	}
	return &Response{
		StatusCode: statusCode,
		Header:     header,
		Body:       entry.Data,
		Source:     source,
		Task:       task,
	}
}

// Get performs a GET request to an endpoint below the base URL.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	target := c.baseURL.String() + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// GetJSON performs a GET request and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, v any) (*Response, error) {
	resp, err := c.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return resp, fmt.Errorf("decode %s: %w", EndpointLabel(endpoint), err)
	}
	return resp, nil
}

// Throttle returns the throttle pacing this client.
func (c *Client) Throttle() *ratelimit.Throttle {
	return c.throttle
}

// GetCache returns the cache manager, or nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
