package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/jikan-client/internal/testutil"
	"github.com/Sternrassler/jikan-client/pkg/cache"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
	"github.com/rs/zerolog"
)

// newTestClient builds a client against the mock with short timings.
func newTestClient(t *testing.T, mock *testutil.MockJikan, modify ...func(*Config)) *Client {
	t.Helper()

	nop := zerolog.Nop()
	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.Throttle = ratelimit.NewThrottle(5*time.Millisecond, nop)
	cfg.Cache = cache.NewManager(cache.NewMemoryBackend(), time.Hour)
	cfg.Retry = fastRetryConfig()
	cfg.AttemptTimeout = 500 * time.Millisecond
	cfg.Logger = &nop
	for _, m := range modify {
		m(&cfg)
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		errorMsg string
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:     "empty base url",
			modify:   func(c *Config) { c.BaseURL = "" },
			errorMsg: "base url is required",
		},
		{
			name:     "relative base url",
			modify:   func(c *Config) { c.BaseURL = "api.jikan.moe/v4" },
			errorMsg: `invalid base url "api.jikan.moe/v4"`,
		},
		{
			name:     "empty user agent",
			modify:   func(c *Config) { c.UserAgent = "" },
			errorMsg: "user-agent is required",
		},
		{
			name:     "zero attempts",
			modify:   func(c *Config) { c.Retry.MaxAttempts = 0 },
			errorMsg: "retry config: max attempts must be >= 1 (got 0)",
		},
		{
			name:     "zero attempt timeout",
			modify:   func(c *Config) { c.AttemptTimeout = 0 },
			errorMsg: "attempt timeout must be > 0 (got 0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			client, err := New(cfg)

			if tt.errorMsg != "" {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client.Throttle() == nil {
				t.Error("client should own a throttle when none is injected")
			}
			if client.GetCache() != nil {
				t.Error("cache should be disabled when none is configured")
			}
		})
	}
}

func TestClient_GetAnimeByID(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/anime/5114/full", testutil.NewHealthyResponse(testutil.FMABFull))

	client := newTestClient(t, mock)

	entry, err := client.GetAnimeByID(context.Background(), 5114)
	if err != nil {
		t.Fatalf("GetAnimeByID() error = %v", err)
	}

	if entry.Title != "Fullmetal Alchemist: Brotherhood" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Episodes == nil || *entry.Episodes != 64 {
		t.Errorf("Episodes = %v, want 64", entry.Episodes)
	}
	if entry.Score == nil || *entry.Score != 9.09 {
		t.Errorf("Score = %v, want 9.09", entry.Score)
	}
	if len(entry.Genres) != 4 {
		t.Errorf("Genres = %d, want 4", len(entry.Genres))
	}

	// Idempotent: the second read is identical and served from cache
	again, err := client.GetAnimeByID(context.Background(), 5114)
	if err != nil {
		t.Fatalf("second GetAnimeByID() error = %v", err)
	}
	if again.Title != entry.Title || *again.Score != *entry.Score {
		t.Errorf("repeated fetch differs: %+v vs %+v", again, entry)
	}
	if got := mock.GetPathCount("/anime/5114/full"); got != 1 {
		t.Errorf("upstream requests = %d, want 1", got)
	}
}

func TestClient_Headers(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/top/anime", testutil.NewHealthyResponse(`{"data": []}`))

	client := newTestClient(t, mock, func(c *Config) { c.UserAgent = "AnimeHub/2.0" })

	if _, err := client.GetTopAnime(context.Background(), 1); err != nil {
		t.Fatalf("GetTopAnime() error = %v", err)
	}
	if got := mock.GetLastRequestHeader().Get("User-Agent"); got != "AnimeHub/2.0" {
		t.Errorf("User-Agent = %q", got)
	}
	if got := mock.GetLastRequestHeader().Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
}

type countingTransport struct {
	mu    sync.Mutex
	count int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return http.DefaultTransport.RoundTrip(req)
}

func TestClient_CustomHTTPClient(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/top/anime", testutil.NewHealthyResponse(`{"data": []}`))

	transport := &countingTransport{}
	client := newTestClient(t, mock, func(c *Config) {
		c.HTTPClient = &http.Client{Transport: transport}
	})

	if _, err := client.GetTopAnime(context.Background(), 1); err != nil {
		t.Fatalf("GetTopAnime() error = %v", err)
	}
	transport.mu.Lock()
	defer transport.mu.Unlock()
	if transport.count != 1 {
		t.Errorf("custom transport saw %d requests, want 1", transport.count)
	}
}

func TestClient_Get_Outcomes(t *testing.T) {
	tests := []struct {
		name         string
		responses    []testutil.MockJikanResponse
		wantErr      error
		wantAttempts int
		wantOutcome  Outcome
	}{
		{
			name:         "success first attempt",
			responses:    []testutil.MockJikanResponse{testutil.NewHealthyResponse(`{"data": {}}`)},
			wantAttempts: 1,
			wantOutcome:  OutcomeSuccess,
		},
		{
			name: "429 429 200 succeeds on third attempt",
			responses: []testutil.MockJikanResponse{
				testutil.NewRateLimitResponse(),
				testutil.NewRateLimitResponse(),
				testutil.NewHealthyResponse(`{"data": {}}`),
			},
			wantAttempts: 3,
			wantOutcome:  OutcomeSuccess,
		},
		{
			name:         "429 exhausts retries",
			responses:    []testutil.MockJikanResponse{testutil.NewRateLimitResponse()},
			wantErr:      ErrRateLimitExceeded,
			wantAttempts: 3,
			wantOutcome:  OutcomeRateLimited,
		},
		{
			name:         "5xx exhausts retries",
			responses:    []testutil.MockJikanResponse{testutil.NewServerErrorResponse()},
			wantErr:      ErrServerError,
			wantAttempts: 3,
			wantOutcome:  OutcomeServerError,
		},
		{
			name:         "404 fails without retry",
			responses:    []testutil.MockJikanResponse{testutil.NewNotFoundResponse()},
			wantErr:      ErrNotFound,
			wantAttempts: 1,
			wantOutcome:  OutcomeNotFound,
		},
		{
			name:         "400 fails without retry",
			responses:    []testutil.MockJikanResponse{{StatusCode: http.StatusBadRequest, Body: `{"message": "bad query"}`}},
			wantErr:      ErrClientError,
			wantAttempts: 1,
			wantOutcome:  OutcomeClientError,
		},
		{
			name: "timeout exhausts retries",
			responses: []testutil.MockJikanResponse{
				testutil.NewSlowResponse(`{"data": {}}`, 300*time.Millisecond),
			},
			wantErr:      ErrTimeoutExceeded,
			wantAttempts: 3,
			wantOutcome:  OutcomeTimeout,
		},
		{
			name: "timeout then success",
			responses: []testutil.MockJikanResponse{
				testutil.NewSlowResponse(`{"data": {}}`, 300*time.Millisecond),
				testutil.NewHealthyResponse(`{"data": {}}`),
			},
			wantAttempts: 2,
			wantOutcome:  OutcomeSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockJikan()
			defer mock.Close()
			mock.SetSequence("/anime/1/full", tt.responses...)

			client := newTestClient(t, mock, func(c *Config) {
				c.Cache = nil
				c.AttemptTimeout = 100 * time.Millisecond
			})

			resp, err := client.Get(context.Background(), "/anime/1/full", nil)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("error is not *APIError: %T", err)
				}
				if apiErr.Attempts != tt.wantAttempts {
					t.Errorf("APIError.Attempts = %d, want %d", apiErr.Attempts, tt.wantAttempts)
				}
				if !strings.Contains(apiErr.URL, "/anime/1/full") {
					t.Errorf("APIError.URL = %q", apiErr.URL)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if resp.Task.Attempts != tt.wantAttempts {
					t.Errorf("Task.Attempts = %d, want %d", resp.Task.Attempts, tt.wantAttempts)
				}
				if resp.Task.Outcome != tt.wantOutcome {
					t.Errorf("Task.Outcome = %q, want %q", resp.Task.Outcome, tt.wantOutcome)
				}
				if resp.Source != SourceLive {
					t.Errorf("Source = %q, want live", resp.Source)
				}
			}

			if got := mock.GetPathCount("/anime/1/full"); got != tt.wantAttempts {
				t.Errorf("upstream requests = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestClient_NotFoundZeroRetries(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()

	client := newTestClient(t, mock)

	_, err := client.GetAnimeByID(context.Background(), 999999999)
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if IsSoftFailure(err) {
		t.Error("not found must not be a soft failure")
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("upstream requests = %d, want 1", got)
	}
}

func TestClient_RetryCooldownsElapse(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetSequence("/top/anime",
		testutil.NewRateLimitResponse(),
		testutil.NewRateLimitResponse(),
		testutil.NewHealthyResponse(`{"data": []}`),
	)

	client := newTestClient(t, mock, func(c *Config) { c.Retry.RateLimitCooldown = 50 * time.Millisecond })

	start := time.Now()
	if _, err := client.GetTopAnime(context.Background(), 1); err != nil {
		t.Fatalf("GetTopAnime() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("elapsed = %v, want at least two 50ms cooldowns", elapsed)
	}
}

func TestClient_NetworkErrorNoRetry(t *testing.T) {
	mock := testutil.NewMockJikan()
	client := newTestClient(t, mock, func(c *Config) { c.Cache = nil })
	mock.Close()

	_, err := client.Get(context.Background(), "/anime/1/full", nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", apiErr.Attempts)
	}
}

func TestClient_CancelDuringCooldown(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/top/anime", testutil.NewServerErrorResponse())

	client := newTestClient(t, mock, func(c *Config) { c.Retry.ServerErrorCooldown = 5 * time.Second })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.GetTopAnime(ctx, 1)
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("error = %v, want ErrCanceled", err)
	}
	if IsSoftFailure(err) {
		t.Error("cancellation must not be a soft failure")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}

func TestClient_CacheHit(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/anime/5114/full", testutil.NewHealthyResponse(testutil.FMABFull))

	client := newTestClient(t, mock)
	ctx := context.Background()

	first, err := client.Get(ctx, "/anime/5114/full", nil)
	if err != nil {
		t.Fatalf("first Get() error = %v", err)
	}
	second, err := client.Get(ctx, "/anime/5114/full", nil)
	if err != nil {
		t.Fatalf("second Get() error = %v", err)
	}

	if first.Source != SourceLive || second.Source != SourceCache {
		t.Errorf("sources = %q, %q, want live, cache", first.Source, second.Source)
	}
	if second.Task.Attempts != 0 {
		t.Errorf("cache hit Attempts = %d, want 0", second.Task.Attempts)
	}
	if string(first.Body) != string(second.Body) {
		t.Error("cached body differs from live body")
	}
	if second.Header.Get("ETag") != `"test-etag-123"` {
		t.Errorf("cached ETag header = %q", second.Header.Get("ETag"))
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("upstream requests = %d, want 1", mock.GetRequestCount())
	}
}

// seedStale stores an expired entry for path.
func seedStale(t *testing.T, client *Client, path, etag, body string) {
	t.Helper()
	entry := &cache.CacheEntry{
		Data:       []byte(body),
		ETag:       etag,
		Expires:    time.Now().Add(-time.Minute),
		StatusCode: http.StatusOK,
		CachedAt:   time.Now().Add(-2 * time.Hour),
	}
	if err := client.GetCache().Set(context.Background(), cache.CacheKey{Endpoint: path}, entry); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
}

func TestClient_ConditionalRequest(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetHandler("/seasons/now", testutil.NewConditionalHandler(`"season-v1"`, `{"data": []}`))

	client := newTestClient(t, mock)
	seedStale(t, client, "/seasons/now", `"season-v1"`, `{"data": [{"mal_id": 1}]}`)

	resp, err := client.Get(context.Background(), "/seasons/now", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if mock.GetConditionalCount() != 1 {
		t.Errorf("conditional requests = %d, want 1", mock.GetConditionalCount())
	}
	if resp.Source != SourceCache {
		t.Errorf("Source = %q, want cache", resp.Source)
	}
	if string(resp.Body) != `{"data": [{"mal_id": 1}]}` {
		t.Errorf("Body = %s, want cached body", resp.Body)
	}

	// Revalidated entry is fresh again
	entry, err := client.GetCache().Get(context.Background(), cache.CacheKey{Endpoint: "/seasons/now"})
	if err != nil {
		t.Fatalf("revalidated entry not fresh: %v", err)
	}
	if entry.TTL() < 4*time.Minute {
		t.Errorf("revalidated TTL = %v", entry.TTL())
	}
}

func TestClient_ServeStale(t *testing.T) {
	tests := []struct {
		name       string
		serveStale bool
		response   testutil.MockJikanResponse
		wantSource Source
		wantErr    error
	}{
		{"stale on server error", true, testutil.NewServerErrorResponse(), SourceStale, nil},
		{"stale on rate limit", true, testutil.NewRateLimitResponse(), SourceStale, nil},
		{"disabled", false, testutil.NewServerErrorResponse(), "", ErrServerError},
		{"not found wins", true, testutil.NewNotFoundResponse(), "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockJikan()
			defer mock.Close()
			mock.SetResponse("/anime/21/full", tt.response)

			client := newTestClient(t, mock, func(c *Config) { c.ServeStale = tt.serveStale })
			seedStale(t, client, "/anime/21/full", "", `{"data": {"mal_id": 21, "title": "One Piece"}}`)

			resp, err := client.Get(context.Background(), "/anime/21/full", nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", resp.Source, tt.wantSource)
			}
			if resp.Task.Outcome == OutcomeSuccess {
				t.Error("stale serve must keep the failure outcome on the task")
			}
		})
	}
}

func TestClient_RandomBypassesCache(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/random/anime", testutil.NewHealthyResponse(testutil.FMABFull))

	client := newTestClient(t, mock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.GetRandomAnime(ctx); err != nil {
			t.Fatalf("GetRandomAnime() error = %v", err)
		}
	}
	if got := mock.GetPathCount("/random/anime"); got != 2 {
		t.Errorf("upstream requests = %d, want 2", got)
	}
}

func TestClient_ThrottleSpacing(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	for i := 1; i <= 4; i++ {
		mock.SetResponse(fmt.Sprintf("/anime/%d/full", i), testutil.NewHealthyResponse(`{"data": {}}`))
	}

	interval := 50 * time.Millisecond
	client := newTestClient(t, mock, func(c *Config) {
		c.Throttle = ratelimit.NewThrottle(interval, zerolog.Nop())
	})

	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := client.GetAnimeByID(context.Background(), id); err != nil {
				t.Errorf("GetAnimeByID(%d) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	times := mock.RequestTimes()
	if len(times) != 4 {
		t.Fatalf("requests = %d, want 4", len(times))
	}
	for i := 1; i < len(times); i++ {
		// Arrival jitter on loopback is well under 10ms
		if gap := times[i].Sub(times[i-1]); gap < interval-10*time.Millisecond {
			t.Errorf("gap %d = %v, want >= ~%v", i, gap, interval)
		}
	}
}

func TestClient_SharedThrottleCountsRetries(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetSequence("/top/anime", testutil.NewServerErrorResponse(), testutil.NewHealthyResponse(`{"data": []}`))

	throttle := ratelimit.NewThrottle(time.Millisecond, zerolog.Nop())
	client := newTestClient(t, mock, func(c *Config) { c.Throttle = throttle })

	if _, err := client.GetTopAnime(context.Background(), 1); err != nil {
		t.Fatalf("GetTopAnime() error = %v", err)
	}
	if got := throttle.State().Dispatches; got != 2 {
		t.Errorf("throttle dispatches = %d, want 2", got)
	}
}

func TestClient_FetchPage(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetHandler("/top/anime", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter") != "airing" {
			t.Errorf("filter query lost: %q", r.URL.RawQuery)
		}
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		w.Header().Set("Content-Type", "application/json")
		if page == "2" {
			w.Write([]byte(testutil.ListPage(2, 4, testutil.Entries(26, 25)...)))
			return
		}
		w.Write([]byte(testutil.ListPage(1, 4, testutil.Entries(1, 25)...)))
	})

	client := newTestClient(t, mock)

	body, last, err := client.FetchPage(context.Background(), "/top/anime", url.Values{"filter": {"airing"}, "page": {"9"}}, 2)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if last != 4 {
		t.Errorf("last page = %d, want 4", last)
	}
	if !strings.Contains(string(body), `"mal_id":26`) {
		t.Errorf("body is not page 2: %.80s", body)
	}
}

func TestClient_SearchQuery(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()

	var gotQuery url.Values
	mock.SetHandler("/anime", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(testutil.ListPage(1, 1, testutil.Entries(1, 3)...)))
	})

	client := newTestClient(t, mock)

	page, err := client.GetAnimeByGenre(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("GetAnimeByGenre() error = %v", err)
	}
	if len(page.Data) != 3 {
		t.Errorf("entries = %d, want 3", len(page.Data))
	}

	want := map[string]string{"genres": "10", "order_by": "score", "sort": "desc", "page": "2"}
	for k, v := range want {
		if gotQuery.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery.Get(k), v)
		}
	}
}

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/anime/5114/full", "/anime/{id}/full"},
		{"/top/anime", "/top/anime"},
		{"/seasons/2024/winter", "/seasons/{id}/winter"},
		{"/characters/417/full", "/characters/{id}/full"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := EndpointLabel(tt.path); got != tt.want {
				t.Errorf("EndpointLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestClient_BasePathStripped(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()
	mock.SetResponse("/v4/anime/1/full", testutil.NewHealthyResponse(`{"data": {"mal_id": 1}}`))

	client := newTestClient(t, mock, func(c *Config) { c.BaseURL = mock.URL() + "/v4/" })

	resp, err := client.Get(context.Background(), "anime/1/full", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.Task.Endpoint != "/anime/{id}/full" {
		t.Errorf("Task.Endpoint = %q", resp.Task.Endpoint)
	}
	if _, err := client.GetCache().Get(context.Background(), cache.CacheKey{Endpoint: "/anime/1/full"}); err != nil {
		t.Errorf("cache key should not include base path: %v", err)
	}
}

func TestClient_GetTopAiring(t *testing.T) {
	mock := testutil.NewMockJikan()
	defer mock.Close()

	var gotQuery url.Values
	mock.SetHandler("/top/anime", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(testutil.ListPage(1, 1, testutil.Entries(1, 2)...)))
	})

	client := newTestClient(t, mock)

	page, err := client.GetTopAiring(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetTopAiring() error = %v", err)
	}
	if len(page.Data) != 2 {
		t.Errorf("entries = %d, want 2", len(page.Data))
	}
	if gotQuery.Get("filter") != "airing" || gotQuery.Has("page") {
		t.Errorf("query = %v, want filter=airing without page", gotQuery)
	}
}
