// Package testutil provides testing utilities for the Jikan client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockJikanResponse defines the behavior for a mock Jikan endpoint response.
type MockJikanResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockJikan is a configurable mock Jikan server for testing.
type MockJikan struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	pathCounts        map[string]int
	requestTimes      []time.Time
}

// NewMockJikan creates a new mock Jikan server. Paths are matched without
// the /v4 prefix, so clients use URL() as their base URL.
func NewMockJikan() *MockJikan {
	mock := &MockJikan{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.pathCounts[r.URL.Path]++
		mock.requestTimes = append(mock.requestTimes, time.Now())
		mock.LastRequestHeader = r.Header.Clone()

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockJikan) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockJikan) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockJikan) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.pathCounts = make(map[string]int)
	m.requestTimes = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockJikan) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockJikan) SetResponse(path string, resp MockJikanResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, r, resp)
	})
}

// SetSequence serves responses in order; the last one repeats once the
// sequence is used up.
func (m *MockJikan) SetSequence(path string, responses ...MockJikanResponse) {
	if len(responses) == 0 {
		return
	}
	var (
		mu   sync.Mutex
		next int
	)
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := responses[next]
		if next < len(responses)-1 {
			next++
		}
		mu.Unlock()
		writeResponse(w, r, resp)
	})
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp MockJikanResponse) {
	// Add delay if specified, giving up when the client does
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockJikan) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockJikan) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockJikan) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader.Clone()
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockJikan) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// RequestTimes returns the arrival time of every request, in order.
func (m *MockJikan) RequestTimes() []time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Time(nil), m.requestTimes...)
}

// defaultHandler answers unknown paths the way Jikan does.
func (m *MockJikan) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, `{"status": 404, "type": "BadResponseException", "message": "Resource does not exist", "error": "404 on %s"}`, r.URL.Path)
}

// NewHealthyResponse creates a standard 200 OK response with cache headers.
func NewHealthyResponse(data string) MockJikanResponse {
	return MockJikanResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Expires":      time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type": "application/json",
		},
	}
}

// NewNotModifiedResponse creates a 304 Not Modified response.
func NewNotModifiedResponse() MockJikanResponse {
	return MockJikanResponse{
		StatusCode: http.StatusNotModified,
		Headers: map[string]string{
			"Expires": time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewNotFoundResponse creates a 404 response with Jikan's error body.
func NewNotFoundResponse() MockJikanResponse {
	return MockJikanResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"status": 404, "type": "BadResponseException", "message": "Resource does not exist"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockJikanResponse {
	return MockJikanResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"status": 429, "type": "RateLimitException", "message": "You are being rate-limited."}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockJikanResponse {
	return MockJikanResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"status": 500, "type": "InternalException", "message": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewSlowResponse creates a 200 response delivered after delay.
func NewSlowResponse(data string, delay time.Duration) MockJikanResponse {
	resp := NewHealthyResponse(data)
	resp.Delay = delay
	return resp
}

// NewConditionalHandler creates a handler that responds with 304 for conditional requests.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}

// FMABFull is the /anime/5114/full payload trimmed to the fields the client decodes.
const FMABFull = `{
  "data": {
    "mal_id": 5114,
    "url": "https://myanimelist.net/anime/5114/Fullmetal_Alchemist__Brotherhood",
    "images": {
      "jpg": {"image_url": "https://cdn.myanimelist.net/images/anime/1208/94745.jpg"},
      "webp": {"image_url": "https://cdn.myanimelist.net/images/anime/1208/94745.webp"}
    },
    "title": "Fullmetal Alchemist: Brotherhood",
    "title_english": "Fullmetal Alchemist: Brotherhood",
    "title_japanese": "鋼の錬金術師 FULLMETAL ALCHEMIST",
    "type": "TV",
    "episodes": 64,
    "status": "Finished Airing",
    "airing": false,
    "score": 9.09,
    "rank": 1,
    "popularity": 3,
    "synopsis": "After a horrific alchemy experiment goes wrong in the Elric household, brothers Edward and Alphonse are left in a catastrophic new reality.",
    "year": 2009,
    "genres": [
      {"mal_id": 1, "type": "anime", "name": "Action"},
      {"mal_id": 2, "type": "anime", "name": "Adventure"},
      {"mal_id": 8, "type": "anime", "name": "Drama"},
      {"mal_id": 10, "type": "anime", "name": "Fantasy"}
    ]
  }
}`

// ListEntry is a minimal anime record for list fixtures.
type ListEntry struct {
	ID    int     `json:"mal_id"`
	Title string  `json:"title"`
	Score float64 `json:"score,omitempty"`
}

// ListPage renders a paginated list body.
func ListPage(current, last int, entries ...ListEntry) string {
	body := map[string]any{
		"data": entries,
		"pagination": map[string]any{
			"last_visible_page": last,
			"has_next_page":     current < last,
			"current_page":      current,
			"items": map[string]int{
				"count":    len(entries),
				"total":    len(entries) * last,
				"per_page": 25,
			},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Entries builds n list entries with ids starting at first.
func Entries(first, n int) []ListEntry {
	entries := make([]ListEntry, n)
	for i := range entries {
		entries[i] = ListEntry{ID: first + i, Title: fmt.Sprintf("Anime %d", first+i), Score: 8.0}
	}
	return entries
}
