package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	lastMod := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	header := http.Header{
		"Expires":       []string{time.Now().Add(2 * time.Hour).Format(http.TimeFormat)},
		"Last-Modified": []string{lastMod.Format(http.TimeFormat)},
		"Etag":          []string{`"abc123"`},
		"Content-Type":  []string{"application/json"},
	}
	body := []byte(`{"data": {"mal_id": 1}}`)

	entry := NewEntry(http.StatusOK, header, body)

	if string(entry.Data) != string(body) {
		t.Errorf("Data = %q, want %q", entry.Data, body)
	}
	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if !entry.LastModified.Equal(lastMod) {
		t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", entry.StatusCode)
	}
	if ttl := entry.TTL(); ttl < 115*time.Minute {
		t.Errorf("TTL() = %v, want ~2h from Expires header", ttl)
	}

	// Entry must not alias the caller's buffer.
	body[0] = 'X'
	if entry.Data[0] == 'X' {
		t.Error("NewEntry shares the body buffer")
	}
}

func TestExpiresAt(t *testing.T) {
	tests := []struct {
		name   string
		header string
		minTTL time.Duration
		maxTTL time.Duration
	}{
		{
			name:   "missing header uses default",
			header: "",
			minTTL: DefaultTTL - time.Minute,
			maxTTL: DefaultTTL,
		},
		{
			name:   "malformed header uses default",
			header: "not a date",
			minTTL: DefaultTTL - time.Minute,
			maxTTL: DefaultTTL,
		},
		{
			name:   "past header uses default",
			header: time.Now().Add(-time.Hour).Format(http.TimeFormat),
			minTTL: DefaultTTL - time.Minute,
			maxTTL: DefaultTTL,
		},
		{
			name:   "future header honoured",
			header: time.Now().Add(10 * time.Minute).Format(http.TimeFormat),
			minTTL: 8 * time.Minute,
			maxTTL: 10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Expires", tt.header)
			}
			ttl := time.Until(ExpiresAt(h))
			if ttl < tt.minTTL || ttl > tt.maxTTL {
				t.Errorf("ttl = %v, want between %v and %v", ttl, tt.minTTL, tt.maxTTL)
			}
		})
	}
}

func TestShouldMakeConditionalRequest(t *testing.T) {
	tests := []struct {
		name  string
		entry *CacheEntry
		want  bool
	}{
		{"nil entry", nil, false},
		{"no validators", &CacheEntry{}, false},
		{"etag", &CacheEntry{ETag: `"x"`}, true},
		{"last modified", &CacheEntry{LastModified: time.Now()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldMakeConditionalRequest(tt.entry); got != tt.want {
				t.Errorf("ShouldMakeConditionalRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	t.Run("etag preferred", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "https://api.jikan.moe/v4/anime/1", nil)
		AddConditionalHeaders(req, &CacheEntry{ETag: `"abc"`, LastModified: time.Now()})

		if got := req.Header.Get("If-None-Match"); got != `"abc"` {
			t.Errorf("If-None-Match = %q", got)
		}
		if got := req.Header.Get("If-Modified-Since"); got != "" {
			t.Errorf("If-Modified-Since = %q, want empty", got)
		}
	})

	t.Run("last modified fallback", func(t *testing.T) {
		lastMod := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		req, _ := http.NewRequest(http.MethodGet, "https://api.jikan.moe/v4/anime/1", nil)
		AddConditionalHeaders(req, &CacheEntry{LastModified: lastMod})

		if got := req.Header.Get("If-Modified-Since"); got != lastMod.Format(http.TimeFormat) {
			t.Errorf("If-Modified-Since = %q", got)
		}
	})

	t.Run("nil safe", func(t *testing.T) {
		AddConditionalHeaders(nil, &CacheEntry{ETag: "x"})
		req, _ := http.NewRequest(http.MethodGet, "https://api.jikan.moe/v4/anime/1", nil)
		AddConditionalHeaders(req, nil)
		if len(req.Header) != 0 {
			t.Errorf("headers set for nil entry: %v", req.Header)
		}
	})
}
