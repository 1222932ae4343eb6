package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "simple endpoint no params",
			key: CacheKey{
				Endpoint: "/anime/5114/full",
			},
			want: "jikan:anime/5114/full",
		},
		{
			name: "endpoint with query params",
			key: CacheKey{
				Endpoint: "/top/anime",
				QueryParams: url.Values{
					"page": []string{"2"},
				},
			},
			want: "jikan:top/anime:page=2",
		},
		{
			name: "endpoint with multiple query params (sorted)",
			key: CacheKey{
				Endpoint: "/anime",
				QueryParams: url.Values{
					"sort":     []string{"desc"},
					"genres":   []string{"1"},
					"order_by": []string{"score"},
					"page":     []string{"1"},
				},
			},
			want: "jikan:anime:genres=1:order_by=score:page=1:sort=desc",
		},
		{
			name: "repeated query values",
			key: CacheKey{
				Endpoint: "/anime",
				QueryParams: url.Values{
					"genres": []string{"1", "2"},
				},
			},
			want: "jikan:anime:genres=1,2",
		},
		{
			name: "empty endpoint",
			key:  CacheKey{},
			want: "jikan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("CacheKey.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	key := CacheKey{
		Endpoint: "/anime",
		QueryParams: url.Values{
			"q":     []string{"frieren"},
			"page":  []string{"1"},
			"limit": []string{"25"},
		},
	}

	first := key.String()
	for i := 0; i < 50; i++ {
		if got := key.String(); got != first {
			t.Fatalf("CacheKey.String() not deterministic: %q vs %q", got, first)
		}
	}
}
