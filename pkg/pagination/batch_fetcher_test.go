package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
)

type fakeFetcher struct {
	mu       sync.Mutex
	last     int
	failPage int
	delay    time.Duration
	calls    []int
	query    url.Values
}

func (f *fakeFetcher) FetchPage(ctx context.Context, endpoint string, query url.Values, pageNum int) ([]byte, int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageNum)
	f.query = query
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if pageNum == f.failPage {
		return nil, 0, fmt.Errorf("page %d: upstream server error", pageNum)
	}
	body := fmt.Sprintf(`{"data": [{"mal_id": %d, "title": "Anime %d"}], "pagination": {"last_visible_page": %d}}`, pageNum, pageNum, f.last)
	return []byte(body), f.last, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestNewBatchFetcher_Defaults(t *testing.T) {
	bf := NewBatchFetcher(&fakeFetcher{}, Config{MaxPages: -1})
	if bf.config.MaxConcurrency != 2 {
		t.Errorf("MaxConcurrency = %d, want 2", bf.config.MaxConcurrency)
	}
	if bf.config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", bf.config.Timeout)
	}
	if bf.config.MaxPages != 0 {
		t.Errorf("MaxPages = %d, want 0", bf.config.MaxPages)
	}
}

func TestFetchAllPages(t *testing.T) {
	tests := []struct {
		name      string
		last      int
		maxPages  int
		failPage  int
		wantPages int
		wantErr   bool
		wantCalls int
	}{
		{name: "single page", last: 1, wantPages: 1, wantCalls: 1},
		{name: "all pages", last: 4, wantPages: 4, wantCalls: 4},
		{name: "capped at max pages", last: 40, maxPages: 4, wantPages: 4, wantCalls: 4},
		{name: "first page fails", last: 4, failPage: 1, wantPages: 0, wantErr: true, wantCalls: 1},
		{name: "last page fails keeps prefix", last: 4, failPage: 4, wantPages: 3, wantErr: true},
		{name: "second page fails keeps first", last: 4, failPage: 2, wantPages: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{last: tt.last, failPage: tt.failPage}
			bf := NewBatchFetcher(fetcher, Config{MaxConcurrency: 1, MaxPages: tt.maxPages})

			pages, err := bf.FetchAllPages(context.Background(), "/top/anime", nil)

			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(pages) != tt.wantPages {
				t.Fatalf("pages = %d, want %d", len(pages), tt.wantPages)
			}
			for i, raw := range pages {
				want := fmt.Sprintf(`"mal_id": %d`, i+1)
				if !strings.Contains(string(raw), want) {
					t.Errorf("pages[%d] is not page %d: %s", i, i+1, raw)
				}
			}
			if tt.wantCalls > 0 && fetcher.callCount() != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", fetcher.callCount(), tt.wantCalls)
			}
		})
	}
}

func TestFetchAllPages_StopsAfterFailure(t *testing.T) {
	fetcher := &fakeFetcher{last: 10, failPage: 2}
	bf := NewBatchFetcher(fetcher, Config{MaxConcurrency: 1})

	pages, err := bf.FetchAllPages(context.Background(), "/top/anime", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(pages) != 1 {
		t.Errorf("pages = %d, want 1", len(pages))
	}
	// Page 1 and the failing page 2; nothing scheduled after the failure
	if fetcher.callCount() != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.callCount())
	}
}

func TestFetchAllPages_ParallelOrder(t *testing.T) {
	fetcher := &fakeFetcher{last: 6, delay: 5 * time.Millisecond}
	bf := NewBatchFetcher(fetcher, Config{MaxConcurrency: 3})

	pages, err := bf.FetchAllPages(context.Background(), "/top/anime", url.Values{"filter": {"airing"}})
	if err != nil {
		t.Fatalf("FetchAllPages() error = %v", err)
	}

	entries, err := DecodeEntries[catalog.Entry](pages)
	if err != nil {
		t.Fatalf("DecodeEntries() error = %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("entries = %d, want 6", len(entries))
	}
	for i, e := range entries {
		if e.ID != i+1 {
			t.Errorf("entries[%d].ID = %d, want %d", i, e.ID, i+1)
		}
	}
	if fetcher.query.Get("filter") != "airing" {
		t.Errorf("query not forwarded: %v", fetcher.query)
	}
}

func TestFetchAllPages_OnPage(t *testing.T) {
	var (
		mu    sync.Mutex
		calls [][2]int
	)
	bf := NewBatchFetcher(&fakeFetcher{last: 3}, Config{
		MaxConcurrency: 2,
		OnPage: func(fetched, total int) {
			mu.Lock()
			calls = append(calls, [2]int{fetched, total})
			mu.Unlock()
		},
	})

	if _, err := bf.FetchAllPages(context.Background(), "/top/anime", nil); err != nil {
		t.Fatalf("FetchAllPages() error = %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("OnPage calls = %d, want 3", len(calls))
	}
	for i, c := range calls {
		if c[0] != i+1 || c[1] != 3 {
			t.Errorf("OnPage call %d = %v, want [%d 3]", i, c, i+1)
		}
	}
}

func TestFetchAllPages_ContextCancelled(t *testing.T) {
	fetcher := &fakeFetcher{last: 5, delay: 50 * time.Millisecond}
	bf := NewBatchFetcher(fetcher, Config{MaxConcurrency: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 75*time.Millisecond)
	defer cancel()

	pages, err := bf.FetchAllPages(ctx, "/top/anime", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if len(pages) != 1 {
		t.Errorf("pages = %d, want 1", len(pages))
	}
}

func TestDecodeEntries_BadPage(t *testing.T) {
	pages := [][]byte{
		[]byte(`{"data": [{"mal_id": 1, "title": "A"}]}`),
		[]byte(`not json`),
	}
	entries, err := DecodeEntries[catalog.Entry](pages)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if len(entries) != 1 {
		t.Errorf("entries = %d, want the 1 decoded before the failure", len(entries))
	}
}
