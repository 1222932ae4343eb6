package pagination

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/rs/zerolog"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests.
	// Jikan allows ~3 req/s, so more than a couple of workers only queue on the throttle.
	MaxConcurrency int

	// MaxPages caps how many pages are fetched (0 = all advertised pages)
	MaxPages int

	// Timeout per page fetch, retries included
	Timeout time.Duration

	// OnPage is called after each page arrives with the number of pages
	// fetched so far and the planned total. Calls are serialised.
	OnPage func(fetched, total int)
}

// DefaultConfig returns safe default configuration for Jikan
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 2,
		Timeout:        60 * time.Second,
	}
}

// PageFetcher is the interface the Jikan client implements for single-page fetching
type PageFetcher interface {
	// FetchPage fetches a single page and returns data + last visible page
	FetchPage(ctx context.Context, endpoint string, query url.Values, pageNum int) (data []byte, totalPages int, err error)
}

// PageResult represents the result of fetching a single page
type PageResult struct {
	PageNumber int
	Data       []byte
	Error      error
}

// BatchFetcher handles parallel fetching of multiple pages
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxPages < 0 {
		config.MaxPages = 0
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("pagination"),
	}
}

// FetchAllPages fetches pages 1..N of an endpoint, where N is the advertised
// last page capped at MaxPages. pages[i] holds page i+1.
//
// On failure it stops scheduling further pages and returns the contiguous
// prefix it already has together with the error. A failed first page returns
// no pages.
func (bf *BatchFetcher) FetchAllPages(ctx context.Context, endpoint string, query url.Values) ([][]byte, error) {
	start := time.Now()

	firstPageData, totalPages, err := bf.fetchOne(ctx, endpoint, query, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if bf.config.MaxPages > 0 && totalPages > bf.config.MaxPages {
		totalPages = bf.config.MaxPages
	}
	bf.progress(1, totalPages)

	// Single page optimization
	if totalPages == 1 {
		return [][]byte{firstPageData}, nil
	}

	bf.logger.Debug().
		Str("endpoint", endpoint).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	results := map[int][]byte{1: firstPageData}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pageQueue := make(chan int, totalPages)
	pageResults := make(chan PageResult, totalPages)

	// Fill page queue (skip page 1, already fetched)
	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency && i < totalPages-1; i++ {
		wg.Add(1)
		go bf.worker(workCtx, endpoint, query, pageQueue, pageResults, &wg, i)
	}

	go func() {
		wg.Wait()
		close(pageResults)
	}()

	var firstErr error
	failedPage := 0
	for result := range pageResults {
		if result.Error != nil {
			// Lowest failing page decides the prefix
			if firstErr == nil || result.PageNumber < failedPage {
				firstErr = result.Error
				failedPage = result.PageNumber
			}
			cancel()
			continue
		}

		results[result.PageNumber] = result.Data
		bf.progress(len(results), totalPages)
	}

	pages := contiguousPrefix(results, totalPages)

	if firstErr == nil && len(pages) < totalPages {
		// Workers stopped early because the caller's context ended
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		bf.logger.Warn().
			Err(firstErr).
			Str("endpoint", endpoint).
			Int("fetched_pages", len(pages)).
			Int("total_pages", totalPages).
			Msg("Page fetch failed - returning partial results")
		if failedPage == 0 {
			return pages, fmt.Errorf("fetch interrupted (partial data: %d/%d pages): %w", len(pages), totalPages, firstErr)
		}
		return pages, fmt.Errorf("page %d (partial data: %d/%d pages): %w", failedPage, len(pages), totalPages, firstErr)
	}

	bf.logger.Info().
		Str("endpoint", endpoint).
		Int("pages", len(pages)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return pages, nil
}

func (bf *BatchFetcher) fetchOne(ctx context.Context, endpoint string, query url.Values, pageNum int) ([]byte, int, error) {
	pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
	defer cancel()
	return bf.fetcher.FetchPage(pageCtx, endpoint, query, pageNum)
}

func (bf *BatchFetcher) progress(fetched, total int) {
	if bf.config.OnPage != nil {
		bf.config.OnPage(fetched, total)
	}
}

// worker processes pages from the queue
func (bf *BatchFetcher) worker(ctx context.Context, endpoint string, query url.Values, pageQueue <-chan int, results chan<- PageResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		if ctx.Err() != nil {
			bf.logger.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		data, _, err := bf.fetchOne(ctx, endpoint, query, pageNum)
		if err != nil && ctx.Err() != nil {
			// Cancelled by a sibling failure or the caller; not this page's fault
			return
		}

		// results is buffered for every page, so this never blocks
		results <- PageResult{PageNumber: pageNum, Data: data, Error: err}
		if err != nil {
			return
		}
		pagesProcessed++
	}
}

// contiguousPrefix returns pages 1..k where k is the last page before the first gap.
func contiguousPrefix(results map[int][]byte, totalPages int) [][]byte {
	pages := make([][]byte, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		data, ok := results[page]
		if !ok {
			break
		}
		pages = append(pages, data)
	}
	return pages
}
