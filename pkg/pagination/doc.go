// Package pagination fetches every page of a paginated Jikan list endpoint.
//
// Jikan advertises the last page in the pagination block of each list response.
// BatchFetcher reads page 1 to learn it, caps it at MaxPages and hands the
// remaining pages to a small worker pool. All workers go through the same
// client, so the shared throttle still spaces their dispatches.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher(jikanClient, pagination.Config{MaxPages: 4})
//	pages, err := fetcher.FetchAllPages(ctx, "/top/anime", nil)
//	entries, _ := pagination.DecodeEntries[catalog.Entry](pages)
//
// The batch fetcher:
//   - Fetches first page to determine total pages
//   - Spawns a worker pool (default 2 workers)
//   - Stops scheduling pages after the first failure
//   - Returns the contiguous prefix of pages it has, plus the error
package pagination
