// Package fallback decides what a view shows while live Jikan data is loading
// and after it has failed.
//
// A view paints its bundled dataset first and swaps in the live result once
// the fetch succeeds. Soft failures (rate limit, server error, timeout,
// network) keep the bundled data on screen with a low-severity notice. A
// not-found answer always replaces the bundled data, and a view without a
// bundled dataset reports itself unavailable instead of loading forever.
//
// Usage:
//
//	top := fallback.TopAnime()
//	view := fallback.Load(ctx, &top, func(ctx context.Context) ([]catalog.Entry, error) {
//		page, err := c.GetTopAnime(ctx, 1)
//		if err != nil {
//			return nil, err
//		}
//		return page.Data, nil
//	})
//	snap, _ := view.WaitFor(ctx, 2*time.Second)
package fallback
