package pagination

import (
	"encoding/json"
	"fmt"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
)

// DecodeEntries concatenates the data arrays of raw list pages in order.
func DecodeEntries[T any](pages [][]byte) ([]T, error) {
	var all []T
	for i, raw := range pages {
		var page catalog.Page[[]T]
		if err := json.Unmarshal(raw, &page); err != nil {
			return all, fmt.Errorf("decode page %d: %w", i+1, err)
		}
		all = append(all, page.Data...)
	}
	return all, nil
}
