// Package recommend picks anime to suggest from the bundled datasets.
//
// The selection is a placeholder, not personalisation: every category is a
// fixed rule over a static pool, and the random categories are uniform
// samples without replacement.
package recommend

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
	"github.com/Sternrassler/jikan-client/pkg/fallback"
)

// Category selects the rule used to build a recommendation list.
type Category string

const (
	CategoryTrending Category = "trending"
	CategoryTopRated Category = "top-rated"
	CategoryPopular  Category = "popular"
	CategoryMixed    Category = "mixed"
)

const (
	// DefaultCount caps the main recommendation list.
	DefaultCount = 18

	// SectionCount is the size of the side sections.
	SectionCount = 6

	// TopRatedThreshold is the minimum score for the top-rated list.
	TopRatedThreshold = 8.0
)

// Categories lists the categories in display order.
func Categories() []Category {
	return []Category{CategoryTrending, CategoryTopRated, CategoryPopular, CategoryMixed}
}

// ParseCategory validates a category name. Empty means trending.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryTrending, nil
	}
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown recommendation category %q", s)
}

// Recommender draws recommendation lists. It is safe for concurrent use.
type Recommender struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Recommender drawing from rng. A nil rng is seeded from the clock.
func New(rng *rand.Rand) *Recommender {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Recommender{rng: rng}
}

// Pick builds the list for a category, capped at count (DefaultCount when <= 0).
func (r *Recommender) Pick(category Category, count int) ([]catalog.Entry, error) {
	if count <= 0 {
		count = DefaultCount
	}

	switch category {
	case CategoryTrending:
		return r.sample(fallback.TrendingNow(), count), nil

	case CategoryTopRated:
		var rated []catalog.Entry
		for _, e := range fallback.FallbackAnime() {
			if e.ScoreValue() >= TopRatedThreshold {
				rated = append(rated, e)
			}
		}
		sort.SliceStable(rated, func(i, j int) bool {
			return rated[i].ScoreValue() > rated[j].ScoreValue()
		})
		return truncate(rated, count), nil

	case CategoryPopular:
		return truncate(fallback.FeaturedSeasonal(), count), nil

	case CategoryMixed:
		return r.sample(Pool(), count), nil

	default:
		return nil, fmt.Errorf("unknown recommendation category %q", category)
	}
}

// ForYou draws a side section from the whole pool.
func (r *Recommender) ForYou() []catalog.Entry {
	return r.sample(Pool(), SectionCount)
}

// HiddenGems draws another independent side section from the whole pool.
func (r *Recommender) HiddenGems() []catalog.Entry {
	return r.sample(Pool(), SectionCount)
}

// Pool is every entry the random categories draw from, without duplicates.
func Pool() []catalog.Entry {
	seen := make(map[int]bool)
	var pool []catalog.Entry
	for _, set := range [][]catalog.Entry{fallback.FallbackAnime(), fallback.FeaturedSeasonal(), fallback.TrendingNow()} {
		for _, e := range set {
			if !seen[e.ID] {
				seen[e.ID] = true
				pool = append(pool, e)
			}
		}
	}
	return pool
}

// sample shuffles entries in place and keeps the first n.
func (r *Recommender) sample(entries []catalog.Entry, n int) []catalog.Entry {
	r.mu.Lock()
	r.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
	r.mu.Unlock()
	return truncate(entries, n)
}

func truncate(entries []catalog.Entry, n int) []catalog.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
