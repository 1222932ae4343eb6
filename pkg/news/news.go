// Package news categorises Jikan news items and serves the bundled blog
// articles.
package news

import (
	"math"
	"strings"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
)

// Category names, in display order after "All".
const (
	CategoryAll           = "All"
	CategoryAnnouncements = "Announcements"
	CategoryReleases      = "Releases"
	CategoryProduction    = "Production"
	CategoryBoxOffice     = "Box Office"
	CategoryAwards        = "Awards"
	CategoryTrailers      = "Trailers"
	CategoryMilestones    = "Milestones"
)

// FeedAnimeID is the anime whose Jikan news feed backs the news index.
const FeedAnimeID = 1

// WordsPerMinute is the reading speed used by ReadTime.
const WordsPerMinute = 200

// rules are checked in order; the first match wins.
var rules = []struct {
	category string
	keywords []string
}{
	{CategoryAnnouncements, []string{"announce", "reveal", "confirm"}},
	{CategoryReleases, []string{"release", "premiere", "date"}},
	{CategoryProduction, []string{"production", "studio", "adapt"}},
	{CategoryBoxOffice, []string{"box office", "record", "gross"}},
	{CategoryAwards, []string{"award", "win", "honor"}},
	{CategoryTrailers, []string{"trailer", "pv", "teaser"}},
	{CategoryMilestones, []string{"milestone", "episode", "chapter"}},
}

// Categories returns the filter choices, "All" first.
func Categories() []string {
	out := []string{CategoryAll}
	for _, r := range rules {
		out = append(out, r.category)
	}
	return out
}

// Categorize derives a category from title keywords. Titles matching no
// rule are announcements.
func Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CategoryAnnouncements
}

// Annotate fills in the Category of every item.
func Annotate(items []catalog.NewsArticle) []catalog.NewsArticle {
	out := make([]catalog.NewsArticle, len(items))
	for i, item := range items {
		item.Category = Categorize(item.Title)
		out[i] = item
	}
	return out
}

// Filter keeps items of one category. "All" and "" keep everything.
func Filter(items []catalog.NewsArticle, category string) []catalog.NewsArticle {
	if category == "" || category == CategoryAll {
		return items
	}
	var out []catalog.NewsArticle
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// ReadTime estimates reading minutes for text, at least one.
func ReadTime(text string) int {
	words := len(strings.Fields(text))
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}
