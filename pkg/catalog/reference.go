package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// GenreInfo describes a browsable genre.
type GenreInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

var genres = []GenreInfo{
	{ID: 1, Name: "Action", Slug: "action", Description: "High-energy fights and adventures"},
	{ID: 2, Name: "Adventure", Slug: "adventure", Description: "Epic journeys and exploration"},
	{ID: 4, Name: "Comedy", Slug: "comedy", Description: "Laugh-out-loud funny moments"},
	{ID: 7, Name: "Mystery", Slug: "mystery", Description: "Puzzles and thrilling investigations"},
	{ID: 8, Name: "Drama", Slug: "drama", Description: "Emotional and compelling stories"},
	{ID: 10, Name: "Fantasy", Slug: "fantasy", Description: "Magical worlds and creatures"},
	{ID: 14, Name: "Horror", Slug: "horror", Description: "Spine-chilling thrills"},
	{ID: 22, Name: "Romance", Slug: "romance", Description: "Love stories that touch hearts"},
	{ID: 24, Name: "Sci-Fi", Slug: "sci-fi", Description: "Futuristic technology and space"},
	{ID: 30, Name: "Sports", Slug: "sports", Description: "Athletic competition and teamwork"},
	{ID: 36, Name: "Slice of Life", Slug: "slice-of-life", Description: "Everyday life and relationships"},
	{ID: 37, Name: "Supernatural", Slug: "supernatural", Description: "Mysterious powers and beings"},
	{ID: 41, Name: "Thriller", Slug: "thriller", Description: "Suspense at every turn"},
}

// Genres returns the browsable genres ordered by id.
func Genres() []GenreInfo {
	out := append([]GenreInfo(nil), genres...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GenreByID looks up a browsable genre.
func GenreByID(id int) (GenreInfo, bool) {
	for _, g := range genres {
		if g.ID == id {
			return g, true
		}
	}
	return GenreInfo{}, false
}

// GenreBySlug looks up a browsable genre by slug or name, case-insensitively.
func GenreBySlug(slug string) (GenreInfo, bool) {
	s := strings.ToLower(strings.TrimSpace(slug))
	for _, g := range genres {
		if g.Slug == s || strings.ToLower(g.Name) == s {
			return g, true
		}
	}
	return GenreInfo{}, false
}

// Season is a broadcast quarter.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
)

// SeasonOf returns the broadcast season containing t.
func SeasonOf(t time.Time) Season {
	switch m := t.Month(); {
	case m <= time.March:
		return SeasonWinter
	case m <= time.June:
		return SeasonSpring
	case m <= time.September:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// CurrentSeason returns the year and season containing t.
func CurrentSeason(t time.Time) (int, Season) {
	return t.Year(), SeasonOf(t)
}

// ParseSeason validates a season name.
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case SeasonWinter:
		return SeasonWinter, nil
	case SeasonSpring:
		return SeasonSpring, nil
	case SeasonSummer:
		return SeasonSummer, nil
	case SeasonFall, "autumn":
		return SeasonFall, nil
	default:
		return "", fmt.Errorf("unknown season %q", s)
	}
}
