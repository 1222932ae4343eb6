// Package catalog defines the anime catalog records returned by the Jikan API
// and the reference data (genres, seasons) the client builds requests from.
package catalog

import (
	"encoding/json"
	"strings"
)

// Status is the airing status of a catalog entry.
type Status string

const (
	// StatusAiring marks an entry that is currently broadcasting.
	StatusAiring Status = "airing"

	// StatusFinished marks an entry that has finished airing.
	StatusFinished Status = "finished"

	// StatusUpcoming marks an entry that has not aired yet.
	StatusUpcoming Status = "upcoming"

	// StatusUnknown is used when the upstream status string is not recognised.
	StatusUnknown Status = "unknown"
)

// ParseStatus maps the upstream status text ("Currently Airing",
// "Finished Airing", "Not yet aired") to a Status.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "currently airing", "airing":
		return StatusAiring
	case "finished airing", "finished":
		return StatusFinished
	case "not yet aired", "upcoming":
		return StatusUpcoming
	default:
		return StatusUnknown
	}
}

// ImageURLs holds the resolutions published for one image format.
type ImageURLs struct {
	ImageURL      string `json:"image_url,omitempty"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// Images holds the jpg and webp variants of an entry's cover.
type Images struct {
	JPG  ImageURLs `json:"jpg"`
	WebP ImageURLs `json:"webp"`
}

// Genre is a genre tag attached to an entry.
type Genre struct {
	ID   int    `json:"mal_id"`
	Name string `json:"name"`
}

// Entry is one anime title.
//
// Entries are values: they are built once from a response or a static
// dataset and never modified afterwards. Use Clone when handing an entry to
// code that may keep it.
type Entry struct {
	ID            int      `json:"mal_id"`
	URL           string   `json:"url,omitempty"`
	Title         string   `json:"title"`
	TitleEnglish  string   `json:"title_english,omitempty"`
	TitleJapanese string   `json:"title_japanese,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Images        Images   `json:"images"`
	Type          string   `json:"type,omitempty"`
	Score         *float64 `json:"score"`
	Episodes      *int     `json:"episodes"`
	Status        Status   `json:"status"`
	Year          int      `json:"year,omitempty"`
	Rank          int      `json:"rank,omitempty"`
	Popularity    int      `json:"popularity,omitempty"`
	Genres        []Genre  `json:"genres"`
}

// wireEntry mirrors the upstream JSON layout.
type wireEntry struct {
	MalID         int      `json:"mal_id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	TitleEnglish  *string  `json:"title_english"`
	TitleJapanese *string  `json:"title_japanese"`
	Synopsis      *string  `json:"synopsis"`
	Images        Images   `json:"images"`
	Type          *string  `json:"type"`
	Score         *float64 `json:"score"`
	Episodes      *int     `json:"episodes"`
	Status        string   `json:"status"`
	Airing        *bool    `json:"airing"`
	Year          *int     `json:"year"`
	Rank          *int     `json:"rank"`
	Popularity    *int     `json:"popularity"`
	Genres        []Genre  `json:"genres"`
}

// UnmarshalJSON decodes an entry from the upstream representation.
// Nullable upstream fields become zero values, the status text is
// normalised and duplicate genres are dropped.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	status := ParseStatus(w.Status)
	if status == StatusUnknown && w.Airing != nil && *w.Airing {
		status = StatusAiring
	}

	*e = Entry{
		ID:            w.MalID,
		URL:           w.URL,
		Title:         w.Title,
		TitleEnglish:  deref(w.TitleEnglish),
		TitleJapanese: deref(w.TitleJapanese),
		Synopsis:      deref(w.Synopsis),
		Images:        w.Images,
		Type:          deref(w.Type),
		Score:         w.Score,
		Episodes:      w.Episodes,
		Status:        status,
		Year:          derefInt(w.Year),
		Rank:          derefInt(w.Rank),
		Popularity:    derefInt(w.Popularity),
		Genres:        UniqueGenres(w.Genres),
	}
	return nil
}

// DisplayTitle returns the English title when present, the primary title otherwise.
func (e Entry) DisplayTitle() string {
	if e.TitleEnglish != "" {
		return e.TitleEnglish
	}
	return e.Title
}

// HasGenre reports whether the entry is tagged with the genre id.
func (e Entry) HasGenre(id int) bool {
	for _, g := range e.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// ScoreValue returns the score, or 0 when the entry is unscored.
func (e Entry) ScoreValue() float64 {
	if e.Score == nil {
		return 0
	}
	return *e.Score
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := e
	if e.Score != nil {
		s := *e.Score
		c.Score = &s
	}
	if e.Episodes != nil {
		n := *e.Episodes
		c.Episodes = &n
	}
	if e.Genres != nil {
		c.Genres = append([]Genre(nil), e.Genres...)
	}
	return c
}

// CloneEntries deep-copies a slice of entries.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// UniqueGenres drops genres whose id was already seen, keeping order.
func UniqueGenres(genres []Genre) []Genre {
	out := make([]Genre, 0, len(genres))
	seen := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
