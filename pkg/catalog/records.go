package catalog

// Pagination is the pagination block of a list response.
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

// Page is the envelope of every upstream response: the payload under "data"
// and, for list endpoints, a pagination block.
type Page[T any] struct {
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// HasNext reports whether the upstream advertises a further page.
func (p Page[T]) HasNext() bool {
	return p.Pagination != nil && p.Pagination.HasNextPage
}

// CharacterImages holds the character portrait variants.
type CharacterImages struct {
	JPG  ImageURLs `json:"jpg"`
	WebP ImageURLs `json:"webp"`
}

// CharacterRef identifies a character inside another record.
type CharacterRef struct {
	ID     int             `json:"mal_id"`
	URL    string          `json:"url"`
	Name   string          `json:"name"`
	Images CharacterImages `json:"images"`
}

// Character is a cast member of an anime as listed by /anime/{id}/characters.
type Character struct {
	Character CharacterRef `json:"character"`
	Role      string       `json:"role"`
	Favorites int          `json:"favorites"`
}

// CharacterDetail is the full character record from /characters/{id}/full
// and the character search endpoint.
type CharacterDetail struct {
	ID        int             `json:"mal_id"`
	URL       string          `json:"url"`
	Name      string          `json:"name"`
	NameKanji string          `json:"name_kanji"`
	Nicknames []string        `json:"nicknames"`
	Favorites int             `json:"favorites"`
	About     string          `json:"about"`
	Images    CharacterImages `json:"images"`
}

// EntryRef is a lightweight reference to an anime inside another record.
type EntryRef struct {
	ID     int    `json:"mal_id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Images Images `json:"images"`
}

// Recommendation is one "if you liked this" pairing.
type Recommendation struct {
	Entry EntryRef `json:"entry"`
	URL   string   `json:"url"`
	Votes int      `json:"votes"`
}

// Review is a user review of an anime.
type Review struct {
	ID        int    `json:"mal_id"`
	URL       string `json:"url"`
	Date      string `json:"date"`
	Review    string `json:"review"`
	Score     int    `json:"score"`
	IsSpoiler bool   `json:"is_spoiler"`
	User      struct {
		Username string `json:"username"`
		URL      string `json:"url"`
	} `json:"user"`
}

// Staff is a person credited on an anime.
type Staff struct {
	Person struct {
		ID   int    `json:"mal_id"`
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"person"`
	Positions []string `json:"positions"`
}

// NewsArticle is a news item attached to an anime. Category is derived
// locally from the title and is not part of the upstream payload.
type NewsArticle struct {
	ID             int    `json:"mal_id"`
	URL            string `json:"url"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	AuthorUsername string `json:"author_username"`
	ForumURL       string `json:"forum_url"`
	Comments       int    `json:"comments"`
	Excerpt        string `json:"excerpt"`
	Images         struct {
		JPG ImageURLs `json:"jpg"`
	} `json:"images"`
	Category string `json:"category,omitempty"`
}
