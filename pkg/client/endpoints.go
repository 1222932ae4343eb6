package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
)

// SearchParams narrows an anime search. Zero values are omitted from the query.
type SearchParams struct {
	Query   string
	Page    int
	Limit   int
	Genres  []int
	Type    string
	Status  string
	OrderBy string
	Sort    string
	SFW     bool
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	setPage(q, p.Page)
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(p.Genres) > 0 {
		ids := make([]string, len(p.Genres))
		for i, id := range p.Genres {
			ids[i] = strconv.Itoa(id)
		}
		q.Set("genres", strings.Join(ids, ","))
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.OrderBy != "" {
		q.Set("order_by", p.OrderBy)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.SFW {
		q.Set("sfw", "true")
	}
	return q
}

func setPage(q url.Values, page int) {
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
}

// getPage fetches a list endpoint into a typed page.
func getPage[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (*catalog.Page[T], error) {
	var page catalog.Page[T]
	if _, err := c.GetJSON(ctx, endpoint, query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchAnime searches the anime catalog.
func (c *Client) SearchAnime(ctx context.Context, params SearchParams) (*catalog.Page[[]catalog.Entry], error) {
	return getPage[[]catalog.Entry](ctx, c, "/anime", params.values())
}

// GetAnimeByID fetches the full record of one anime.
func (c *Client) GetAnimeByID(ctx context.Context, id int) (*catalog.Entry, error) {
	page, err := getPage[catalog.Entry](ctx, c, fmt.Sprintf("/anime/%d/full", id), nil)
	if err != nil {
		return nil, err
	}
	return &page.Data, nil
}

// GetTopAnime fetches one page of the top-ranked list.
func (c *Client) GetTopAnime(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error) {
	q := url.Values{}
	setPage(q, page)
	return getPage[[]catalog.Entry](ctx, c, "/top/anime", q)
}

// GetTopAiring fetches one page of the top-ranked titles currently airing.
func (c *Client) GetTopAiring(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error) {
	q := url.Values{"filter": {"airing"}}
	setPage(q, page)
	return getPage[[]catalog.Entry](ctx, c, "/top/anime", q)
}

// GetSeasonalAnime fetches one page of a broadcast season.
func (c *Client) GetSeasonalAnime(ctx context.Context, year int, season catalog.Season, page int) (*catalog.Page[[]catalog.Entry], error) {
	q := url.Values{}
	setPage(q, page)
	return getPage[[]catalog.Entry](ctx, c, fmt.Sprintf("/seasons/%d/%s", year, season), q)
}

// GetSeasonNow fetches one page of the currently airing season.
func (c *Client) GetSeasonNow(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error) {
	q := url.Values{}
	setPage(q, page)
	return getPage[[]catalog.Entry](ctx, c, "/seasons/now", q)
}

// GetAnimeByGenre lists anime of a genre, best score first.
func (c *Client) GetAnimeByGenre(ctx context.Context, genreID, page int) (*catalog.Page[[]catalog.Entry], error) {
	return c.SearchAnime(ctx, SearchParams{
		Genres:  []int{genreID},
		Page:    page,
		OrderBy: "score",
		Sort:    "desc",
	})
}

// GetAnimeCharacters lists the cast of an anime.
func (c *Client) GetAnimeCharacters(ctx context.Context, id int) ([]catalog.Character, error) {
	page, err := getPage[[]catalog.Character](ctx, c, fmt.Sprintf("/anime/%d/characters", id), nil)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetAnimeStaff lists the staff credited on an anime.
func (c *Client) GetAnimeStaff(ctx context.Context, id int) ([]catalog.Staff, error) {
	page, err := getPage[[]catalog.Staff](ctx, c, fmt.Sprintf("/anime/%d/staff", id), nil)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetAnimeRecommendations lists user recommendations for an anime.
func (c *Client) GetAnimeRecommendations(ctx context.Context, id int) ([]catalog.Recommendation, error) {
	page, err := getPage[[]catalog.Recommendation](ctx, c, fmt.Sprintf("/anime/%d/recommendations", id), nil)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetAnimeReviews fetches one page of reviews.
func (c *Client) GetAnimeReviews(ctx context.Context, id, page int) (*catalog.Page[[]catalog.Review], error) {
	q := url.Values{}
	setPage(q, page)
	return getPage[[]catalog.Review](ctx, c, fmt.Sprintf("/anime/%d/reviews", id), q)
}

// GetAnimeNews fetches one page of news for an anime.
func (c *Client) GetAnimeNews(ctx context.Context, id, page int) (*catalog.Page[[]catalog.NewsArticle], error) {
	q := url.Values{}
	setPage(q, page)
	return getPage[[]catalog.NewsArticle](ctx, c, fmt.Sprintf("/anime/%d/news", id), q)
}

// SearchCharacters searches characters by name.
func (c *Client) SearchCharacters(ctx context.Context, query string, page int) (*catalog.Page[[]catalog.CharacterDetail], error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	setPage(q, page)
	return getPage[[]catalog.CharacterDetail](ctx, c, "/characters", q)
}

// GetCharacterByID fetches the full record of one character.
func (c *Client) GetCharacterByID(ctx context.Context, id int) (*catalog.CharacterDetail, error) {
	page, err := getPage[catalog.CharacterDetail](ctx, c, fmt.Sprintf("/characters/%d/full", id), nil)
	if err != nil {
		return nil, err
	}
	return &page.Data, nil
}

// GetRandomAnime fetches a random anime. It is never cached.
func (c *Client) GetRandomAnime(ctx context.Context) (*catalog.Entry, error) {
	page, err := getPage[catalog.Entry](ctx, c, "/random/anime", nil)
	if err != nil {
		return nil, err
	}
	return &page.Data, nil
}

// FetchPage fetches page n of a list endpoint and returns the raw body and
// the last visible page advertised by upstream (at least n).
func (c *Client) FetchPage(ctx context.Context, endpoint string, query url.Values, page int) ([]byte, int, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Del("page")
	setPage(q, page)

	resp, err := c.Get(ctx, endpoint, q)
	if err != nil {
		return nil, 0, err
	}

	var envelope struct {
		Pagination *catalog.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("decode pagination: %w", err)
	}

	last := page
	if envelope.Pagination != nil && envelope.Pagination.LastVisiblePage > last {
		last = envelope.Pagination.LastVisiblePage
	}
	return resp.Body, last, nil
}
