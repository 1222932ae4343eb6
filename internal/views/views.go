// Package views composes the Jikan client with the bundled fallback data,
// one loader per page of the site.
package views

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/fallback"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/metrics"
	"github.com/Sternrassler/jikan-client/pkg/news"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
	"github.com/Sternrassler/jikan-client/pkg/recommend"
)

// CatalogAPI is the part of the Jikan client the views read from.
// *client.Client implements it.
type CatalogAPI interface {
	pagination.PageFetcher

	SearchAnime(ctx context.Context, params client.SearchParams) (*catalog.Page[[]catalog.Entry], error)
	GetAnimeByID(ctx context.Context, id int) (*catalog.Entry, error)
	GetTopAnime(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error)
	GetTopAiring(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error)
	GetSeasonalAnime(ctx context.Context, year int, season catalog.Season, page int) (*catalog.Page[[]catalog.Entry], error)
	GetSeasonNow(ctx context.Context, page int) (*catalog.Page[[]catalog.Entry], error)
	GetAnimeByGenre(ctx context.Context, genreID, page int) (*catalog.Page[[]catalog.Entry], error)
	GetAnimeCharacters(ctx context.Context, id int) ([]catalog.Character, error)
	GetAnimeRecommendations(ctx context.Context, id int) ([]catalog.Recommendation, error)
	GetAnimeNews(ctx context.Context, id, page int) (*catalog.Page[[]catalog.NewsArticle], error)
	SearchCharacters(ctx context.Context, query string, page int) (*catalog.Page[[]catalog.CharacterDetail], error)
	GetCharacterByID(ctx context.Context, id int) (*catalog.CharacterDetail, error)
}

const (
	// HomeSectionSize caps each home page section.
	HomeSectionSize = 6

	// DetailListSize caps the characters and recommendations on a detail page.
	DetailListSize = 12

	// TopPages and TopPageSize make up the top 100 list.
	TopPages    = 4
	TopPageSize = 25
)

// Service builds page views. It is safe for concurrent use.
//
// Concurrent loads of the same view with the same parameters share one
// upstream fetch, run under the context of the load that started it. The
// shared result is read-only.
type Service struct {
	api         CatalogAPI
	recommender *recommend.Recommender
	now         func() time.Time
	logger      zerolog.Logger
	flights     singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithRecommender replaces the default clock-seeded recommender.
func WithRecommender(r *recommend.Recommender) Option {
	return func(s *Service) { s.recommender = r }
}

// WithClock replaces time.Now, which picks the current season.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger replaces the "views" component logger. Load failures are logged
// through it as well.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service reading from api.
func NewService(api CatalogAPI, opts ...Option) *Service {
	s := &Service{
		api:    api,
		now:    time.Now,
		logger: logging.NewLogger("views"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recommender == nil {
		s.recommender = recommend.New(nil)
	}
	return s
}

// load starts a fallback load and records how it resolved. key identifies
// the parameters; loads with the same view and key share a fetch.
func load[T any](ctx context.Context, s *Service, view, key string, fb *T, fetch fallback.FetchFunc[T]) *fallback.View[T] {
	shared := func(ctx context.Context) (T, error) {
		res, err, _ := s.flights.Do(view+"|"+key, func() (any, error) {
			return fetch(ctx)
		})
		data, _ := res.(T)
		return data, err
	}

	v := fallback.Load(ctx, fb, shared, fallback.WithLogger(s.logger))
	go func() {
		<-v.Done()
		if ctx.Err() != nil {
			return
		}
		state := v.Snapshot().State
		metrics.ObserveView(view, string(state))
		s.logger.Debug().Str("view", view).Str("state", string(state)).Msg("View resolved")
	}()
	return v
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// HomeData holds the three home page sections.
type HomeData struct {
	Featured []catalog.Entry `json:"featured"`
	Top      []catalog.Entry `json:"top"`
	Trending []catalog.Entry `json:"trending"`

	// Degraded names the sections that fell back to bundled data while
	// others loaded live.
	Degraded []string `json:"degraded,omitempty"`
}

// Home loads the featured, top and trending sections. A failing section
// keeps its bundled entries; the view only fails when every section does.
func (s *Service) Home(ctx context.Context) *fallback.View[HomeData] {
	fb := HomeData{
		Featured: truncate(fallback.FeaturedSeasonal(), HomeSectionSize),
		Top:      truncate(fallback.FallbackAnime(), HomeSectionSize),
		Trending: truncate(fallback.TrendingNow(), HomeSectionSize),
	}

	return load(ctx, s, "home", "", &fb, func(ctx context.Context) (HomeData, error) {
		sections := []struct {
			name    string
			fetch   func(context.Context, int) (*catalog.Page[[]catalog.Entry], error)
			bundled []catalog.Entry
		}{
			{"featured", s.api.GetSeasonNow, fb.Featured},
			{"top", s.api.GetTopAnime, fb.Top},
			{"trending", s.api.GetTopAiring, fb.Trending},
		}

		var (
			results  = make([][]catalog.Entry, len(sections))
			degraded []string
			lastErr  error
		)
		for i, sec := range sections {
			page, err := sec.fetch(ctx, 1)
			if err != nil {
				if ctx.Err() != nil {
					return HomeData{}, err
				}
				lastErr = err
				results[i] = catalog.CloneEntries(sec.bundled)
				degraded = append(degraded, sec.name)
				continue
			}
			results[i] = truncate(page.Data, HomeSectionSize)
		}

		if len(degraded) == len(sections) {
			return HomeData{}, lastErr
		}
		return HomeData{
			Featured: results[0],
			Top:      results[1],
			Trending: results[2],
			Degraded: degraded,
		}, nil
	})
}

// TopAnime loads the top 100 list. Pages that arrived before a failure are
// kept as the live result.
func (s *Service) TopAnime(ctx context.Context) *fallback.View[[]catalog.Entry] {
	fb := fallback.TopAnime()

	return load(ctx, s, "top", "", &fb, func(ctx context.Context) ([]catalog.Entry, error) {
		fetcher := pagination.NewBatchFetcher(s.api, pagination.Config{
			MaxConcurrency: 2,
			MaxPages:       TopPages,
		})
		query := url.Values{"limit": {strconv.Itoa(TopPageSize)}, "sfw": {"true"}}

		pages, fetchErr := fetcher.FetchAllPages(ctx, "/top/anime", query)
		entries, err := pagination.DecodeEntries[catalog.Entry](pages)
		if len(entries) == 0 {
			if fetchErr != nil {
				return nil, fetchErr
			}
			return nil, err
		}
		if fetchErr != nil || err != nil {
			s.logger.Warn().
				AnErr("fetch_error", fetchErr).
				AnErr("decode_error", err).
				Int("entries", len(entries)).
				Msg("Top list incomplete, keeping partial result")
		}
		return entries, nil
	})
}

// Seasonal loads a broadcast season. A zero year or empty season means the
// current one.
func (s *Service) Seasonal(ctx context.Context, year int, season catalog.Season, page int) *fallback.View[[]catalog.Entry] {
	if year == 0 || season == "" {
		year, season = catalog.CurrentSeason(s.now())
	}
	fb := append(fallback.FeaturedSeasonal(), fallback.TrendingNow()...)

	return load(ctx, s, "seasonal", fmt.Sprintf("%d/%s/%d", year, season, page), &fb, func(ctx context.Context) ([]catalog.Entry, error) {
		p, err := s.api.GetSeasonalAnime(ctx, year, season, page)
		if err != nil {
			return nil, err
		}
		return p.Data, nil
	})
}

// Genre loads anime of one genre, best score first. Bundled entries of the
// same genre stand in when the fetch fails.
func (s *Service) Genre(ctx context.Context, genreID, page int) *fallback.View[[]catalog.Entry] {
	var fb *[]catalog.Entry
	if bundled := fallback.ByGenre(genreID); len(bundled) > 0 {
		fb = &bundled
	}

	return load(ctx, s, "genre", fmt.Sprintf("%d/%d", genreID, page), fb, func(ctx context.Context) ([]catalog.Entry, error) {
		p, err := s.api.GetAnimeByGenre(ctx, genreID, page)
		if err != nil {
			return nil, err
		}
		return p.Data, nil
	})
}

// Search runs an anime search. It has no fallback.
func (s *Service) Search(ctx context.Context, params client.SearchParams) *fallback.View[*catalog.Page[[]catalog.Entry]] {
	return load(ctx, s, "search", fmt.Sprintf("%+v", params), nil, func(ctx context.Context) (*catalog.Page[[]catalog.Entry], error) {
		return s.api.SearchAnime(ctx, params)
	})
}

// AnimeDetail is the data of an anime detail page.
type AnimeDetail struct {
	Entry           catalog.Entry            `json:"entry"`
	Characters      []catalog.Character      `json:"characters"`
	Recommendations []catalog.Recommendation `json:"recommendations"`
}

// AnimeDetail loads an anime with its cast and recommendations.
func (s *Service) AnimeDetail(ctx context.Context, id int) *fallback.View[AnimeDetail] {
	var fb *AnimeDetail
	if entry, ok := fallback.FindByID(id); ok {
		fb = &AnimeDetail{Entry: entry}
	}

	return load(ctx, s, "anime", strconv.Itoa(id), fb, func(ctx context.Context) (AnimeDetail, error) {
		return s.animeDetail(ctx, id)
	})
}

// CharacterDetail loads one character. It has no fallback.
func (s *Service) CharacterDetail(ctx context.Context, id int) *fallback.View[*catalog.CharacterDetail] {
	return load(ctx, s, "character", strconv.Itoa(id), nil, func(ctx context.Context) (*catalog.CharacterDetail, error) {
		return s.api.GetCharacterByID(ctx, id)
	})
}

// CharacterSearch searches characters by name. It has no fallback.
func (s *Service) CharacterSearch(ctx context.Context, query string, page int) *fallback.View[*catalog.Page[[]catalog.CharacterDetail]] {
	return load(ctx, s, "character_search", fmt.Sprintf("%d/%s", page, query), nil, func(ctx context.Context) (*catalog.Page[[]catalog.CharacterDetail], error) {
		return s.api.SearchCharacters(ctx, query, page)
	})
}

// NewsFeed is the news index: live items from the Jikan feed plus the
// bundled blog articles.
type NewsFeed struct {
	Category string                `json:"category"`
	Items    []catalog.NewsArticle `json:"items"`
	Articles []news.Article        `json:"articles"`
}

// News loads the news index filtered to one category ("" or "All" for all).
// The bundled articles are shown when the feed is unavailable.
func (s *Service) News(ctx context.Context, category string) *fallback.View[NewsFeed] {
	if category == "" {
		category = news.CategoryAll
	}
	fb := NewsFeed{Category: category, Articles: news.ArticlesIn(category)}

	return load(ctx, s, "news", category, &fb, func(ctx context.Context) (NewsFeed, error) {
		p, err := s.api.GetAnimeNews(ctx, news.FeedAnimeID, 1)
		if err != nil {
			return NewsFeed{}, err
		}
		return NewsFeed{
			Category: category,
			Items:    news.Filter(news.Annotate(p.Data), category),
			Articles: news.ArticlesIn(category),
		}, nil
	})
}

// Recommendations is the data of the recommendations page.
type Recommendations struct {
	Category   recommend.Category `json:"category"`
	Picks      []catalog.Entry    `json:"picks"`
	ForYou     []catalog.Entry    `json:"for_you"`
	HiddenGems []catalog.Entry    `json:"hidden_gems"`
}

// Recommendations draws the recommendations page from the bundled pool.
// It never touches the network.
func (s *Service) Recommendations(category recommend.Category) (Recommendations, error) {
	picks, err := s.recommender.Pick(category, recommend.DefaultCount)
	if err != nil {
		return Recommendations{}, err
	}
	metrics.ObserveView("recommendations", string(fallback.StateFallback))
	return Recommendations{
		Category:   category,
		Picks:      picks,
		ForYou:     s.recommender.ForYou(),
		HiddenGems: s.recommender.HiddenGems(),
	}, nil
}
