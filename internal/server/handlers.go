package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/news"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
	"github.com/Sternrassler/jikan-client/pkg/recommend"
)

// idleAfter is how long without a dispatch counts as idle.
const idleAfter = time.Minute

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	render(s, w, r, s.views.Home(s.baseCtx))
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	render(s, w, r, s.views.TopAnime(s.baseCtx))
}

func (s *Server) handleSeasonal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		year   int
		season catalog.Season
		err    error
	)
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1917 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
	}
	if v := q.Get("season"); v != "" {
		if season, err = catalog.ParseSeason(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	render(s, w, r, s.views.Seasonal(s.baseCtx, year, season, page))
}

func (s *Server) handleAnime(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	render(s, w, r, s.views.AnimeDetail(s.baseCtx, id))
}

func (s *Server) handleGenres(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, catalog.Genres())
}

// handleGenre accepts a numeric id or a slug ("slice-of-life").
func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	var (
		genre catalog.GenreInfo
		known bool
	)
	if id, err := strconv.Atoi(param); err == nil {
		genre, known = catalog.GenreByID(id)
	} else {
		genre, known = catalog.GenreBySlug(param)
	}
	if !known {
		writeError(w, http.StatusNotFound, "unknown genre")
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	render(s, w, r, s.views.Genre(s.baseCtx, genre.ID, page))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	params := client.SearchParams{
		Query:   strings.TrimSpace(q.Get("q")),
		Page:    page,
		Type:    q.Get("type"),
		Status:  q.Get("status"),
		OrderBy: q.Get("order_by"),
		Sort:    q.Get("sort"),
		SFW:     q.Get("sfw") != "false",
	}
	if v := q.Get("genres"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid genres")
				return
			}
			params.Genres = append(params.Genres, id)
		}
	}
	if params.Query == "" && len(params.Genres) == 0 {
		writeError(w, http.StatusBadRequest, "q or genres is required")
		return
	}

	render(s, w, r, s.views.Search(s.baseCtx, params))
}

func (s *Server) handleCharacterSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	render(s, w, r, s.views.CharacterSearch(s.baseCtx, query, page))
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	render(s, w, r, s.views.CharacterDetail(s.baseCtx, id))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !validNewsCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown news category")
		return
	}
	render(s, w, r, s.views.News(s.baseCtx, category))
}

// ArticlePage is the body of /api/v1/news/{id}.
type ArticlePage struct {
	Article news.Article   `json:"article"`
	Related []news.Article `json:"related"`
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	article, found := news.FindArticle(id)
	if !found {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeStatic(w, ArticlePage{Article: article, Related: news.Related(id)})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	category, err := recommend.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := s.views.Recommendations(category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recommendations unavailable")
		return
	}
	writeStatic(w, recs)
}

// ThrottleStatus is the body of /api/v1/status.
type ThrottleStatus struct {
	ratelimit.ThrottleState
	Idle        bool          `json:"idle"`
	NextSlot    time.Time     `json:"next_slot"`
	AverageWait time.Duration `json:"average_wait"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.opts.Throttle == nil {
		writeError(w, http.StatusNotFound, "no throttle configured")
		return
	}
	state := s.opts.Throttle.State()
	writeStatic(w, ThrottleStatus{
		ThrottleState: state,
		Idle:          state.IsIdle(idleAfter),
		NextSlot:      state.NextSlot(),
		AverageWait:   state.AverageWait(),
	})
}

// SiteInfo is the body of /api/v1/site.
type SiteInfo struct {
	AdClientID               string               `json:"ad_client_id,omitempty"`
	NewsCategories           []string             `json:"news_categories"`
	RecommendationCategories []recommend.Category `json:"recommendation_categories"`
}

func (s *Server) handleSite(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, SiteInfo{
		AdClientID:               s.opts.AdClientID,
		NewsCategories:           news.Categories(),
		RecommendationCategories: recommend.Categories(),
	})
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("page")
	if v == "" {
		return 1, true
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return 0, false
	}
	return page, true
}

func validNewsCategory(category string) bool {
	for _, c := range news.Categories() {
		if c == category {
			return true
		}
	}
	return false
}
