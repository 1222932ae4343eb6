/*
Package server exposes the page views over HTTP.

Every view answers with the envelope {data, state, notice}. A view waits at
most the render budget for live data; after that it answers with whatever is
painted while the fetch keeps running under the server's base context, so the
next request finds the response cache warm.
*/
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/jikan-client/internal/views"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/metrics"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address (":8080").
	Addr string

	// RenderBudget bounds how long a request waits for live data.
	RenderBudget time.Duration

	// AdClientID is echoed by /api/v1/site.
	AdClientID string

	// Throttle, when set, is reported by /api/v1/status.
	Throttle *ratelimit.Throttle

	// Logger replaces the "server" component logger.
	Logger *zerolog.Logger
}

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     chi.Router
	views      *views.Service
	baseCtx    context.Context
	opts       Options
	logger     zerolog.Logger
}

// New builds the router. Live fetches run under baseCtx, not the request
// context, so they outlive a request that ran out of render budget.
func New(baseCtx context.Context, svc *views.Service, opts Options) *Server {
	s := &Server{
		views:   svc,
		baseCtx: baseCtx,
		opts:    opts,
		logger:  logging.NewLogger("server"),
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.CleanPath)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(skipDisconnected)
		api.Get("/home", s.handleHome)
		api.Get("/top", s.handleTop)
		api.Get("/seasonal", s.handleSeasonal)
		api.Get("/anime/{id}", s.handleAnime)
		api.Get("/genres", s.handleGenres)
		api.Get("/genres/{id}", s.handleGenre)
		api.Get("/search", s.handleSearch)
		api.Get("/characters", s.handleCharacterSearch)
		api.Get("/characters/{id}", s.handleCharacter)
		api.Get("/news", s.handleNews)
		api.Get("/news/{id}", s.handleArticle)
		api.Get("/recommendations", s.handleRecommendations)
		api.Get("/site", s.handleSite)
		api.Get("/status", s.handleStatus)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return baseCtx },
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is closed or fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str("addr", s.opts.Addr).
		Dur("render_budget", s.opts.RenderBudget).
		Msg("Starting Jikan proxy server")
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
