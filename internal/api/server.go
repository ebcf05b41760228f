// Defines the API server, sets up the routes using chi, and links them to
// the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cinelog/internal/browse"
	"cinelog/internal/core"
	"cinelog/internal/reconcile"
	"cinelog/internal/store"
	"cinelog/internal/view"
	ws "cinelog/internal/websocket"
)

// Server holds the dependencies for the API.
type Server struct {
	app       *core.App
	store     *store.Store
	reconcile *reconcile.Service
	browse    *browse.Controller
	views     *view.Builder
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:       app,
		store:     app.Store(),
		reconcile: reconcile.New(app.Catalog(), app.Persistence()),
		browse:    browse.New(app.Catalog()),
		views:     view.NewBuilder(app.Config().Catalog.ImageBaseURL),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/proxy/poster", s.handleProxyPoster)

	r.Get("/ws/updates", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(s.app.WsHub(), w, req)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.SessionMiddleware)

		r.Route("/api", func(r chi.Router) {
			r.Post("/auth/register", s.handleRegister)
			r.Post("/auth/login", s.handleLogin)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleGetMe)

			r.Get("/home", s.handleHome)

			// Browsing
			r.Get("/search", s.handleSearch)
			r.Get("/genres", s.handleListGenres)
			r.Get("/genres/{genreID}/movies", s.handleGenreMovies)
			r.Post("/discover", s.handleDiscover)
			r.Post("/page", s.handlePageChange)

			// Movie detail
			r.Get("/movies/{externalID}", s.handleMovieDetail)
			r.Post("/movies/{externalID}/back", s.handleBack)
			r.Post("/movies/{externalID}/rating", s.handleRateMovie)
			r.Get("/movies/{externalID}/comments", s.handleListComments)
			r.Post("/movies/{externalID}/comments", s.handleAddComment)
			r.Delete("/comments/{commentID}", s.handleDeleteComment)

			// Watchlists
			r.Get("/watchlists", s.handleListWatchlists)
			r.Post("/watchlists", s.handleCreateWatchlist)
			r.Get("/watchlists/{watchlistID}", s.handleGetWatchlist)
			r.Patch("/watchlists/{watchlistID}", s.handleUpdateWatchlist)
			r.Delete("/watchlists/{watchlistID}", s.handleDeleteWatchlist)
			r.Post("/watchlists/{watchlistID}/movies/{externalID}", s.handleAddToWatchlist)
			r.Delete("/watchlists/{watchlistID}/movies/{externalID}", s.handleRemoveFromWatchlist)
			r.Post("/watchlists/{watchlistID}/rename-mode", s.handleEnterRenameMode)
			r.Delete("/watchlists/{watchlistID}/rename-mode", s.handleExitRenameMode)

			// Background jobs
			r.Get("/jobs/status", s.handleGetJobsStatus)
		})
	})

	return r
}
