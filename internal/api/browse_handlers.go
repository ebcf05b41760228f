package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/models"
)

// handleSearch starts a text search and serves its first page.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	query := r.URL.Query().Get("q")
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing 'q' parameter")
		return
	}

	page, err := s.browse.Search(sess, query)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Search failed")
		return
	}

	sess.SetView("browse")
	sess.PushHistory("browse", map[string]string{"type": "search", "query": query})
	RespondWithJSON(w, http.StatusOK, s.views.Page(page, sess.Cursor()))
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.app.CatalogCache().Genres()
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load genres")
		return
	}
	RespondWithJSON(w, http.StatusOK, genres)
}

// handleGenreMovies starts browsing a single genre.
func (s *Server) handleGenreMovies(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	genreID, err := strconv.ParseInt(chi.URLParam(r, "genreID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid genre ID")
		return
	}

	genreName := s.genreName(genreID)
	page, err := s.browse.Genre(sess, genreID, genreName)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load genre movies")
		return
	}

	sess.SetView("browse")
	sess.PushHistory("browse", map[string]any{"type": "genre", "genreId": genreID})
	RespondWithJSON(w, http.StatusOK, s.views.Page(page, sess.Cursor()))
}

// handleDiscover starts a multi-criteria filtered query.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	var filters models.Filters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if filters.IsZero() {
		RespondWithError(w, http.StatusBadRequest, "At least one filter is required")
		return
	}

	page, err := s.browse.Filtered(sess, filters)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Discover failed")
		return
	}

	sess.SetView("browse")
	sess.PushHistory("browse", map[string]string{"type": "filtered"})
	RespondWithJSON(w, http.StatusOK, s.views.Page(page, sess.Cursor()))
}

// handlePageChange moves the active query to another page. Requests outside
// the valid range are no-ops that re-serve the current state.
func (s *Server) handlePageChange(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	page, ok, err := s.browse.PageChange(sess, n)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load page")
		return
	}
	if !ok {
		// Out of range or no active query: nothing changes.
		RespondWithJSON(w, http.StatusOK, map[string]any{"changed": false, "cursor": sess.Cursor()})
		return
	}
	RespondWithJSON(w, http.StatusOK, s.views.Page(page, sess.Cursor()))
}

func (s *Server) genreName(genreID int64) string {
	genres, err := s.app.CatalogCache().Genres()
	if err != nil {
		return ""
	}
	for _, g := range genres {
		if g.ID == genreID {
			return g.Name
		}
	}
	return ""
}
