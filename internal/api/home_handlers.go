package api

import (
	"log"
	"net/http"
	"slices"

	"cinelog/internal/models"
	"cinelog/internal/util"
)

// handleHome serves the landing payload. Entering home resets the
// navigation context: open watchlist, previous-view pointers, pagination
// cursor, rename flags and history are all cleared so "back" never leads
// out of the app.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	if sess == nil {
		RespondWithError(w, http.StatusInternalServerError, "No session")
		return
	}

	sess.ResetContext()
	sess.ClearHistory()
	if err := s.store.ClearRenameFlags(sess.Token()); err != nil {
		log.Printf("clearing rename flags for session: %v", err)
	}
	sess.SetView("home")
	sess.PushHistory("home", nil)

	trending, err := s.app.CatalogCache().Trending()
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load trending movies")
		return
	}
	genres, err := s.app.CatalogCache().Genres()
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load genres")
		return
	}

	// Watchlists are decoration on the home view; a persistence outage
	// should not take the whole page down.
	watchlists, err := s.app.Persistence().ListWatchlists(sess.UpstreamToken())
	if err != nil {
		log.Printf("listing watchlists for home: %v", err)
		watchlists = nil
	}
	slices.SortFunc(watchlists, func(a, b models.Watchlist) int {
		return util.NaturalCompare(a.Name, b.Name)
	})

	RespondWithJSON(w, http.StatusOK, s.views.Home(trending, genres, watchlists, sess.User()))
}
