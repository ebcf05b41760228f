package api

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/models"
	"cinelog/internal/util"
)

// handleListWatchlists returns the watchlists visible to the caller. The
// optional scope parameter narrows to the caller's own lists ("my") or to
// public ones ("public").
func (s *Server) handleListWatchlists(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	scope := r.URL.Query().Get("scope")

	if scope == "my" && sess.User() == nil {
		RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	lists, err := s.app.Persistence().ListWatchlists(sess.UpstreamToken())
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	filtered := make([]models.Watchlist, 0, len(lists))
	for _, list := range lists {
		switch scope {
		case "my":
			if list.UserID == sess.User().ID {
				filtered = append(filtered, list)
			}
		case "public":
			if list.IsPublic {
				filtered = append(filtered, list)
			}
		default:
			filtered = append(filtered, list)
		}
	}
	slices.SortFunc(filtered, func(a, b models.Watchlist) int {
		return util.NaturalCompare(a.Name, b.Name)
	})
	RespondWithJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}

	var payload struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		RespondWithError(w, http.StatusBadRequest, "Watchlist name is required")
		return
	}

	list, err := s.app.Persistence().CreateWatchlist(sess.UpstreamToken(), payload.Name, payload.IsPublic)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, list)
}

// handleGetWatchlist serves the watchlist view with its movies hydrated
// from the catalog. Opening a watchlist makes it the session's current one.
func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	watchlistID := chi.URLParam(r, "watchlistID")
	token := sess.UpstreamToken()

	list, err := s.app.Persistence().GetWatchlist(token, watchlistID)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	entries, err := s.reconcile.WatchlistMovies(token, watchlistID)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}
	movies := make([]models.Movie, 0, len(entries))
	for _, entry := range entries {
		movies = append(movies, entry.Movie)
	}

	renaming := false
	if user := sess.User(); user != nil && list.UserID == user.ID {
		renaming, err = s.store.HasRenameFlag(sess.Token(), watchlistID)
		if err != nil {
			log.Printf("reading rename flag for watchlist %s: %v", watchlistID, err)
		}
	}

	sess.SetCurrentWatchlist(&list)
	sess.SetView("watchlist")
	sess.PushHistory("watchlist", watchlistID)

	var viewerID int64
	if user := sess.User(); user != nil {
		viewerID = user.ID
	}
	RespondWithJSON(w, http.StatusOK, s.views.Watchlist(list, movies, viewerID, renaming))
}

// handleUpdateWatchlist renames a watchlist or toggles its visibility.
// A successful rename also leaves rename mode.
func (s *Server) handleUpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	watchlistID := chi.URLParam(r, "watchlistID")
	token := sess.UpstreamToken()

	if _, err := s.reconcile.VerifyWatchlistOwnership(token, sess.User().ID, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	var payload struct {
		Name     *string `json:"name"`
		IsPublic *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var (
		updated models.Watchlist
		err     error
	)
	switch {
	case payload.Name != nil:
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			RespondWithError(w, http.StatusBadRequest, "Watchlist name is required")
			return
		}
		updated, err = s.app.Persistence().UpdateWatchlistName(token, watchlistID, name)
		if err == nil {
			if flagErr := s.store.ClearRenameFlag(sess.Token(), watchlistID); flagErr != nil {
				log.Printf("clearing rename flag for watchlist %s: %v", watchlistID, flagErr)
			}
		}
	case payload.IsPublic != nil:
		updated, err = s.app.Persistence().UpdateWatchlistVisibility(token, watchlistID, *payload.IsPublic)
	default:
		RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	if current := sess.CurrentWatchlist(); current != nil && current.ID == watchlistID {
		sess.SetCurrentWatchlist(&updated)
	}
	s.app.WsHub().BroadcastEvent("watchlist_updated", map[string]string{"id": watchlistID})
	RespondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteWatchlist removes a watchlist and all its links.
func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	watchlistID := chi.URLParam(r, "watchlistID")
	token := sess.UpstreamToken()

	if _, err := s.reconcile.VerifyWatchlistOwnership(token, sess.User().ID, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	if err := s.reconcile.DeleteWatchlist(token, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	if err := s.store.ClearRenameFlag(sess.Token(), watchlistID); err != nil {
		log.Printf("clearing rename flag for watchlist %s: %v", watchlistID, err)
	}
	if current := sess.CurrentWatchlist(); current != nil && current.ID == watchlistID {
		sess.SetCurrentWatchlist(nil)
	}
	s.app.WsHub().BroadcastEvent("watchlist_deleted", map[string]string{"id": watchlistID})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	watchlistID := chi.URLParam(r, "watchlistID")
	externalID, err := externalIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	token := sess.UpstreamToken()

	if _, err := s.reconcile.VerifyWatchlistOwnership(token, sess.User().ID, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	link, err := s.reconcile.AddMovieToWatchlist(token, watchlistID, externalID)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	s.app.WsHub().BroadcastEvent("watchlist_updated", map[string]string{"id": watchlistID})
	RespondWithJSON(w, http.StatusCreated, link)
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	watchlistID := chi.URLParam(r, "watchlistID")
	externalID, err := externalIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	token := sess.UpstreamToken()

	if _, err := s.reconcile.VerifyWatchlistOwnership(token, sess.User().ID, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	if err := s.reconcile.RemoveMovieFromWatchlist(token, watchlistID, externalID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	s.app.WsHub().BroadcastEvent("watchlist_updated", map[string]string{"id": watchlistID})
	w.WriteHeader(http.StatusNoContent)
}

// Rename mode is per-session UI state: the flag survives a restart but is
// scoped to the session that set it, not to the watchlist globally.

func (s *Server) handleEnterRenameMode(w http.ResponseWriter, r *http.Request) {
	s.setRenameMode(w, r, true)
}

func (s *Server) handleExitRenameMode(w http.ResponseWriter, r *http.Request) {
	s.setRenameMode(w, r, false)
}

func (s *Server) setRenameMode(w http.ResponseWriter, r *http.Request, enter bool) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	watchlistID := chi.URLParam(r, "watchlistID")

	if _, err := s.reconcile.VerifyWatchlistOwnership(sess.UpstreamToken(), sess.User().ID, watchlistID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	var err error
	if enter {
		err = s.store.SetRenameFlag(sess.Token(), watchlistID)
	} else {
		err = s.store.ClearRenameFlag(sess.Token(), watchlistID)
	}
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update rename mode")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]bool{"renaming": enter})
}
