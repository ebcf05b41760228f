package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/browse"
)

func externalIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "externalID"), 10, 64)
}

// handleMovieDetail serves the detail view for a catalog movie, with the
// community data (user score, average, comments) stitched in from the
// persistence side.
func (s *Server) handleMovieDetail(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	externalID, err := externalIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	movie, err := s.app.Catalog().MovieByID(externalID)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Could not load movie")
		return
	}

	token := sess.UpstreamToken()

	// Community data is best-effort; the catalog half of the view renders
	// even when the persistence service is down.
	var userScore *int
	if user := sess.User(); user != nil {
		rating, err := s.reconcile.UserRatingForMovie(token, user.ID, externalID)
		if err != nil {
			log.Printf("loading user rating for movie %d: %v", externalID, err)
		} else if rating != nil {
			userScore = &rating.Score
		}
	}
	avg, count, err := s.reconcile.AverageRating(token, externalID)
	if err != nil {
		log.Printf("loading average rating for movie %d: %v", externalID, err)
	}
	comments, err := s.reconcile.MovieComments(token, externalID)
	if err != nil {
		log.Printf("loading comments for movie %d: %v", externalID, err)
	}

	// Remember where the detail view was entered from so "back" can
	// replay that query instead of serving a stale snapshot.
	sess.SetPrevious(sess.View(), sess.Cursor())
	sess.SetView("movie_detail")
	sess.PushHistory("movie_detail", externalID)

	RespondWithJSON(w, http.StatusOK, s.views.Detail(movie, userScore, avg, count, comments))
}

// handleBack returns from a movie detail to the view it was entered from.
// A browse view is re-fetched by replaying its query at the same page; when
// there is nothing to go back to, the client is pointed at home.
func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)

	previousView, _ := sess.Previous()
	if previousView == "browse" {
		page, err := s.browse.Replay(sess)
		if err != nil {
			if errors.Is(err, browse.ErrNoActiveQuery) {
				RespondWithJSON(w, http.StatusOK, map[string]string{"view": "home"})
				return
			}
			RespondWithError(w, http.StatusBadGateway, "Could not restore previous view")
			return
		}
		sess.SetView("browse")
		sess.PushHistory("browse", nil)
		RespondWithJSON(w, http.StatusOK, map[string]any{
			"view": "browse",
			"page": s.views.Page(page, sess.Cursor()),
		})
		return
	}

	if previousView != "" {
		sess.SetView(previousView)
		sess.PushHistory(previousView, nil)
		RespondWithJSON(w, http.StatusOK, map[string]string{"view": previousView})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"view": "home"})
}

// handleRateMovie records the caller's score for a movie, updating any
// existing rating in place.
func (s *Server) handleRateMovie(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	externalID, err := externalIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var payload struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Score < 1 || payload.Score > 5 {
		RespondWithError(w, http.StatusBadRequest, "Score must be between 1 and 5")
		return
	}

	user := sess.User()
	rating, err := s.reconcile.RateMovie(sess.UpstreamToken(), user.ID, externalID, payload.Score)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	s.app.WsHub().BroadcastEvent("rating_updated", map[string]any{"movieId": externalID})
	RespondWithJSON(w, http.StatusOK, rating)
}
