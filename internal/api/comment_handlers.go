package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/models"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	externalID, err := externalIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	comments, err := s.reconcile.MovieComments(sess.UpstreamToken(), externalID)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	RespondWithJSON(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
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
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	payload.Text = strings.TrimSpace(payload.Text)
	if payload.Text == "" {
		RespondWithError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	comment, err := s.reconcile.AddComment(sess.UpstreamToken(), externalID, payload.Text)
	if err != nil {
		respondWithUpstreamError(w, err)
		return
	}

	s.app.WsHub().BroadcastEvent("comment_added", map[string]any{"movieId": externalID})
	RespondWithJSON(w, http.StatusCreated, comment)
}

// handleDeleteComment removes one of the caller's own comments. Ownership
// is re-verified against the persistence record before deleting.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	commentID := chi.URLParam(r, "commentID")

	user := sess.User()
	if err := s.reconcile.DeleteComment(sess.UpstreamToken(), user.ID, commentID); err != nil {
		respondWithUpstreamError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
