package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"cinelog/internal/models"
	"cinelog/internal/persistence"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, s.app.Persistence().Register)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, s.app.Persistence().Login)
}

// authenticate runs the shared login/register flow: exchange credentials
// upstream, persist the session locally, rotate the cookie token and bind
// the user to a fresh in-memory session.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request, exchange func(username, password string) (string, models.User, error)) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	upstreamToken, user, err := exchange(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, persistence.ErrUnauthorized) {
			RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		var apiErr *persistence.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			RespondWithError(w, http.StatusBadRequest, "Registration rejected")
			return
		}
		respondWithUpstreamError(w, err)
		return
	}

	ttl := time.Duration(s.app.Config().SessionTTLHours) * time.Hour
	token, err := s.store.CreateSession(user.ID, user.Username, upstreamToken, ttl)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Rotate the cookie: the anonymous session and its view state are
	// discarded along with the old token.
	if old := getSessionFromContext(r); old != nil {
		s.app.Sessions().Drop(old.Token())
	}
	sess := s.app.Sessions().Ensure(token)
	sess.SetUser(user.ID, user.Username, upstreamToken)

	s.setSessionCookie(w, r, token)
	RespondWithJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	if sess != nil {
		token := sess.Token()
		// rename_flags cascade with the session row.
		if err := s.store.DeleteSession(token); err != nil {
			log.Printf("deleting session on logout: %v", err)
		}
		sess.ClearUser()
		sess.ResetContext()
		sess.ClearHistory()
		s.app.Sessions().Drop(token)
	}
	s.clearSessionCookie(w, r)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)
	if sess == nil || sess.User() == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	RespondWithJSON(w, http.StatusOK, sess.User())
}
