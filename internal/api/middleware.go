package api

// Session resolution for every request. Unlike a classic auth middleware
// this never rejects: anonymous browsers get a session too, so public
// views work without logging in.

import (
	"context"
	"log"
	"net/http"
	"time"

	"cinelog/internal/session"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const sessionContextKey = contextKey("session")

const sessionCookieName = "session_token"

// SessionMiddleware resolves the browser's session from its cookie, minting
// a fresh anonymous session when none exists. Credentials persisted in the
// local database are rehydrated into the in-memory session, so logins
// survive a server restart.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			fresh, err := session.NewToken()
			if err != nil {
				RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
				return
			}
			token = fresh
			s.setSessionCookie(w, r, token)
		}

		sess := s.app.Sessions().Ensure(token)
		if sess.User() == nil {
			// Navigation state is in-memory only; the credentials may
			// still be on disk from before a restart.
			if rec, err := s.store.GetSession(token); err == nil && !rec.Anonymous() {
				sess.SetUser(rec.UserID, rec.Username, rec.UpstreamToken)
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	ttl := time.Duration(s.app.Config().SessionTTLHours) * time.Hour
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// getSessionFromContext retrieves the session placed by SessionMiddleware.
// Handlers behind the middleware can rely on it being present.
func getSessionFromContext(r *http.Request) *session.Session {
	sess, ok := r.Context().Value(sessionContextKey).(*session.Session)
	if !ok {
		log.Println("request reached a handler without a session in context")
		return nil
	}
	return sess
}

// requireUser returns the session when it carries a logged-in user, or
// writes a 401 and returns nil.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := getSessionFromContext(r)
	if sess == nil || sess.User() == nil {
		RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}
	return sess
}
