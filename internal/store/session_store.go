package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"
)

// SessionRecord is one browser session: the cookie token issued to the
// browser and the upstream persistence-API token it stands in for.
type SessionRecord struct {
	Token         string
	UserID        int64
	Username      string
	UpstreamToken string
	Expiry        time.Time
}

// Anonymous reports whether the session carries no upstream credentials.
func (r *SessionRecord) Anonymous() bool {
	return r.UpstreamToken == ""
}

// CreateSession creates a new session row and returns the cookie token.
func (s *Store) CreateSession(userID int64, username, upstreamToken string, ttl time.Duration) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(ttl)
	_, err := s.db.Exec(
		"INSERT INTO sessions (token, user_id, username, upstream_token, expiry) VALUES (?, ?, ?, ?, ?)",
		token, userID, username, upstreamToken, expiry)
	if err != nil {
		return "", err
	}
	return token, nil
}

// GetSession retrieves a session by its cookie token. Expired sessions are
// deleted on sight and reported as invalid.
func (s *Store) GetSession(token string) (*SessionRecord, error) {
	var rec SessionRecord
	query := "SELECT token, user_id, username, upstream_token, expiry FROM sessions WHERE token = ?"
	err := s.db.QueryRow(query, token).Scan(&rec.Token, &rec.UserID, &rec.Username, &rec.UpstreamToken, &rec.Expiry)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("invalid session token")
		}
		return nil, err
	}

	if time.Now().After(rec.Expiry) {
		s.DeleteSession(token) // Clean up expired session
		return nil, errors.New("session expired")
	}

	return &rec, nil
}

// DeleteSession removes a session (used for logout). Rename flags cascade.
func (s *Store) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpiredSessions removes every session past its expiry and returns
// how many rows were deleted.
func (s *Store) PurgeExpiredSessions() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expiry < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetRenameFlag marks a watchlist as being in rename mode for this session.
func (s *Store) SetRenameFlag(sessionToken, watchlistID string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO rename_flags (session_token, watchlist_id) VALUES (?, ?)",
		sessionToken, watchlistID)
	return err
}

// ClearRenameFlag removes the rename-mode marker for one watchlist.
func (s *Store) ClearRenameFlag(sessionToken, watchlistID string) error {
	_, err := s.db.Exec(
		"DELETE FROM rename_flags WHERE session_token = ? AND watchlist_id = ?",
		sessionToken, watchlistID)
	return err
}

// HasRenameFlag reports whether the watchlist is in rename mode for this
// session.
func (s *Store) HasRenameFlag(sessionToken, watchlistID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM rename_flags WHERE session_token = ? AND watchlist_id = ?",
		sessionToken, watchlistID).Scan(&count)
	return count > 0, err
}

// ClearRenameFlags removes every rename-mode marker for this session.
// Called on logout and on context reset.
func (s *Store) ClearRenameFlags(sessionToken string) error {
	_, err := s.db.Exec("DELETE FROM rename_flags WHERE session_token = ?", sessionToken)
	return err
}
