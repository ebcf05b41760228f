package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Manager owns the in-memory sessions, keyed by cookie token. Credentials
// survive a restart through the store's session table; the navigation and
// pagination state here is ephemeral view state and does not.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// NewToken returns a fresh random session token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Ensure returns the session for the given token, creating it if this is
// the first request carrying that cookie (e.g. after a server restart).
func (m *Manager) Ensure(token string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		s = newSession(token)
		m.sessions[token] = s
	}
	s.touch()
	return s
}

// Drop removes a session from memory (logout).
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were removed. Run periodically so abandoned anonymous sessions do not
// accumulate.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}
