// Package session holds the per-browser view state: who is logged in, what
// is on screen, how to get back to the previous view, and which paged query
// is active. It is the single source of truth the handlers read and mutate.
// State is an explicit object handed to handlers, never a package-level
// singleton.
package session

import (
	"sync"
	"time"

	"cinelog/internal/models"
)

// historyDepth bounds the navigation history ring. Older entries are
// silently evicted, oldest first.
const historyDepth = 10

// Entry is one navigation history record.
type Entry struct {
	View      string
	Data      any
	Timestamp time.Time
}

// Session is the state for one browser. All methods are safe for
// concurrent use; two in-flight requests for the same browser still race
// at the flow level (last completion wins), which mirrors the double-click
// behavior this design accepts.
type Session struct {
	mu sync.Mutex

	token         string // cookie token, also the rename-flag key
	userID        int64
	username      string
	upstreamToken string

	currentView      string
	currentWatchlist *models.Watchlist
	previousView     string
	previousViewData any
	history          []Entry

	cursor     Cursor
	generation uint64

	lastSeen time.Time
}

func newSession(token string) *Session {
	s := &Session{token: token, lastSeen: time.Now()}
	s.cursor = defaultCursor()
	return s
}

// Token returns the cookie token this session is keyed by.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetUser records a successful login.
func (s *Session) SetUser(id int64, username, upstreamToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	s.username = username
	s.upstreamToken = upstreamToken
}

// ClearUser drops the credentials on logout.
func (s *Session) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.username = ""
	s.upstreamToken = ""
}

// User returns the logged-in user, or nil for an anonymous session.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upstreamToken == "" {
		return nil
	}
	return &models.User{ID: s.userID, Username: s.username}
}

// UpstreamToken returns the persistence-API token, empty when anonymous.
func (s *Session) UpstreamToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstreamToken
}

// ResetContext clears the current watchlist and the previous-view pointers
// and resets pagination. Called on logout and when returning to the home
// view. Rename flags are stored separately and must be cleared by the
// caller alongside this.
func (s *Session) ResetContext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentWatchlist = nil
	s.previousView = ""
	s.previousViewData = nil
	s.resetPaginationLocked()
}

// SetView records what is currently on screen.
func (s *Session) SetView(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentView = view
}

// View returns the current view tag.
func (s *Session) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentView
}

// SetPrevious records the view to return to from movie detail.
func (s *Session) SetPrevious(view string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousView = view
	s.previousViewData = data
}

// Previous returns the recorded previous view and its payload.
func (s *Session) Previous() (string, any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previousView, s.previousViewData
}

// SetCurrentWatchlist records which watchlist is open, nil to close it.
func (s *Session) SetCurrentWatchlist(w *models.Watchlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentWatchlist = w
}

// CurrentWatchlist returns the open watchlist, or nil.
func (s *Session) CurrentWatchlist() *models.Watchlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentWatchlist
}

// PushHistory appends a navigation entry, evicting the oldest once the
// ring is full. It cannot fail; overflow is silent truncation.
func (s *Session) PushHistory(view string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Entry{View: view, Data: data, Timestamp: time.Now()})
	if len(s.history) > historyDepth {
		s.history = s.history[1:]
	}
}

// PreviousEntry returns the second-to-last history entry (the view before
// the current one, whose own push is already on top) or nil when fewer
// than two entries exist.
func (s *Session) PreviousEntry() *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) < 2 {
		return nil
	}
	e := s.history[len(s.history)-2]
	return &e
}

// ClearHistory empties the navigation history. Done when (re)entering the
// home view so "back" never leads out of the app.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// HistoryLen returns the number of history entries.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
