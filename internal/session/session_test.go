package session

import (
	"testing"
	"time"

	"cinelog/internal/models"
)

func TestSessionUserLifecycle(t *testing.T) {
	s := newSession("tok")

	if s.User() != nil {
		t.Fatal("fresh session should be anonymous")
	}

	s.SetUser(42, "alice", "upstream-token")
	user := s.User()
	if user == nil {
		t.Fatal("expected a user after SetUser")
	}
	if user.ID != 42 || user.Username != "alice" {
		t.Errorf("unexpected user %+v", user)
	}
	if s.UpstreamToken() != "upstream-token" {
		t.Errorf("expected upstream token to round-trip, got %q", s.UpstreamToken())
	}

	s.ClearUser()
	if s.User() != nil {
		t.Error("session should be anonymous after ClearUser")
	}
	if s.UpstreamToken() != "" {
		t.Error("upstream token should be cleared on logout")
	}
}

func TestHistoryEvictsOldestBeyondDepth(t *testing.T) {
	s := newSession("tok")

	for i := 0; i < historyDepth+5; i++ {
		s.PushHistory("view", i)
	}
	if got := s.HistoryLen(); got != historyDepth {
		t.Fatalf("expected history capped at %d, got %d", historyDepth, got)
	}

	// The 5 oldest entries were evicted; the second-to-last is depth+3.
	prev := s.PreviousEntry()
	if prev == nil {
		t.Fatal("expected a previous entry")
	}
	if prev.Data.(int) != historyDepth+3 {
		t.Errorf("expected previous entry data %d, got %v", historyDepth+3, prev.Data)
	}
}

func TestPreviousEntryNeedsTwoEntries(t *testing.T) {
	s := newSession("tok")
	if s.PreviousEntry() != nil {
		t.Error("empty history should have no previous entry")
	}
	s.PushHistory("home", nil)
	if s.PreviousEntry() != nil {
		t.Error("single-entry history should have no previous entry")
	}
	s.PushHistory("browse", nil)
	prev := s.PreviousEntry()
	if prev == nil || prev.View != "home" {
		t.Errorf("expected previous entry to be home, got %+v", prev)
	}
}

func TestResetContextClearsViewStateButNotUser(t *testing.T) {
	s := newSession("tok")
	s.SetUser(1, "bob", "token")
	s.SetCurrentWatchlist(&models.Watchlist{ID: "wl-1", Name: "Favorites"})
	s.SetPrevious("browse", "payload")
	s.StartSearch("robots")

	s.ResetContext()

	if s.CurrentWatchlist() != nil {
		t.Error("current watchlist should be cleared")
	}
	if view, data := s.Previous(); view != "" || data != nil {
		t.Error("previous view pointers should be cleared")
	}
	if cursor := s.Cursor(); cursor.Type != QueryNone || cursor.CurrentPage != 1 {
		t.Errorf("pagination should be reset, got %+v", cursor)
	}
	if s.User() == nil {
		t.Error("reset must not log the user out")
	}
}

func TestManagerEnsureAndPrune(t *testing.T) {
	m := NewManager()

	s1 := m.Ensure("a")
	s2 := m.Ensure("a")
	if s1 != s2 {
		t.Error("Ensure should return the same session for the same token")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session, got %d", m.Len())
	}

	m.Ensure("b")
	s1.lastSeen = time.Now().Add(-2 * time.Hour)

	if removed := m.Prune(time.Hour); removed != 1 {
		t.Fatalf("expected 1 pruned session, got %d", removed)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session left, got %d", m.Len())
	}

	m.Drop("b")
	if m.Len() != 0 {
		t.Errorf("expected no sessions after Drop, got %d", m.Len())
	}
}
