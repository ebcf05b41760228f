// Covers the session registry and rename-flag persistence.
// Uses an in-memory SQLite database so tests are fast and isolated.

package store_test

import (
	"testing"
	"time"

	"cinelog/internal/store"
	"cinelog/internal/testutil"
)

func TestSessionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	token, err := s.CreateSession(7, "alice", "upstream-tok", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected a 32-byte hex token, got %d chars", len(token))
	}

	rec, err := s.GetSession(token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if rec.UserID != 7 || rec.Username != "alice" || rec.UpstreamToken != "upstream-tok" {
		t.Errorf("unexpected session record: %+v", rec)
	}
	if rec.Anonymous() {
		t.Error("session with an upstream token must not be anonymous")
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := s.GetSession(token); err == nil {
		t.Error("expected an error for a deleted session")
	}
}

func TestExpiredSessionIsRejectedAndRemoved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	token, err := s.CreateSession(7, "alice", "tok", -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := s.GetSession(token); err == nil {
		t.Fatal("expected an expired session to be rejected")
	}

	// The row should have been deleted on sight.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = ?", token).Scan(&count); err != nil {
		t.Fatalf("counting sessions failed: %v", err)
	}
	if count != 0 {
		t.Error("expired session row should be removed")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	if _, err := s.CreateSession(1, "old", "t1", -time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateSession(2, "older", "t2", -time.Hour); err != nil {
		t.Fatal(err)
	}
	live, err := s.CreateSession(3, "live", "t3", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	purged, err := s.PurgeExpiredSessions()
	if err != nil {
		t.Fatalf("PurgeExpiredSessions failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged sessions, got %d", purged)
	}
	if _, err := s.GetSession(live); err != nil {
		t.Errorf("live session should survive the purge: %v", err)
	}
}

func TestRenameFlags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	token, err := s.CreateSession(7, "alice", "tok", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetRenameFlag(token, "wl-1"); err != nil {
		t.Fatalf("SetRenameFlag failed: %v", err)
	}
	// Setting the same flag twice is a no-op, not an error.
	if err := s.SetRenameFlag(token, "wl-1"); err != nil {
		t.Fatalf("repeated SetRenameFlag failed: %v", err)
	}

	renaming, err := s.HasRenameFlag(token, "wl-1")
	if err != nil || !renaming {
		t.Errorf("expected rename flag set, got %v (err %v)", renaming, err)
	}
	renaming, _ = s.HasRenameFlag(token, "wl-2")
	if renaming {
		t.Error("flag must be scoped to the watchlist it was set for")
	}

	if err := s.ClearRenameFlag(token, "wl-1"); err != nil {
		t.Fatalf("ClearRenameFlag failed: %v", err)
	}
	renaming, _ = s.HasRenameFlag(token, "wl-1")
	if renaming {
		t.Error("flag should be cleared")
	}
}

func TestRenameFlagsCascadeWithSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	token, err := s.CreateSession(7, "alice", "tok", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetRenameFlag(token, "wl-1"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM rename_flags WHERE session_token = ?", token).Scan(&count); err != nil {
		t.Fatalf("counting rename flags failed: %v", err)
	}
	if count != 0 {
		t.Error("rename flags should cascade when the session row is deleted")
	}
}
