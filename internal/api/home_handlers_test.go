package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"cinelog/internal/models"
	"cinelog/internal/testutil"
)

type homeViewResponse struct {
	Trending []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"trending"`
	Genres     []models.Genre     `json:"genres"`
	Watchlists []models.Watchlist `json:"watchlists"`
	User       *models.User       `json:"user"`
}

func TestHomeServesTrendingAndGenres(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := testutil.GetAuthCookie(t, env, "alice", "password123")

	createWatchlist(t, router, cookie, "watchlist 10", true)
	createWatchlist(t, router, cookie, "watchlist 2", false)

	rr := doRequest(t, router, "GET", "/api/home", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("home returned %d: %s", rr.Code, rr.Body.String())
	}
	var home homeViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &home); err != nil {
		t.Fatalf("decoding home view: %v", err)
	}
	if len(home.Trending) == 0 {
		t.Error("home should carry trending movies")
	}
	if len(home.Genres) != 2 {
		t.Errorf("expected 2 genres, got %+v", home.Genres)
	}
	if home.User == nil || home.User.Username != "alice" {
		t.Errorf("home should identify the signed-in user, got %+v", home.User)
	}
	// Numeric name segments sort by value, so "2" comes before "10".
	if len(home.Watchlists) != 2 ||
		home.Watchlists[0].Name != "watchlist 2" ||
		home.Watchlists[1].Name != "watchlist 10" {
		t.Errorf("expected naturally sorted watchlists, got %+v", home.Watchlists)
	}
}

func TestHomeForAnonymousVisitor(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	ownerCookie := testutil.GetAuthCookie(t, env, "alice", "password123")
	createWatchlist(t, router, ownerCookie, "Private Picks", false)
	createWatchlist(t, router, ownerCookie, "Public Picks", true)

	rr := doRequest(t, router, "GET", "/api/home", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("home returned %d: %s", rr.Code, rr.Body.String())
	}
	var home homeViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &home); err != nil {
		t.Fatalf("decoding home view: %v", err)
	}
	if home.User != nil {
		t.Errorf("anonymous home should carry no user, got %+v", home.User)
	}
	if len(home.Watchlists) != 1 || home.Watchlists[0].Name != "Public Picks" {
		t.Errorf("anonymous visitors see only public watchlists, got %+v", home.Watchlists)
	}
}

func TestHomeResetsNavigationContext(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	doRequest(t, router, "GET", "/api/search?q=first", nil, cookie)
	doRequest(t, router, "GET", "/api/home", nil, cookie)

	// The pagination cursor was cleared, so a page change has nothing
	// to act on.
	rr := doRequest(t, router, "POST", "/api/page?n=2", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("page change returned %d", rr.Code)
	}
	var resp struct {
		Changed bool `json:"changed"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding page response: %v", err)
	}
	if resp.Changed {
		t.Error("page change after returning home should be a no-op")
	}
}
