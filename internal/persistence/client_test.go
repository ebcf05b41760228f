package persistence

// Uses a mock HTTP server standing in for the persistence API.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	c := New(server.URL)

	if _, err := c.ListWatchlists(""); err != nil {
		t.Fatalf("anonymous ListWatchlists failed: %v", err)
	}
	if _, err := c.ListWatchlists("secret"); err != nil {
		t.Fatalf("authenticated ListWatchlists failed: %v", err)
	}

	if gotAuth[0] != "" {
		t.Errorf("anonymous call must not send an Authorization header, got %q", gotAuth[0])
	}
	if gotAuth[1] != "Token secret" {
		t.Errorf("expected 'Token secret', got %q", gotAuth[1])
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"detail":"no"}`, ErrUnauthorized},
		{http.StatusForbidden, `{"detail":"no"}`, ErrForbidden},
		{http.StatusNotFound, `{"detail":"no"}`, ErrNotFound},
		{http.StatusBadRequest, `{"detail":"Movie is already on this watchlist"}`, ErrDuplicate},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tc.body, tc.status)
			}))
			defer server.Close()

			c := New(server.URL)
			_, err := c.GetWatchlist("tok", "wl-1")
			if !errors.Is(err, tc.want) {
				t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		})
	}
}

func TestBadRequestWithoutDuplicateMarkerIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"name required"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateWatchlist("tok", "", false)
	if errors.Is(err, ErrDuplicate) {
		t.Fatal("a generic 400 must not map to ErrDuplicate")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
}

func TestListDecodeHandlesBothCollectionShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/watchlists/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Bare array shape.
		fmt.Fprint(w, `[{"id":"wl-1","name":"Favorites","userId":7,"isPublic":true}]`)
	})
	mux.HandleFunc("/ratings/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Envelope shape.
		fmt.Fprint(w, `{"results":[{"id":"r-1","userId":7,"movieId":"m-1","score":8}]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL)

	lists, err := c.ListWatchlists("tok")
	if err != nil {
		t.Fatalf("ListWatchlists failed: %v", err)
	}
	if len(lists) != 1 || lists[0].UserID != 7 {
		t.Errorf("unexpected watchlists: %+v", lists)
	}

	ratings, err := c.ListRatingsByUser("tok", 7)
	if err != nil {
		t.Fatalf("ListRatingsByUser failed: %v", err)
	}
	if len(ratings) != 1 || ratings[0].Score != 8 {
		t.Errorf("unexpected ratings: %+v", ratings)
	}
}

func TestWatchlistOwnerFieldCoalescing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Some serializers emit the owner as "user" instead of "userId".
		fmt.Fprint(w, `{"id":"wl-2","name":"Late Night","user":12,"isPublic":false}`)
	}))
	defer server.Close()

	c := New(server.URL)
	list, err := c.GetWatchlist("tok", "wl-2")
	if err != nil {
		t.Fatalf("GetWatchlist failed: %v", err)
	}
	if list.UserID != 12 {
		t.Errorf("expected owner 12 from the 'user' field, got %d", list.UserID)
	}
}

func TestCreateRatingSendsMovieUUID(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"r-9","userId":7,"movieId":"m-3","score":6}`)
	}))
	defer server.Close()

	c := New(server.URL)
	rating, err := c.CreateRating("tok", "m-3", 6)
	if err != nil {
		t.Fatalf("CreateRating failed: %v", err)
	}
	if rating.ID != "r-9" {
		t.Errorf("unexpected rating: %+v", rating)
	}
	if body["movie_uuid"] != "m-3" {
		t.Errorf("expected movie_uuid in payload, got %v", body)
	}
	if _, present := body["movieId"]; present {
		t.Error("rating create must use movie_uuid, not movieId")
	}
}
