package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// fakeCatalogMovie is the wire shape the fake catalog serves, matching the
// real catalog's field names.
type fakeCatalogMovie struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Overview    string           `json:"overview"`
	PosterPath  string           `json:"poster_path"`
	ReleaseDate string           `json:"release_date"`
	VoteAverage float64          `json:"vote_average"`
	Genres      []map[string]any `json:"genres,omitempty"`
}

// SetupFakeCatalog starts an httptest server that mimics the external movie
// catalog: trending, search, discover, genre list and movie details. Search
// reports two pages of results so pagination paths can be exercised.
func SetupFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	movies := []fakeCatalogMovie{
		{ID: 101, Title: "The First Picture", Overview: "A beginning.", PosterPath: "/first.jpg", ReleaseDate: "2021-03-01", VoteAverage: 7.5},
		{ID: 102, Title: "Second Chances", Overview: "A middle.", PosterPath: "/second.jpg", ReleaseDate: "2022-07-15", VoteAverage: 6.1},
		{ID: 103, Title: "Third Act", Overview: "An ending.", PosterPath: "/third.jpg", ReleaseDate: "2023-11-20", VoteAverage: 8.2},
	}

	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, payload any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
	pageEnvelope := func(results []fakeCatalogMovie, page, totalPages, totalResults int) map[string]any {
		return map[string]any{
			"results":       results,
			"page":          page,
			"total_pages":   totalPages,
			"total_results": totalResults,
		}
	}

	mux.HandleFunc("/trending/movie/week", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pageEnvelope(movies, 1, 1, len(movies)))
	})

	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"genres": []map[string]any{
			{"id": 28, "name": "Action"},
			{"id": 35, "name": "Comedy"},
		}})
	})

	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(r.URL.Query().Get("query"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		var results []fakeCatalogMovie
		for _, m := range movies {
			if strings.Contains(strings.ToLower(m.Title), query) {
				results = append(results, m)
			}
		}
		// Two pages of the same results; enough to drive page changes.
		writeJSON(w, pageEnvelope(results, page, 2, len(results)*2))
	})

	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		writeJSON(w, pageEnvelope(movies, page, 3, len(movies)*3))
	})

	mux.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/movie/"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		for _, m := range movies {
			if m.ID == id {
				m.Genres = []map[string]any{{"id": 28, "name": "Action"}}
				writeJSON(w, m)
				return
			}
		}
		http.Error(w, fmt.Sprintf("movie %d not found", id), http.StatusNotFound)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}
