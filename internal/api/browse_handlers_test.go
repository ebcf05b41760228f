package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinelog/internal/testutil"
)

type pageViewResponse struct {
	Movies []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"movies"`
	Pagination *struct {
		CurrentPage  int    `json:"currentPage"`
		TotalPages   int    `json:"totalPages"`
		TotalResults int    `json:"totalResults"`
		QueryType    string `json:"queryType"`
	} `json:"pagination"`
}

// anonCookie primes an anonymous session and returns its cookie so later
// requests land on the same session.
func anonCookie(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	req, _ := http.NewRequest("GET", "/api/genres", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	req2, _ := http.NewRequest("GET", "/api/home", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req2)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued for anonymous request")
	return nil
}

func TestSearchServesFirstPageWithPagination(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	rr := doRequest(t, router, "GET", "/api/search?q=first", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rr.Code, rr.Body.String())
	}

	var page pageViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	if len(page.Movies) != 1 || page.Movies[0].Title != "The First Picture" {
		t.Errorf("unexpected results: %+v", page.Movies)
	}
	if page.Pagination == nil {
		t.Fatal("multi-page results must carry pagination")
	}
	if page.Pagination.CurrentPage != 1 || page.Pagination.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", page.Pagination)
	}
	if page.Pagination.QueryType != "search" {
		t.Errorf("expected query type search, got %q", page.Pagination.QueryType)
	}
}

func TestPageChangeWithinBounds(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	doRequest(t, router, "GET", "/api/search?q=first", nil, cookie)

	rr := doRequest(t, router, "POST", "/api/page?n=2", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("page change returned %d: %s", rr.Code, rr.Body.String())
	}
	var page pageViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding page response: %v", err)
	}
	if page.Pagination == nil || page.Pagination.CurrentPage != 2 {
		t.Errorf("expected to land on page 2, got %+v", page.Pagination)
	}
}

func TestPageChangeOutOfBoundsIsNoOp(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	doRequest(t, router, "GET", "/api/search?q=first", nil, cookie)

	rr := doRequest(t, router, "POST", "/api/page?n=99", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("out-of-range page change returned %d", rr.Code)
	}
	var resp struct {
		Changed bool `json:"changed"`
		Cursor  struct {
			CurrentPage int
		} `json:"cursor"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding no-op response: %v", err)
	}
	if resp.Changed {
		t.Error("page 99 of 2 must not change the cursor")
	}
	if resp.Cursor.CurrentPage != 1 {
		t.Errorf("cursor should stay on page 1, got %d", resp.Cursor.CurrentPage)
	}
}

func TestPageChangeWithoutActiveQueryIsNoOp(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	rr := doRequest(t, router, "POST", "/api/page?n=1", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for no-op, got %d", rr.Code)
	}
	var resp struct {
		Changed bool `json:"changed"`
	}
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Changed {
		t.Error("page change with no active query must be a no-op")
	}
}

func TestGenreBrowsing(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	rr := doRequest(t, router, "GET", "/api/genres/28/movies", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("genre browse returned %d: %s", rr.Code, rr.Body.String())
	}
	var page pageViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decoding genre response: %v", err)
	}
	if len(page.Movies) != 3 {
		t.Errorf("expected 3 movies, got %d", len(page.Movies))
	}
	if page.Pagination == nil || page.Pagination.QueryType != "genre" {
		t.Errorf("expected genre pagination, got %+v", page.Pagination)
	}
}

func TestDiscoverRequiresAFilter(t *testing.T) {
	env := testutil.SetupTestServer(t)
	router := env.Server.Router()
	cookie := anonCookie(t, router)

	rr := doRequest(t, router, "POST", "/api/discover", map[string]any{}, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty filter set should be rejected, got %d", rr.Code)
	}

	rr = doRequest(t, router, "POST", "/api/discover", map[string]any{"year": 2022}, cookie)
	if rr.Code != http.StatusOK {
		t.Errorf("discover with a filter returned %d: %s", rr.Code, rr.Body.String())
	}
}
