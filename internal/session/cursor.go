package session

import "cinelog/internal/models"

// QueryType tags which paged query is active.
type QueryType string

const (
	QueryNone     QueryType = ""
	QuerySearch   QueryType = "search"
	QueryGenre    QueryType = "genre"
	QueryFiltered QueryType = "filtered"
)

const defaultPageSize = 20

// Cursor describes the active paged query and which page is on screen.
// Type and its parameter are always set together; starting a new query of
// any type resets the page to 1.
type Cursor struct {
	CurrentPage  int
	TotalPages   int
	TotalResults int
	PageSize     int

	Type      QueryType
	Query     string // set when Type == QuerySearch
	GenreID   int64  // set when Type == QueryGenre
	GenreName string
	Filters   models.Filters // set when Type == QueryFiltered
}

func defaultCursor() Cursor {
	return Cursor{CurrentPage: 1, PageSize: defaultPageSize}
}

// Cursor returns a copy of the pagination cursor.
func (s *Session) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// ResetPagination restores the cursor to page 1, zero totals, no query
// type. Leaving the browsing flow lands here; idle has no re-fetch.
func (s *Session) ResetPagination() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetPaginationLocked()
}

func (s *Session) resetPaginationLocked() {
	s.cursor = defaultCursor()
	s.generation++
}

// StartSearch transitions the cursor to browsing(search, query, page 1)
// and returns the cursor snapshot plus the generation the caller must
// present when applying the response.
func (s *Session) StartSearch(query string) (Cursor, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = defaultCursor()
	s.cursor.Type = QuerySearch
	s.cursor.Query = query
	s.generation++
	return s.cursor, s.generation
}

// StartGenre transitions the cursor to browsing(genre, id/name, page 1).
func (s *Session) StartGenre(genreID int64, genreName string) (Cursor, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = defaultCursor()
	s.cursor.Type = QueryGenre
	s.cursor.GenreID = genreID
	s.cursor.GenreName = genreName
	s.generation++
	return s.cursor, s.generation
}

// StartFiltered transitions the cursor to browsing(filtered, set, page 1).
func (s *Session) StartFiltered(filters models.Filters) (Cursor, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = defaultCursor()
	s.cursor.Type = QueryFiltered
	s.cursor.Filters = filters
	s.generation++
	return s.cursor, s.generation
}

// PageChange moves the cursor to page n within the active query. Requests
// outside [1, TotalPages], or with no query active, are silent no-ops and
// leave the state untouched (ok == false).
func (s *Session) PageChange(n int) (Cursor, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Type == QueryNone || n < 1 || n > s.cursor.TotalPages {
		return Cursor{}, 0, false
	}
	s.cursor.CurrentPage = n
	s.generation++
	return s.cursor, s.generation, true
}

// Replay returns the active cursor and a fresh generation without changing
// the query or page; "back" from movie detail re-issues the same remote
// query rather than serving a cached snapshot.
func (s *Session) Replay() (Cursor, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Type == QueryNone {
		return Cursor{}, 0, false
	}
	s.generation++
	return s.cursor, s.generation, true
}

// ApplyResult adopts the totals from a page response, but only when gen is
// still the latest issued; a superseded request's response is discarded
// instead of clobbering newer state.
func (s *Session) ApplyResult(gen uint64, page *models.Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.cursor.Type == QueryNone {
		return false
	}
	s.cursor.TotalPages = page.TotalPages
	s.cursor.TotalResults = page.TotalResults
	return true
}
