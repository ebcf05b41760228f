package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// FakePersistence is an in-memory stand-in for the persistence API. It
// mirrors the real service's wire quirks: trailing-slash routes, "Token"
// authorization headers, camelCase field names, and a 400 whose body says
// "already" for duplicate watchlist links.
type FakePersistence struct {
	Server *httptest.Server

	mu         sync.Mutex
	nextID     int
	users      map[string]*fakeUser // by username
	tokens     map[string]*fakeUser
	watchlists map[string]*fakeWatchlist
	links      map[string]*fakeLink
	movies     map[string]*fakeMovie
	ratings    map[string]*fakeRating
	comments   map[string]*fakeComment
}

type fakeUser struct {
	ID       int64
	Username string
	Password string
	Token    string
}

type fakeWatchlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   int64  `json:"userId"`
	IsPublic bool   `json:"isPublic"`
}

type fakeLink struct {
	ID          string `json:"id"`
	WatchlistID string `json:"watchlistId"`
	MovieID     string `json:"movieId"`
}

type fakeMovie struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"externalId"`
}

type fakeRating struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"`
	MovieID string `json:"movieId"`
	Score   int    `json:"score"`
}

type fakeComment struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movieId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetupFakePersistence starts the fake persistence server. State is empty;
// seed it through the API or the helper methods.
func SetupFakePersistence(t *testing.T) *FakePersistence {
	t.Helper()
	fp := &FakePersistence{
		users:      make(map[string]*fakeUser),
		tokens:     make(map[string]*fakeUser),
		watchlists: make(map[string]*fakeWatchlist),
		links:      make(map[string]*fakeLink),
		movies:     make(map[string]*fakeMovie),
		ratings:    make(map[string]*fakeRating),
		comments:   make(map[string]*fakeComment),
	}
	fp.Server = httptest.NewServer(fp.router())
	t.Cleanup(fp.Server.Close)
	return fp
}

// URL returns the base URL clients should use.
func (fp *FakePersistence) URL() string { return fp.Server.URL }

// RegisterUser creates an account directly and returns its API token.
func (fp *FakePersistence) RegisterUser(username, password string) string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.createUserLocked(username, password).Token
}

// MovieCount reports how many local movie records exist.
func (fp *FakePersistence) MovieCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.movies)
}

// LinkCount reports how many watchlist links exist.
func (fp *FakePersistence) LinkCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.links)
}

func (fp *FakePersistence) createUserLocked(username, password string) *fakeUser {
	fp.nextID++
	user := &fakeUser{
		ID:       int64(fp.nextID),
		Username: username,
		Password: password,
		Token:    fmt.Sprintf("upstream-token-%d", fp.nextID),
	}
	fp.users[username] = user
	fp.tokens[user.Token] = user
	return user
}

func (fp *FakePersistence) newIDLocked(prefix string) string {
	fp.nextID++
	return fmt.Sprintf("%s-%d", prefix, fp.nextID)
}

func (fp *FakePersistence) caller(r *http.Request) *fakeUser {
	auth := r.Header.Get("Authorization")
	const prefix = "Token "
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return nil
	}
	return fp.tokens[auth[len(prefix):]]
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"detail": message})
}

func (fp *FakePersistence) router() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/register/", fp.handleRegister)
	r.Post("/auth/login/", fp.handleLogin)

	r.Get("/watchlists/", fp.handleListWatchlists)
	r.Post("/watchlists/", fp.handleCreateWatchlist)
	r.Get("/watchlists/{id}/", fp.handleGetWatchlist)
	r.Patch("/watchlists/{id}/", fp.handlePatchWatchlist)
	r.Delete("/watchlists/{id}/", fp.handleDeleteWatchlist)
	r.Get("/watchlists/{id}/movies/", fp.handleListLinks)
	r.Post("/watchlists/{id}/movies/", fp.handleCreateLink)
	r.Delete("/watchlists/{id}/movies/{linkID}/", fp.handleDeleteLink)

	r.Get("/movies/", fp.handleListMovies)
	r.Post("/movies/", fp.handleCreateMovie)
	r.Get("/movies/{id}/", fp.handleGetMovie)

	r.Get("/ratings/", fp.handleListRatings)
	r.Post("/ratings/", fp.handleCreateRating)
	r.Patch("/ratings/{id}/", fp.handlePatchRating)

	r.Get("/comments/", fp.handleListComments)
	r.Post("/comments/", fp.handleCreateComment)
	r.Get("/comments/{id}/", fp.handleGetComment)
	r.Delete("/comments/{id}/", fp.handleDeleteComment)

	return r
}

func (fp *FakePersistence) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct{ Username, Password string }
	json.NewDecoder(r.Body).Decode(&payload)

	fp.mu.Lock()
	defer fp.mu.Unlock()
	if _, exists := fp.users[payload.Username]; exists {
		writeError(w, http.StatusBadRequest, "username taken")
		return
	}
	user := fp.createUserLocked(payload.Username, payload.Password)
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": user.Token, "user_id": user.ID, "username": user.Username,
	})
}

func (fp *FakePersistence) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct{ Username, Password string }
	json.NewDecoder(r.Body).Decode(&payload)

	fp.mu.Lock()
	defer fp.mu.Unlock()
	user, ok := fp.users[payload.Username]
	if !ok || user.Password != payload.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": user.Token, "user_id": user.ID, "username": user.Username,
	})
}

// handleListWatchlists returns the caller's own watchlists plus public
// ones; anonymous callers see only public lists.
func (fp *FakePersistence) handleListWatchlists(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	caller := fp.caller(r)

	results := []*fakeWatchlist{}
	for _, list := range fp.watchlists {
		if list.IsPublic || (caller != nil && list.UserID == caller.ID) {
			results = append(results, list)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (fp *FakePersistence) handleCreateWatchlist(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	caller := fp.caller(r)
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"isPublic"`
	}
	json.NewDecoder(r.Body).Decode(&payload)

	list := &fakeWatchlist{
		ID:       fp.newIDLocked("wl"),
		Name:     payload.Name,
		UserID:   caller.ID,
		IsPublic: payload.IsPublic,
	}
	fp.watchlists[list.ID] = list
	writeJSON(w, http.StatusCreated, list)
}

func (fp *FakePersistence) visibleWatchlistLocked(r *http.Request, id string) (*fakeWatchlist, int) {
	list, ok := fp.watchlists[id]
	if !ok {
		return nil, http.StatusNotFound
	}
	caller := fp.caller(r)
	if !list.IsPublic && (caller == nil || list.UserID != caller.ID) {
		return nil, http.StatusNotFound
	}
	return list, 0
}

func (fp *FakePersistence) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	list, errCode := fp.visibleWatchlistLocked(r, chi.URLParam(r, "id"))
	if list == nil {
		writeError(w, errCode, "not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (fp *FakePersistence) handlePatchWatchlist(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	list, ok := fp.watchlists[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	caller := fp.caller(r)
	if caller == nil || list.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}

	var payload struct {
		Name     *string `json:"name"`
		IsPublic *bool   `json:"isPublic"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	if payload.Name != nil {
		list.Name = *payload.Name
	}
	if payload.IsPublic != nil {
		list.IsPublic = *payload.IsPublic
	}
	writeJSON(w, http.StatusOK, list)
}

func (fp *FakePersistence) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	id := chi.URLParam(r, "id")
	list, ok := fp.watchlists[id]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	caller := fp.caller(r)
	if caller == nil || list.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}
	// The real service rejects deleting a watchlist that still has links.
	for _, link := range fp.links {
		if link.WatchlistID == id {
			writeError(w, http.StatusBadRequest, "watchlist still has movies")
			return
		}
	}
	delete(fp.watchlists, id)
	w.WriteHeader(http.StatusNoContent)
}

func (fp *FakePersistence) handleListLinks(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	list, errCode := fp.visibleWatchlistLocked(r, chi.URLParam(r, "id"))
	if list == nil {
		writeError(w, errCode, "not found")
		return
	}
	results := []*fakeLink{}
	for _, link := range fp.links {
		if link.WatchlistID == list.ID {
			results = append(results, link)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (fp *FakePersistence) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	list, ok := fp.watchlists[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	caller := fp.caller(r)
	if caller == nil || list.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}

	var payload struct {
		MovieID string `json:"movieId"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	if _, ok := fp.movies[payload.MovieID]; !ok {
		writeError(w, http.StatusBadRequest, "unknown movie")
		return
	}
	for _, link := range fp.links {
		if link.WatchlistID == list.ID && link.MovieID == payload.MovieID {
			writeError(w, http.StatusBadRequest, "movie is already on this watchlist")
			return
		}
	}

	link := &fakeLink{ID: fp.newIDLocked("link"), WatchlistID: list.ID, MovieID: payload.MovieID}
	fp.links[link.ID] = link
	writeJSON(w, http.StatusCreated, link)
}

func (fp *FakePersistence) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	link, ok := fp.links[chi.URLParam(r, "linkID")]
	if !ok || link.WatchlistID != chi.URLParam(r, "id") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	list := fp.watchlists[link.WatchlistID]
	caller := fp.caller(r)
	if caller == nil || list == nil || list.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}
	delete(fp.links, link.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (fp *FakePersistence) handleListMovies(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	results := []*fakeMovie{}
	filter := r.URL.Query().Get("externalId")
	for _, movie := range fp.movies {
		if filter == "" || strconv.FormatInt(movie.ExternalID, 10) == filter {
			results = append(results, movie)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (fp *FakePersistence) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	var payload struct {
		ExternalID int64 `json:"externalId"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	movie := &fakeMovie{ID: fp.newIDLocked("movie"), ExternalID: payload.ExternalID}
	fp.movies[movie.ID] = movie
	writeJSON(w, http.StatusCreated, movie)
}

func (fp *FakePersistence) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	movie, ok := fp.movies[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (fp *FakePersistence) handleListRatings(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	userFilter := r.URL.Query().Get("userId")
	movieFilter := r.URL.Query().Get("movieId")
	results := []*fakeRating{}
	for _, rating := range fp.ratings {
		if userFilter != "" && strconv.FormatInt(rating.UserID, 10) != userFilter {
			continue
		}
		if movieFilter != "" && rating.MovieID != movieFilter {
			continue
		}
		results = append(results, rating)
	}
	writeJSON(w, http.StatusOK, results)
}

func (fp *FakePersistence) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	caller := fp.caller(r)
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		MovieUUID string `json:"movie_uuid"`
		Score     int    `json:"score"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	if _, ok := fp.movies[payload.MovieUUID]; !ok {
		writeError(w, http.StatusBadRequest, "unknown movie")
		return
	}
	rating := &fakeRating{
		ID:      fp.newIDLocked("rating"),
		UserID:  caller.ID,
		MovieID: payload.MovieUUID,
		Score:   payload.Score,
	}
	fp.ratings[rating.ID] = rating
	writeJSON(w, http.StatusCreated, rating)
}

func (fp *FakePersistence) handlePatchRating(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	rating, ok := fp.ratings[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	caller := fp.caller(r)
	if caller == nil || rating.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}
	var payload struct {
		Score int `json:"score"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	rating.Score = payload.Score
	writeJSON(w, http.StatusOK, rating)
}

func (fp *FakePersistence) handleListComments(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	movieFilter := r.URL.Query().Get("movieId")
	results := []*fakeComment{}
	for _, comment := range fp.comments {
		if movieFilter == "" || comment.MovieID == movieFilter {
			results = append(results, comment)
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (fp *FakePersistence) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	caller := fp.caller(r)
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var payload struct {
		MovieUUID string `json:"movie_uuid"`
		Text      string `json:"text"`
	}
	json.NewDecoder(r.Body).Decode(&payload)
	if _, ok := fp.movies[payload.MovieUUID]; !ok {
		writeError(w, http.StatusBadRequest, "unknown movie")
		return
	}
	comment := &fakeComment{
		ID:        fp.newIDLocked("comment"),
		UserID:    caller.ID,
		Username:  caller.Username,
		MovieID:   payload.MovieUUID,
		Text:      payload.Text,
		CreatedAt: time.Now().UTC(),
	}
	fp.comments[comment.ID] = comment
	writeJSON(w, http.StatusCreated, comment)
}

func (fp *FakePersistence) handleGetComment(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	comment, ok := fp.comments[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (fp *FakePersistence) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	comment, ok := fp.comments[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	caller := fp.caller(r)
	if caller == nil || comment.UserID != caller.ID {
		writeError(w, http.StatusForbidden, "not the owner")
		return
	}
	delete(fp.comments, comment.ID)
	w.WriteHeader(http.StatusNoContent)
}
