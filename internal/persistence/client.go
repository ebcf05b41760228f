package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cinelog/internal/models"
)

// Client talks to the first-party persistence API that stores users,
// watchlists, ratings and comments. Authenticated calls carry a token
// obtained from Login or Register; read-only calls may pass an empty token.
type Client struct {
	client  *http.Client
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

const requestTimeout = 20 * time.Second

// do issues a request against the API and decodes the JSON response into out
// (which may be nil for calls whose response body is irrelevant). Non-2xx
// statuses are mapped to the error taxonomy in errors.go.
func (c *Client) do(method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("persistence request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, string(raw))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		// The API reports duplicate watchlist links as a 400 whose body
		// mentions the movie is "already" on the list.
		if strings.Contains(strings.ToLower(body), "already") {
			return ErrDuplicate
		}
	}
	return &APIError{Status: status, Body: body}
}

// decodeList handles both shapes the API serves for collections: a bare
// JSON array, or an object with a "results" key wrapping the array.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

func (c *Client) getList(path, token string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(http.MethodGet, path, token, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Auth

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for an API token and the user's identity.
func (c *Client) Login(username, password string) (string, models.User, error) {
	var resp authResponse
	err := c.do(http.MethodPost, "/auth/login/", "", Credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", models.User{}, err
	}
	return resp.Token, models.User{ID: resp.UserID, Username: resp.Username}, nil
}

// Register creates an account and returns a token for the new user.
func (c *Client) Register(username, password string) (string, models.User, error) {
	var resp authResponse
	err := c.do(http.MethodPost, "/auth/register/", "", Credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", models.User{}, err
	}
	return resp.Token, models.User{ID: resp.UserID, Username: resp.Username}, nil
}

// Watchlists

// ListWatchlists returns the caller's own watchlists plus any public ones.
// With an empty token only public watchlists come back.
func (c *Client) ListWatchlists(token string) ([]models.Watchlist, error) {
	raw, err := c.getList("/watchlists/", token)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[watchlistData](raw)
	if err != nil {
		return nil, err
	}
	lists := make([]models.Watchlist, 0, len(items))
	for _, item := range items {
		lists = append(lists, item.toModel())
	}
	return lists, nil
}

func (c *Client) GetWatchlist(token, id string) (models.Watchlist, error) {
	var data watchlistData
	if err := c.do(http.MethodGet, "/watchlists/"+id+"/", token, nil, &data); err != nil {
		return models.Watchlist{}, err
	}
	return data.toModel(), nil
}

func (c *Client) CreateWatchlist(token, name string, isPublic bool) (models.Watchlist, error) {
	body := map[string]any{"name": name, "isPublic": isPublic}
	var data watchlistData
	if err := c.do(http.MethodPost, "/watchlists/", token, body, &data); err != nil {
		return models.Watchlist{}, err
	}
	return data.toModel(), nil
}

func (c *Client) UpdateWatchlistName(token, id, name string) (models.Watchlist, error) {
	var data watchlistData
	err := c.do(http.MethodPatch, "/watchlists/"+id+"/", token, map[string]any{"name": name}, &data)
	if err != nil {
		return models.Watchlist{}, err
	}
	return data.toModel(), nil
}

func (c *Client) UpdateWatchlistVisibility(token, id string, isPublic bool) (models.Watchlist, error) {
	var data watchlistData
	err := c.do(http.MethodPatch, "/watchlists/"+id+"/", token, map[string]any{"isPublic": isPublic}, &data)
	if err != nil {
		return models.Watchlist{}, err
	}
	return data.toModel(), nil
}

func (c *Client) DeleteWatchlist(token, id string) error {
	return c.do(http.MethodDelete, "/watchlists/"+id+"/", token, nil, nil)
}

// Watchlist links

func (c *Client) ListLinks(token, watchlistID string) ([]models.WatchlistLink, error) {
	raw, err := c.getList("/watchlists/"+watchlistID+"/movies/", token)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[linkData](raw)
	if err != nil {
		return nil, err
	}
	links := make([]models.WatchlistLink, 0, len(items))
	for _, item := range items {
		links = append(links, item.toModel())
	}
	return links, nil
}

// CreateLink attaches a local movie to a watchlist. Adding a movie that is
// already on the list yields ErrDuplicate.
func (c *Client) CreateLink(token, watchlistID, movieID string) (models.WatchlistLink, error) {
	body := map[string]any{"watchlistId": watchlistID, "movieId": movieID}
	var data linkData
	err := c.do(http.MethodPost, "/watchlists/"+watchlistID+"/movies/", token, body, &data)
	if err != nil {
		return models.WatchlistLink{}, err
	}
	return data.toModel(), nil
}

func (c *Client) DeleteLink(token, watchlistID, linkID string) error {
	return c.do(http.MethodDelete, "/watchlists/"+watchlistID+"/movies/"+linkID+"/", token, nil, nil)
}

// Movies

// FindMoviesByExternalID returns the local movie records mirroring the given
// catalog id. The API does not enforce uniqueness, so more than one record
// may come back.
func (c *Client) FindMoviesByExternalID(token string, externalID int64) ([]models.LocalMovie, error) {
	raw, err := c.getList(fmt.Sprintf("/movies/?externalId=%d", externalID), token)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[movieRecord](raw)
	if err != nil {
		return nil, err
	}
	movies := make([]models.LocalMovie, 0, len(items))
	for _, item := range items {
		movies = append(movies, item.toModel())
	}
	return movies, nil
}

func (c *Client) GetMovie(token, id string) (models.LocalMovie, error) {
	var data movieRecord
	if err := c.do(http.MethodGet, "/movies/"+id+"/", token, nil, &data); err != nil {
		return models.LocalMovie{}, err
	}
	return data.toModel(), nil
}

func (c *Client) CreateMovie(token string, externalID int64) (models.LocalMovie, error) {
	var data movieRecord
	err := c.do(http.MethodPost, "/movies/", token, map[string]any{"externalId": externalID}, &data)
	if err != nil {
		return models.LocalMovie{}, err
	}
	return data.toModel(), nil
}

// Ratings

func (c *Client) ListRatingsByUser(token string, userID int64) ([]models.Rating, error) {
	raw, err := c.getList(fmt.Sprintf("/ratings/?userId=%d", userID), token)
	if err != nil {
		return nil, err
	}
	return decodeRatings(raw)
}

func (c *Client) ListRatingsByMovie(token, movieID string) ([]models.Rating, error) {
	raw, err := c.getList("/ratings/?movieId="+movieID, token)
	if err != nil {
		return nil, err
	}
	return decodeRatings(raw)
}

func decodeRatings(raw json.RawMessage) ([]models.Rating, error) {
	items, err := decodeList[ratingData](raw)
	if err != nil {
		return nil, err
	}
	ratings := make([]models.Rating, 0, len(items))
	for _, item := range items {
		ratings = append(ratings, item.toModel())
	}
	return ratings, nil
}

func (c *Client) CreateRating(token, movieID string, score int) (models.Rating, error) {
	body := map[string]any{"movie_uuid": movieID, "score": score}
	var data ratingData
	if err := c.do(http.MethodPost, "/ratings/", token, body, &data); err != nil {
		return models.Rating{}, err
	}
	return data.toModel(), nil
}

// UpdateRatingScore changes only the score of an existing rating.
func (c *Client) UpdateRatingScore(token, ratingID string, score int) (models.Rating, error) {
	var data ratingData
	err := c.do(http.MethodPatch, "/ratings/"+ratingID+"/", token, map[string]any{"score": score}, &data)
	if err != nil {
		return models.Rating{}, err
	}
	return data.toModel(), nil
}

// Comments

func (c *Client) ListComments(token, movieID string) ([]models.Comment, error) {
	raw, err := c.getList("/comments/?movieId="+movieID, token)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[commentData](raw)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(items))
	for _, item := range items {
		comments = append(comments, item.toModel())
	}
	return comments, nil
}

func (c *Client) GetComment(token, id string) (models.Comment, error) {
	var data commentData
	if err := c.do(http.MethodGet, "/comments/"+id+"/", token, nil, &data); err != nil {
		return models.Comment{}, err
	}
	return data.toModel(), nil
}

func (c *Client) CreateComment(token, movieID, text string) (models.Comment, error) {
	body := map[string]any{"movie_uuid": movieID, "text": text}
	var data commentData
	if err := c.do(http.MethodPost, "/comments/", token, body, &data); err != nil {
		return models.Comment{}, err
	}
	return data.toModel(), nil
}

func (c *Client) DeleteComment(token, id string) error {
	return c.do(http.MethodDelete, "/comments/"+id+"/", token, nil, nil)
}
