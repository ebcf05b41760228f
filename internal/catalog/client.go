// Package catalog wraps the external movie catalog API: trending, search,
// discover, genre list and movie details. The client is stateless, pure
// request/response mapping; it holds no application state.
package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cinelog/internal/models"
)

// Client talks to the external movie catalog.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new catalog client against the given base URL, keyed by the
// static API credential.
func New(baseURL, apiKey string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// get performs a GET against path, adds the API key, and decodes the JSON
// response into out. Any non-2xx status is an error; no retries.
func (c *Client) get(path string, params url.Values, out any) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	req.URL.RawQuery = params.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog: %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog: decoding %s response: %w", path, err)
	}
	return nil
}

// Trending returns this week's trending movies.
func (c *Client) Trending() ([]models.Movie, error) {
	var envelope pageEnvelope
	if err := c.get("/trending/movie/week", nil, &envelope); err != nil {
		return nil, err
	}
	return mapMovies(envelope.Results), nil
}

// MovieByID fetches the full record for a single movie.
func (c *Client) MovieByID(id int64) (models.Movie, error) {
	var data movieData
	if err := c.get(fmt.Sprintf("/movie/%d", id), nil, &data); err != nil {
		return models.Movie{}, err
	}
	return mapMovie(data), nil
}

// Search returns one page of title-search results.
func (c *Client) Search(query string, page int) (models.Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var envelope pageEnvelope
	if err := c.get("/search/movie", params, &envelope); err != nil {
		return models.Page{}, err
	}
	return mapPage(envelope), nil
}

// DiscoverByGenre returns one page of movies in the genre, most popular
// first.
func (c *Client) DiscoverByGenre(genreID int64, page int) (models.Page, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))

	var envelope pageEnvelope
	if err := c.get("/discover/movie", params, &envelope); err != nil {
		return models.Page{}, err
	}
	return mapPage(envelope), nil
}

// DiscoverByFilters returns one page of movies matching the filter set.
// Unset filter fields are left out of the query entirely.
func (c *Client) DiscoverByFilters(filters models.Filters, page int) (models.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if filters.GenreID != 0 {
		params.Set("with_genres", strconv.FormatInt(filters.GenreID, 10))
	}
	if filters.Year != 0 {
		params.Set("primary_release_year", strconv.Itoa(filters.Year))
	}
	if filters.MinRating != 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
	}
	if filters.SortBy != "" {
		params.Set("sort_by", filters.SortBy)
	}

	var envelope pageEnvelope
	if err := c.get("/discover/movie", params, &envelope); err != nil {
		return models.Page{}, err
	}
	return mapPage(envelope), nil
}

// Genres returns the catalog's genre list.
func (c *Client) Genres() ([]models.Genre, error) {
	var list genreListResponse
	if err := c.get("/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}
	genres := make([]models.Genre, 0, len(list.Genres))
	for _, g := range list.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func mapMovie(data movieData) models.Movie {
	m := models.Movie{
		ID:          data.ID,
		Title:       data.Title,
		Overview:    data.Overview,
		PosterPath:  data.PosterPath,
		ReleaseDate: data.ReleaseDate,
		VoteAverage: data.VoteAverage,
	}
	for _, g := range data.Genres {
		m.Genres = append(m.Genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return m
}

// mapMovies always allocates so callers can tell "fetched, empty" apart
// from "never fetched".
func mapMovies(data []movieData) []models.Movie {
	movies := make([]models.Movie, 0, len(data))
	for _, d := range data {
		movies = append(movies, mapMovie(d))
	}
	return movies
}

func mapPage(envelope pageEnvelope) models.Page {
	return models.Page{
		Results:      mapMovies(envelope.Results),
		Page:         envelope.Page,
		TotalPages:   envelope.TotalPages,
		TotalResults: envelope.TotalResults,
	}
}
