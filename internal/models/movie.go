// This file defines the core data structures (models) for the application.
// Movies and genres live in the external catalog's id space; everything the
// persistence service owns is keyed by its own opaque ids (see local.go).

package models

// Movie is a single movie as described by the external catalog.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []Genre `json:"genres,omitempty"` // only populated on detail lookups
}

// Genre is one entry of the catalog's genre list.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is the paged result envelope every catalog list endpoint returns.
type Page struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Filters is the discover-by-filter parameter set. Zero-valued fields are
// omitted from the upstream query.
type Filters struct {
	GenreID   int64   `json:"genre_id,omitempty"`
	Year      int     `json:"year,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
	SortBy    string  `json:"sort_by,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f.GenreID == 0 && f.Year == 0 && f.MinRating == 0 && f.SortBy == ""
}
