package catalog

// Response DTOs for the external catalog API. Payloads are validated into
// these tagged types at the boundary; nothing downstream touches raw JSON.

type movieData struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Overview    string      `json:"overview"`
	PosterPath  string      `json:"poster_path"`
	ReleaseDate string      `json:"release_date"`
	VoteAverage float64     `json:"vote_average"`
	Genres      []genreData `json:"genres"`
}

type genreData struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// pageEnvelope is the paged result shape shared by search, discover and
// trending endpoints.
type pageEnvelope struct {
	Results      []movieData `json:"results"`
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type genreListResponse struct {
	Genres []genreData `json:"genres"`
}
