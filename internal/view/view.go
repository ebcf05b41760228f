package view

import (
	"strings"

	"cinelog/internal/models"
	"cinelog/internal/session"
)

// Builder turns domain objects into the shapes the API serves. It owns the
// image base URL so poster paths leave this package as absolute URLs.
type Builder struct {
	imageBaseURL string
}

func NewBuilder(imageBaseURL string) *Builder {
	return &Builder{imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// MovieCard is the compact representation used in grids and lists.
type MovieCard struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	ReleaseYear string  `json:"releaseYear,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
}

// MovieDetail is the full detail view, including community data stitched in
// from the persistence side.
type MovieDetail struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Overview     string           `json:"overview"`
	PosterURL    string           `json:"posterUrl,omitempty"`
	ReleaseDate  string           `json:"releaseDate,omitempty"`
	VoteAverage  float64          `json:"voteAverage"`
	Genres       []models.Genre   `json:"genres"`
	UserScore    *int             `json:"userScore,omitempty"`
	AverageScore float64          `json:"averageScore"`
	RatingCount  int              `json:"ratingCount"`
	Comments     []models.Comment `json:"comments"`
}

// Pagination is attached to paged responses only when there is more than
// one page; single-page results render without controls.
type Pagination struct {
	CurrentPage  int               `json:"currentPage"`
	TotalPages   int               `json:"totalPages"`
	TotalResults int               `json:"totalResults"`
	Query        session.QueryType `json:"queryType"`
}

// PageView is a page of movie cards plus optional pagination controls.
type PageView struct {
	Movies     []MovieCard `json:"movies"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// WatchlistView is a watchlist with its movies hydrated from the catalog.
type WatchlistView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	IsPublic bool        `json:"isPublic"`
	Owned    bool        `json:"owned"`
	Renaming bool        `json:"renaming,omitempty"`
	Movies   []MovieCard `json:"movies"`
}

// HomeView is the landing payload: trending movies, the genre list and the
// watchlists visible to the viewer.
type HomeView struct {
	Trending   []MovieCard        `json:"trending"`
	Genres     []models.Genre     `json:"genres"`
	Watchlists []models.Watchlist `json:"watchlists"`
	User       *models.User       `json:"user,omitempty"`
}

func (b *Builder) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return b.imageBaseURL + path
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func (b *Builder) Card(m models.Movie) MovieCard {
	return MovieCard{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   b.posterURL(m.PosterPath),
		ReleaseYear: releaseYear(m.ReleaseDate),
		VoteAverage: m.VoteAverage,
	}
}

func (b *Builder) Cards(movies []models.Movie) []MovieCard {
	cards := make([]MovieCard, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, b.Card(m))
	}
	return cards
}

// Page builds a paged view from a catalog page and the session cursor that
// produced it. Pagination controls appear only past a single page.
func (b *Builder) Page(page models.Page, cursor session.Cursor) PageView {
	pv := PageView{Movies: b.Cards(page.Results)}
	if cursor.TotalPages > 1 {
		pv.Pagination = &Pagination{
			CurrentPage:  cursor.CurrentPage,
			TotalPages:   cursor.TotalPages,
			TotalResults: cursor.TotalResults,
			Query:        cursor.Type,
		}
	}
	return pv
}

// Detail assembles the movie detail view. userScore is nil for anonymous
// users or when the user has not rated the movie.
func (b *Builder) Detail(m models.Movie, userScore *int, avg float64, count int, comments []models.Comment) MovieDetail {
	if comments == nil {
		comments = []models.Comment{}
	}
	return MovieDetail{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterURL:    b.posterURL(m.PosterPath),
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		Genres:       m.Genres,
		UserScore:    userScore,
		AverageScore: avg,
		RatingCount:  count,
		Comments:     comments,
	}
}

// Watchlist assembles the watchlist view for a given viewer.
func (b *Builder) Watchlist(list models.Watchlist, movies []models.Movie, viewerID int64, renaming bool) WatchlistView {
	return WatchlistView{
		ID:       list.ID,
		Name:     list.Name,
		IsPublic: list.IsPublic,
		Owned:    viewerID != 0 && list.UserID == viewerID,
		Renaming: renaming,
		Movies:   b.Cards(movies),
	}
}

// Home assembles the landing payload.
func (b *Builder) Home(trending []models.Movie, genres []models.Genre, watchlists []models.Watchlist, user *models.User) HomeView {
	if genres == nil {
		genres = []models.Genre{}
	}
	if watchlists == nil {
		watchlists = []models.Watchlist{}
	}
	return HomeView{Trending: b.Cards(trending), Genres: genres, Watchlists: watchlists, User: user}
}
