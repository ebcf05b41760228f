package models

import "time"

// User is the persistence service's account record, as returned by login
// and register.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Watchlist is a named, ownable collection of movies. Visibility to other
// users is governed solely by IsPublic.
type Watchlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   int64  `json:"userId"`
	IsPublic bool   `json:"isPublic"`
}

// LocalMovie maps an external catalog id into the persistence service's id
// space. Created lazily the first time a movie is rated, commented on, or
// watchlisted.
type LocalMovie struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"externalId"`
}

// WatchlistLink associates a watchlist with a local movie. The persistence
// service enforces uniqueness of the (watchlist, movie) pair.
type WatchlistLink struct {
	ID          string `json:"id"`
	WatchlistID string `json:"watchlistId"`
	MovieID     string `json:"movieId"`
}

// Rating is one user's score for one local movie, 1 through 5. At most one
// rating exists per (user, movie); updates overwrite the score in place.
type Rating struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"`
	MovieID string `json:"movieId"`
	Score   int    `json:"score"`
}

// Comment is deletable only by its author.
type Comment struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movieId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
