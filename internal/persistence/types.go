package persistence

import (
	"time"

	"cinelog/internal/models"
)

// Response DTOs for the persistence API. The upstream serializers are not
// perfectly uniform (owner appears as `userId` or `user`, link movies as
// `movieId` or a nested `movie` object), so each DTO coalesces the variants
// before anything downstream sees them.

type authResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type watchlistData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   int64  `json:"userId"`
	User     int64  `json:"user"`
	IsPublic bool   `json:"isPublic"`
}

func (w watchlistData) toModel() models.Watchlist {
	ownerID := w.UserID
	if ownerID == 0 {
		ownerID = w.User
	}
	return models.Watchlist{ID: w.ID, Name: w.Name, UserID: ownerID, IsPublic: w.IsPublic}
}

type movieRecord struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"externalId"`
}

func (m movieRecord) toModel() models.LocalMovie {
	return models.LocalMovie{ID: m.ID, ExternalID: m.ExternalID}
}

type linkData struct {
	ID          string       `json:"id"`
	WatchlistID string       `json:"watchlistId"`
	MovieID     string       `json:"movieId"`
	Movie       *movieRecord `json:"movie"`
}

func (l linkData) toModel() models.WatchlistLink {
	movieID := l.MovieID
	if movieID == "" && l.Movie != nil {
		movieID = l.Movie.ID
	}
	return models.WatchlistLink{ID: l.ID, WatchlistID: l.WatchlistID, MovieID: movieID}
}

type ratingData struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"`
	MovieID string `json:"movieId"`
	Score   int    `json:"score"`
}

func (r ratingData) toModel() models.Rating {
	return models.Rating{ID: r.ID, UserID: r.UserID, MovieID: r.MovieID, Score: r.Score}
}

type commentData struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movieId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c commentData) toModel() models.Comment {
	return models.Comment{
		ID:        c.ID,
		UserID:    c.UserID,
		Username:  c.Username,
		MovieID:   c.MovieID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
