package reconcile

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"cinelog/internal/catalog"
	"cinelog/internal/models"
	"cinelog/internal/persistence"
)

// Service bridges the external movie catalog and the persistence API. The
// persistence side keys everything off local movie records (UUIDs), while
// the rest of the application thinks in catalog ids; every operation here
// translates between the two.
type Service struct {
	catalog *catalog.Client
	persist *persistence.Client
}

func New(catalogClient *catalog.Client, persistClient *persistence.Client) *Service {
	return &Service{catalog: catalogClient, persist: persistClient}
}

// EnsureLocalMovie resolves the local record mirroring a catalog movie,
// creating one if none exists. When the lookup returns several candidates
// an exact external-id match wins, otherwise the first candidate is used.
func (s *Service) EnsureLocalMovie(token string, externalID int64) (models.LocalMovie, error) {
	candidates, err := s.persist.FindMoviesByExternalID(token, externalID)
	if err != nil {
		return models.LocalMovie{}, fmt.Errorf("looking up local movie %d: %w", externalID, err)
	}
	for _, candidate := range candidates {
		if candidate.ExternalID == externalID {
			return candidate, nil
		}
	}
	if len(candidates) > 0 {
		return candidates[0], nil
	}
	created, err := s.persist.CreateMovie(token, externalID)
	if err != nil {
		return models.LocalMovie{}, fmt.Errorf("creating local movie %d: %w", externalID, err)
	}
	return created, nil
}

// RateMovie records the user's score for a catalog movie, updating the
// existing rating in place when one exists.
func (s *Service) RateMovie(token string, userID, externalID int64, score int) (models.Rating, error) {
	local, err := s.EnsureLocalMovie(token, externalID)
	if err != nil {
		return models.Rating{}, err
	}
	ratings, err := s.persist.ListRatingsByUser(token, userID)
	if err != nil {
		return models.Rating{}, err
	}
	for _, rating := range ratings {
		if rating.MovieID == local.ID {
			return s.persist.UpdateRatingScore(token, rating.ID, score)
		}
	}
	return s.persist.CreateRating(token, local.ID, score)
}

// UserRatingForMovie returns the user's rating for a catalog movie, or nil
// when the user has not rated it.
func (s *Service) UserRatingForMovie(token string, userID, externalID int64) (*models.Rating, error) {
	candidates, err := s.persist.FindMoviesByExternalID(token, externalID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	ratings, err := s.persist.ListRatingsByUser(token, userID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		ids[candidate.ID] = true
	}
	for _, rating := range ratings {
		if ids[rating.MovieID] {
			r := rating
			return &r, nil
		}
	}
	return nil, nil
}

// AverageRating computes the mean score across all users for a catalog
// movie. The count is zero when nobody has rated it yet.
func (s *Service) AverageRating(token string, externalID int64) (float64, int, error) {
	candidates, err := s.persist.FindMoviesByExternalID(token, externalID)
	if err != nil {
		return 0, 0, err
	}
	var sum, count int
	for _, candidate := range candidates {
		ratings, err := s.persist.ListRatingsByMovie(token, candidate.ID)
		if err != nil {
			return 0, 0, err
		}
		for _, rating := range ratings {
			sum += rating.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// AddMovieToWatchlist links a catalog movie into a watchlist. Adding a movie
// that is already on the list returns persistence.ErrDuplicate.
func (s *Service) AddMovieToWatchlist(token, watchlistID string, externalID int64) (models.WatchlistLink, error) {
	local, err := s.EnsureLocalMovie(token, externalID)
	if err != nil {
		return models.WatchlistLink{}, err
	}
	return s.persist.CreateLink(token, watchlistID, local.ID)
}

// RemoveMovieFromWatchlist drops the link tying a catalog movie to a
// watchlist. ErrNotFound when the movie is not on the list.
func (s *Service) RemoveMovieFromWatchlist(token, watchlistID string, externalID int64) error {
	candidates, err := s.persist.FindMoviesByExternalID(token, externalID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return persistence.ErrNotFound
	}
	ids := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		ids[candidate.ID] = true
	}
	links, err := s.persist.ListLinks(token, watchlistID)
	if err != nil {
		return err
	}
	for _, link := range links {
		if ids[link.MovieID] {
			return s.persist.DeleteLink(token, watchlistID, link.ID)
		}
	}
	return persistence.ErrNotFound
}

// DeleteWatchlist removes a watchlist and all of its links. Links are
// deleted first; if the watchlist delete then fails the links stay gone,
// matching the API's non-transactional behavior.
func (s *Service) DeleteWatchlist(token, watchlistID string) error {
	links, err := s.persist.ListLinks(token, watchlistID)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	for _, link := range links {
		if err := s.persist.DeleteLink(token, watchlistID, link.ID); err != nil {
			return fmt.Errorf("deleting link %s: %w", link.ID, err)
		}
	}
	return s.persist.DeleteWatchlist(token, watchlistID)
}

// WatchlistEntry pairs a watchlist link with the hydrated catalog movie.
type WatchlistEntry struct {
	LinkID string
	Movie  models.Movie
}

// WatchlistMovies hydrates every movie on a watchlist from the catalog.
// Entries whose catalog lookup fails are skipped rather than failing the
// whole listing.
func (s *Service) WatchlistMovies(token, watchlistID string) ([]WatchlistEntry, error) {
	links, err := s.persist.ListLinks(token, watchlistID)
	if err != nil {
		return nil, err
	}
	entries := make([]WatchlistEntry, 0, len(links))
	for _, link := range links {
		local, err := s.persist.GetMovie(token, link.MovieID)
		if err != nil {
			log.Printf("watchlist %s: cannot resolve movie %s: %v", watchlistID, link.MovieID, err)
			continue
		}
		movie, err := s.catalog.MovieByID(local.ExternalID)
		if err != nil {
			log.Printf("watchlist %s: catalog lookup %d failed: %v", watchlistID, local.ExternalID, err)
			continue
		}
		entries = append(entries, WatchlistEntry{LinkID: link.ID, Movie: movie})
	}
	return entries, nil
}

// VerifyWatchlistOwnership confirms the watchlist exists and belongs to the
// given user. Returns persistence.ErrForbidden when owned by someone else.
func (s *Service) VerifyWatchlistOwnership(token string, userID int64, watchlistID string) (models.Watchlist, error) {
	list, err := s.persist.GetWatchlist(token, watchlistID)
	if err != nil {
		return models.Watchlist{}, err
	}
	if list.UserID != userID {
		return models.Watchlist{}, persistence.ErrForbidden
	}
	return list, nil
}

// AddComment attaches a comment to a catalog movie, creating the local
// record if needed.
func (s *Service) AddComment(token string, externalID int64, text string) (models.Comment, error) {
	local, err := s.EnsureLocalMovie(token, externalID)
	if err != nil {
		return models.Comment{}, err
	}
	return s.persist.CreateComment(token, local.ID, text)
}

// MovieComments returns every comment on a catalog movie across all of its
// local records, newest first.
func (s *Service) MovieComments(token string, externalID int64) ([]models.Comment, error) {
	candidates, err := s.persist.FindMoviesByExternalID(token, externalID)
	if err != nil {
		return nil, err
	}
	var comments []models.Comment
	for _, candidate := range candidates {
		batch, err := s.persist.ListComments(token, candidate.ID)
		if err != nil {
			return nil, err
		}
		comments = append(comments, batch...)
	}
	// Batches from different local records arrive in upstream order;
	// re-sort the merged thread so the newest comment leads.
	slices.SortFunc(comments, func(a, b models.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return comments, nil
}

// DeleteComment removes a comment after re-checking that it belongs to the
// caller, since the API enforces ownership loosely.
func (s *Service) DeleteComment(token string, userID int64, commentID string) error {
	comment, err := s.persist.GetComment(token, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return persistence.ErrForbidden
	}
	return s.persist.DeleteComment(token, commentID)
}
