package catalog

import (
	"errors"
	"sync"

	"cinelog/internal/models"
)

// Cache keeps in-memory snapshots of the slow-moving catalog data: the
// genre list (changes essentially never) and the trending set (weekly).
// It is filled on demand and refreshed on a schedule by the jobs package,
// saving two upstream round trips on every home render.
type Cache struct {
	client *Client

	mu       sync.RWMutex
	genres   []models.Genre
	trending []models.Movie
}

// NewCache creates an empty cache over the given client.
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// Genres returns the cached genre list, fetching it first if the cache is
// cold.
func (c *Cache) Genres() ([]models.Genre, error) {
	c.mu.RLock()
	genres := c.genres
	c.mu.RUnlock()
	if genres != nil {
		return genres, nil
	}

	fetched, err := c.client.Genres()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.genres = fetched
	c.mu.Unlock()
	return fetched, nil
}

// Trending returns the cached trending set, fetching it first if the cache
// is cold.
func (c *Cache) Trending() ([]models.Movie, error) {
	c.mu.RLock()
	trending := c.trending
	c.mu.RUnlock()
	if trending != nil {
		return trending, nil
	}

	fetched, err := c.client.Trending()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.trending = fetched
	c.mu.Unlock()
	return fetched, nil
}

// Refresh re-fetches both snapshots. A failed fetch keeps the previous
// snapshot in place so a flaky upstream degrades to stale data, not an
// empty screen.
func (c *Cache) Refresh() error {
	var errs []error

	if genres, err := c.client.Genres(); err != nil {
		errs = append(errs, err)
	} else {
		c.mu.Lock()
		c.genres = genres
		c.mu.Unlock()
	}

	if trending, err := c.client.Trending(); err != nil {
		errs = append(errs, err)
	} else {
		c.mu.Lock()
		c.trending = trending
		c.mu.Unlock()
	}

	return errors.Join(errs...)
}
