package browse

import (
	"errors"

	"cinelog/internal/catalog"
	"cinelog/internal/models"
	"cinelog/internal/session"
)

// ErrNoActiveQuery is returned when a page change or replay is requested
// with no paged query active on the session.
var ErrNoActiveQuery = errors.New("browse: no active query")

// Controller drives paged catalog queries against a session's cursor. Each
// operation advances the cursor first, then executes the remote fetch, then
// hands the response back to the session; responses that lost a race to a
// newer query are fetched but not adopted.
type Controller struct {
	catalog *catalog.Client
}

func New(catalogClient *catalog.Client) *Controller {
	return &Controller{catalog: catalogClient}
}

// Search starts a text search on the session and returns its first page.
func (c *Controller) Search(sess *session.Session, query string) (models.Page, error) {
	cursor, gen := sess.StartSearch(query)
	return c.execute(sess, cursor, gen)
}

// Genre starts browsing a single genre on the session.
func (c *Controller) Genre(sess *session.Session, genreID int64, genreName string) (models.Page, error) {
	cursor, gen := sess.StartGenre(genreID, genreName)
	return c.execute(sess, cursor, gen)
}

// Filtered starts a multi-criteria discover query on the session.
func (c *Controller) Filtered(sess *session.Session, filters models.Filters) (models.Page, error) {
	cursor, gen := sess.StartFiltered(filters)
	return c.execute(sess, cursor, gen)
}

// PageChange moves to page n of the active query. Out-of-range pages and
// sessions with no active query are no-ops (ok == false, no fetch issued).
func (c *Controller) PageChange(sess *session.Session, n int) (models.Page, bool, error) {
	cursor, gen, ok := sess.PageChange(n)
	if !ok {
		return models.Page{}, false, nil
	}
	page, err := c.execute(sess, cursor, gen)
	return page, true, err
}

// Replay re-issues the active query at its current page, used when
// returning to the browse view from a movie detail.
func (c *Controller) Replay(sess *session.Session) (models.Page, error) {
	cursor, gen, ok := sess.Replay()
	if !ok {
		return models.Page{}, ErrNoActiveQuery
	}
	return c.execute(sess, cursor, gen)
}

func (c *Controller) execute(sess *session.Session, cursor session.Cursor, gen uint64) (models.Page, error) {
	var (
		page models.Page
		err  error
	)
	switch cursor.Type {
	case session.QuerySearch:
		page, err = c.catalog.Search(cursor.Query, cursor.CurrentPage)
	case session.QueryGenre:
		page, err = c.catalog.DiscoverByGenre(cursor.GenreID, cursor.CurrentPage)
	case session.QueryFiltered:
		page, err = c.catalog.DiscoverByFilters(cursor.Filters, cursor.CurrentPage)
	default:
		return models.Page{}, ErrNoActiveQuery
	}
	if err != nil {
		return models.Page{}, err
	}
	sess.ApplyResult(gen, &page)
	return page, nil
}
