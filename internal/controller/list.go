package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
)

// Source loads pages of movies for a [ListController]. [services.Catalog] satisfies it.
type Source interface {
	Popular(ctx context.Context, page int) (*models.MoviePage, error)
	Search(ctx context.Context, query string, page int) (*models.MoviePage, error)
}

// ListController owns the fetch sessions of the movie list view.
//
// At most one replace session (initial or search) and one extend session (paginate) are pending at a time.
// A response is applied only when its session is still the current one of its category;
// anything else is dropped without touching the result set or the view state.
type ListController struct {
	source Source
	store  PreferenceStore
	render RenderFunc
	logger *log.Logger

	mu         sync.Mutex
	seq        uint64
	replace    *Session
	extend     *Session
	items      []models.Movie
	page       int
	totalPages int
	query      string
	state      ViewState

	wg sync.WaitGroup
}

// NewListController creates an idle controller. store may be nil when selections need not persist.
func NewListController(source Source, store PreferenceStore, render RenderFunc, logger *log.Logger) *ListController {
	if render == nil {
		render = func(ViewState) {}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &ListController{
		source:     source,
		store:      store,
		render:     render,
		logger:     logger,
		page:       1,
		totalPages: 1,
	}
	c.state = c.snapshotLocked(Idle, KindInitial)
	return c
}

// StartInitialLoad replaces the result set with page 1 of the popular listing.
//
// Pending initial, search and paginate sessions are cancelled.
func (c *ListController) StartInitialLoad() {
	c.startReplace(KindInitial, "")
}

// Search replaces the result set with the first page of matches for query.
// A blank query is the same as [ListController.StartInitialLoad].
//
// Callers debounce keystrokes; every call here issues a request.
func (c *ListController) Search(query string) {
	q := strings.TrimSpace(query)
	if q == "" {
		c.StartInitialLoad()
		return
	}
	c.startReplace(KindSearch, q)
}

// LoadMore appends the next page of the popular listing.
//
// It does nothing and returns false while any session is pending, while search results are shown,
// or once the last page has been loaded.
func (c *ListController) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.replace != nil || c.extend != nil || c.query != "" || c.page >= c.totalPages {
		return false
	}

	s := c.newSessionLocked(KindPaginate)
	s.Page = c.page + 1
	c.extend = s

	c.emitLocked(c.snapshotLocked(Loading, KindPaginate))
	c.launchLocked(s, func(ctx context.Context) (*models.MoviePage, error) {
		return c.source.Popular(ctx, s.Page)
	})
	return true
}

// CancelAll cancels every pending session. Responses that arrive afterwards are discarded.
//
// It does not render; the view state keeps whatever was last emitted.
func (c *ListController) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(c.replace)
	c.cancelLocked(c.extend)
	c.replace, c.extend = nil, nil
}

// Select remembers movieID as the movie to open in the details view.
// The write completes before Select returns, so the last call wins.
func (c *ListController) Select(ctx context.Context, movieID int) error {
	if c.store == nil {
		return fmt.Errorf("%w: no preference store configured", shared.ErrServiceUnavailable)
	}
	return RememberSelection(ctx, c.store, movieID)
}

// State returns the last emitted view state.
func (c *ListController) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the current result set.
func (c *ListController) Items() []models.Movie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Movie(nil), c.items...)
}

// Page returns the last successfully loaded page of the popular listing.
func (c *ListController) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages returns total_pages from the last successful response.
func (c *ListController) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Query returns the query of the displayed results, or "" for the popular listing.
func (c *ListController) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Pending reports whether any session is in flight.
func (c *ListController) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replace != nil || c.extend != nil
}

// Wait blocks until every fetch goroutine started so far has delivered its result.
func (c *ListController) Wait() {
	c.wg.Wait()
}

func (c *ListController) startReplace(kind Kind, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(c.replace)
	c.cancelLocked(c.extend)
	c.extend = nil

	s := c.newSessionLocked(kind)
	s.Page = 1
	s.Query = query
	c.replace = s

	c.emitLocked(c.snapshotLocked(Loading, kind))
	c.launchLocked(s, func(ctx context.Context) (*models.MoviePage, error) {
		if kind == KindSearch {
			return c.source.Search(ctx, query, 1)
		}
		return c.source.Popular(ctx, 1)
	})
}

func (c *ListController) newSessionLocked(kind Kind) *Session {
	c.seq++
	s := newSession(c.seq, kind)
	c.logger.Debug("session started", "kind", kind, "seq", s.Seq, "id", s.ID)
	return s
}

func (c *ListController) launchLocked(s *Session, fetch func(context.Context) (*models.MoviePage, error)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		page, err := fetch(s.ctx)
		c.complete(s, page, err)
	}()
}

func (c *ListController) cancelLocked(s *Session) {
	if s != nil && s.finish(StatusCancelled) {
		c.logger.Debug("session cancelled", "kind", s.Kind, "seq", s.Seq)
	}
}

// current reports whether s is the live session of its category.
func (c *ListController) currentLocked(s *Session) bool {
	switch s.Kind.Category() {
	case CategoryExtend:
		return c.extend == s
	default:
		return c.replace == s
	}
}

func (c *ListController) clearLocked(s *Session) {
	if c.replace == s {
		c.replace = nil
	}
	if c.extend == s {
		c.extend = nil
	}
}

func (c *ListController) complete(s *Session, page *models.MoviePage, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(s) || s.Status() != StatusPending {
		droppedResponses.WithLabelValues(s.Kind.String()).Inc()
		c.logger.Debug("response dropped", "kind", s.Kind, "seq", s.Seq, "latest", c.seq)
		return
	}
	c.clearLocked(s)

	if err != nil {
		if services.IsCancelled(err) {
			s.finish(StatusCancelled)
			c.emitLocked(c.snapshotLocked(c.settledStatusLocked(), s.Kind))
			return
		}
		s.finish(StatusFailed)
		c.logger.Warn("fetch failed", "kind", s.Kind, "page", s.Page, "query", s.Query, "err", err)

		state := c.snapshotLocked(Error, s.Kind)
		state.Err = err
		state.Message = services.UserMessage(err)
		state.FailedQuery = s.Query
		c.emitLocked(state)
		return
	}

	s.finish(StatusResolved)
	if page == nil {
		page = &models.MoviePage{}
	}

	switch s.Kind {
	case KindPaginate:
		c.items = append(c.items, page.Results...)
		c.page = s.Page
	default:
		c.items = append([]models.Movie(nil), page.Results...)
		c.page = 1
		c.query = s.Query
	}
	c.totalPages = max(page.TotalPages, 1)

	c.logger.Debug("session resolved", "kind", s.Kind, "seq", s.Seq, "items", len(c.items), "page", c.page, "total_pages", c.totalPages)
	c.emitLocked(c.snapshotLocked(Ready, s.Kind))
}

// settledStatusLocked is the status to show when a pending session ends without data or error.
func (c *ListController) settledStatusLocked() ViewStatus {
	if len(c.items) == 0 {
		return Idle
	}
	return Ready
}

func (c *ListController) snapshotLocked(status ViewStatus, kind Kind) ViewState {
	return ViewState{
		Status:     status,
		Kind:       kind,
		Items:      append([]models.Movie(nil), c.items...),
		Page:       c.page,
		TotalPages: c.totalPages,
		Query:      c.query,
	}
}

func (c *ListController) emitLocked(state ViewState) {
	c.state = state
	c.render(state)
}
