package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/services"
	"golang.org/x/sync/errgroup"
)

// ErrNoSelection is returned when no movie has been selected.
var ErrNoSelection = errors.New("no movie selected")

// DetailSource loads the two halves of a movie view. [services.Catalog] satisfies it.
type DetailSource interface {
	Movie(ctx context.Context, id int) (*models.MovieDetails, error)
	Credits(ctx context.Context, id int) (*models.Credits, error)
}

// DetailController owns the fetch session of the movie details view.
//
// A load fetches details and credits concurrently and fails as a whole if either half fails.
// Starting a load supersedes the previous one.
type DetailController struct {
	source    DetailSource
	store     PreferenceStore
	favorites *Favorites
	render    DetailRenderFunc
	logger    *log.Logger

	mu      sync.Mutex
	seq     uint64
	current *Session
	state   DetailState

	wg sync.WaitGroup
}

// NewDetailController creates an idle details controller backed by source and store. store must not be nil.
func NewDetailController(source DetailSource, store PreferenceStore, render DetailRenderFunc, logger *log.Logger) *DetailController {
	if render == nil {
		render = func(DetailState) {}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &DetailController{
		source:    source,
		store:     store,
		favorites: NewFavorites(store),
		render:    render,
		logger:    logger,
	}
}

// Load supersedes any pending load and fetches movieID.
// It never writes [SelectedMovieKey]; see [DetailController.Open].
func (c *DetailController) Load(movieID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.finish(StatusCancelled)
	}

	c.seq++
	s := newSession(c.seq, KindDetails)
	s.MovieID = movieID
	c.current = s

	c.emitLocked(DetailState{Status: Loading, MovieID: movieID})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		view, fav, err := c.fetch(s)
		c.complete(s, view, fav, err)
	}()
}

// Open remembers movieID under [SelectedMovieKey] and then loads it.
// A failed write is logged and the load still starts.
func (c *DetailController) Open(ctx context.Context, movieID int) {
	if err := RememberSelection(ctx, c.store, movieID); err != nil {
		c.logger.Warn("failed to remember selection", "movie_id", movieID, "err", err)
	}
	c.Load(movieID)
}

// LoadSelected loads the movie remembered under [SelectedMovieKey].
func (c *DetailController) LoadSelected(ctx context.Context) error {
	raw, ok, err := c.store.Get(ctx, SelectedMovieKey)
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}
	if !ok || raw == "" {
		return ErrNoSelection
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: stored selection %q", ErrNoSelection, raw)
	}
	c.Load(id)
	return nil
}

// Cancel cancels the pending load, if any. It does not render.
func (c *DetailController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.finish(StatusCancelled)
		c.current = nil
	}
}

// ToggleFavorite flips the favorite flag of the displayed movie and returns the new value.
func (c *DetailController) ToggleFavorite(ctx context.Context) (bool, error) {
	id := c.State().MovieID
	if id == 0 {
		return false, ErrNoSelection
	}

	fav, err := c.favorites.Toggle(ctx, id)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.MovieID == id {
		c.state.Favorite = fav
		c.emitLocked(c.state)
	}
	return fav, nil
}

// IsFavorite reports whether the displayed movie is a favorite.
func (c *DetailController) IsFavorite(ctx context.Context) (bool, error) {
	id := c.State().MovieID
	if id == 0 {
		return false, ErrNoSelection
	}
	return c.favorites.Contains(ctx, id)
}

// Favorites returns the favorites list shared with this controller.
func (c *DetailController) Favorites() *Favorites { return c.favorites }

// State returns the last emitted state.
func (c *DetailController) State() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a load is in flight.
func (c *DetailController) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Wait blocks until every load started so far has delivered its result.
func (c *DetailController) Wait() {
	c.wg.Wait()
}

func (c *DetailController) fetch(s *Session) (*models.MovieView, bool, error) {
	view, err := FetchMovieView(s.ctx, c.source, s.MovieID)
	if err != nil {
		return nil, false, err
	}

	fav, err := c.favorites.Contains(s.ctx, s.MovieID)
	if err != nil {
		c.logger.Warn("failed to read favorites", "movie_id", s.MovieID, "err", err)
	}
	return view, fav, nil
}

// FetchMovieView fetches details and credits for id concurrently.
// The first failure cancels the other request and is returned.
func FetchMovieView(ctx context.Context, source DetailSource, id int) (*models.MovieView, error) {
	var view models.MovieView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		details, err := source.Movie(gctx, id)
		if err != nil {
			return err
		}
		view.Details = *details
		return nil
	})
	g.Go(func() error {
		credits, err := source.Credits(gctx, id)
		if err != nil {
			return err
		}
		view.Credits = *credits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *DetailController) complete(s *Session, view *models.MovieView, fav bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != s || s.Status() != StatusPending {
		droppedResponses.WithLabelValues(s.Kind.String()).Inc()
		c.logger.Debug("details response dropped", "movie_id", s.MovieID, "seq", s.Seq)
		return
	}
	c.current = nil

	if err != nil {
		if services.IsCancelled(err) {
			s.finish(StatusCancelled)
			c.emitLocked(DetailState{Status: Idle, MovieID: s.MovieID})
			return
		}
		s.finish(StatusFailed)
		c.logger.Warn("details fetch failed", "movie_id", s.MovieID, "err", err)
		c.emitLocked(DetailState{Status: Error, MovieID: s.MovieID, Err: err, Message: services.UserMessage(err)})
		return
	}

	s.finish(StatusResolved)
	c.emitLocked(DetailState{Status: Ready, MovieID: s.MovieID, View: view, Favorite: fav})
}

func (c *DetailController) emitLocked(state DetailState) {
	c.state = state
	c.render(state)
}
