package services

import (
	"context"
	"sync"

	"github.com/desertthunder/reel/internal/models"
)

// GenreCache resolves genre ids to names, fetching the table from a [Catalog] once.
//
// A failed fetch is not remembered, so the next call to [GenreCache.Load] tries again.
type GenreCache struct {
	catalog Catalog

	mu     sync.RWMutex
	names  map[int]string
	loaded bool
}

// NewGenreCache creates an empty cache backed by catalog.
func NewGenreCache(catalog Catalog) *GenreCache {
	return &GenreCache{catalog: catalog, names: map[int]string{}}
}

// Load fetches the genre table unless it is already cached.
func (g *GenreCache) Load(ctx context.Context) error {
	g.mu.RLock()
	loaded := g.loaded
	g.mu.RUnlock()
	if loaded {
		return nil
	}

	genres, err := g.catalog.Genres(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, genre := range genres {
		g.names[genre.ID] = genre.Name
	}
	g.loaded = true
	return nil
}

// Loaded reports whether the genre table has been fetched.
func (g *GenreCache) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// Name returns the genre name for id, or [models.DefaultGenre].
func (g *GenreCache) Name(id int) string {
	g.mu.RLock()
	name, ok := g.names[id]
	g.mu.RUnlock()
	if !ok {
		genreCacheLookups.WithLabelValues("fallback").Inc()
		return models.DefaultGenre
	}
	genreCacheLookups.WithLabelValues("hit").Inc()
	return name
}

// Primary returns the name of the movie's first genre, or [models.DefaultGenre].
func (g *GenreCache) Primary(m models.Movie) string {
	id, ok := m.FirstGenreID()
	if !ok {
		return models.DefaultGenre
	}
	return g.Name(id)
}
