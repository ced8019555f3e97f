package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/desertthunder/reel/internal/shared"
)

// Preference keys shared with the stores.
const (
	FavoritesKey     = "movieFavorites"
	SelectedMovieKey = "selectedMovieId"
)

// PreferenceStore is a small string key/value store.
// Get reports false when the key has never been set.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RememberSelection stores movieID under [SelectedMovieKey].
func RememberSelection(ctx context.Context, store PreferenceStore, movieID int) error {
	if err := store.Set(ctx, SelectedMovieKey, strconv.Itoa(movieID)); err != nil {
		return fmt.Errorf("failed to remember selection: %w", err)
	}
	return nil
}

// Favorites keeps an ordered, duplicate-free list of movie ids as a JSON array under [FavoritesKey].
type Favorites struct {
	store PreferenceStore
	mu    sync.Mutex
}

// NewFavorites creates a favorites list backed by store.
func NewFavorites(store PreferenceStore) *Favorites {
	return &Favorites{store: store}
}

// List returns favorite ids in the order they were added.
func (f *Favorites) List(ctx context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(ctx)
}

// Contains reports whether id is a favorite.
func (f *Favorites) Contains(ctx context.Context, id int) (bool, error) {
	ids, err := f.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Add appends id unless present. It reports whether the list changed.
func (f *Favorites) Add(ctx context.Context, id int) (bool, error) {
	return f.update(ctx, func(ids []int) ([]int, bool) {
		if slices.Contains(ids, id) {
			return ids, false
		}
		return append(ids, id), true
	})
}

// Remove deletes id if present. It reports whether the list changed.
func (f *Favorites) Remove(ctx context.Context, id int) (bool, error) {
	return f.update(ctx, func(ids []int) ([]int, bool) {
		i := slices.Index(ids, id)
		if i < 0 {
			return ids, false
		}
		return slices.Delete(ids, i, i+1), true
	})
}

// Toggle adds or removes id and returns whether it is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, id int) (bool, error) {
	var now bool
	_, err := f.update(ctx, func(ids []int) ([]int, bool) {
		if i := slices.Index(ids, id); i >= 0 {
			return slices.Delete(ids, i, i+1), true
		}
		now = true
		return append(ids, id), true
	})
	return now, err
}

func (f *Favorites) update(ctx context.Context, fn func([]int) ([]int, bool)) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids, err := f.load(ctx)
	if err != nil {
		return false, err
	}
	ids, changed := fn(ids)
	if !changed {
		return false, nil
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return false, fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.store.Set(ctx, FavoritesKey, string(data)); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	return true, nil
}

// load decodes the stored array. Ids written as JSON strings are accepted.
func (f *Favorites) load(ctx context.Context) ([]int, error) {
	raw, ok, err := f.store.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok || raw == "" {
		return []int{}, nil
	}

	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%w: favorites is not a JSON array: %v", shared.ErrInvalidInput, err)
	}

	ids := make([]int, 0, len(values))
	for _, v := range values {
		var id int
		switch v := v.(type) {
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: favorite id %v", shared.ErrInvalidInput, v)
			}
			id = int(v)
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: favorite id %q", shared.ErrInvalidInput, v)
			}
			id = n
		default:
			return nil, fmt.Errorf("%w: favorite id %v", shared.ErrInvalidInput, v)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
