// package repositories provides preference store implementations backed by SQLite and Redis.
package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reel/internal/controller"
	"github.com/desertthunder/reel/internal/shared"
)

// Store is a [controller.PreferenceStore] that can also be listed and cleared.
type Store interface {
	controller.PreferenceStore
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the preference store selected by cfg.Preferences.Backend.
func Open(ctx context.Context, cfg *shared.Config, logger *log.Logger) (Store, error) {
	switch cfg.Preferences.Backend {
	case "", "sqlite":
		db, err := shared.OpenDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Debug("using sqlite preference store", "path", cfg.Database.Path)
		return NewPreferenceRepository(db), nil
	case "redis":
		store, err := DialRedisPreferenceStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Debug("using redis preference store", "addr", cfg.Redis.Addr)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown preferences backend %q", shared.ErrInvalidConfig, cfg.Preferences.Backend)
	}
}
