package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// PreferenceRepository persists [models.Preference] rows in SQLite.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new [PreferenceRepository] with the given database connection
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the value stored under key. The boolean is false when the key is absent.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query preference: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (id, key, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, query, shared.GenerateID(), key, value, now, now); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

// Find returns the full row for key, or [shared.ErrPreferenceNotFound].
func (r *PreferenceRepository) Find(ctx context.Context, key string) (*models.Preference, error) {
	var p models.Preference
	err := r.db.QueryRowContext(ctx,
		"SELECT id, key, value, created_at, updated_at FROM preferences WHERE key = ?", key,
	).Scan(&p.ID, &p.Key, &p.Value, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPreferenceNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference: %w", err)
	}
	return &p, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *PreferenceRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}

// Keys lists stored keys in alphabetical order.
func (r *PreferenceRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key FROM preferences ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Ping verifies the database connection.
func (r *PreferenceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database.
func (r *PreferenceRepository) Close() error {
	return r.db.Close()
}
