package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/persistence/sqlite"
)

// LocalStorageRepository implements port.LocalStorage
type LocalStorageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLocalStorageRepository creates a new local storage repository
func NewLocalStorageRepository(db *sql.DB, logger *zap.Logger) port.LocalStorage {
	return &LocalStorageRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the stored value for key
func (r *LocalStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := sqlite.ExecutorFor(ctx, r.db).
		QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).
		Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to read local storage", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (r *LocalStorageRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query, key, value); err != nil {
		r.logger.Error("Failed to write local storage", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *LocalStorageRepository) Delete(ctx context.Context, key string) error {
	if _, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		r.logger.Error("Failed to delete local storage key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
