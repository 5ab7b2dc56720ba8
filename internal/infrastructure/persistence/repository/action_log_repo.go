package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/infrastructure/persistence/sqlite"
)

// ActionLogRepository implements port.ActionLogRepository
type ActionLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewActionLogRepository creates a new action log repository
func NewActionLogRepository(db *sql.DB, logger *zap.Logger) port.ActionLogRepository {
	return &ActionLogRepository{
		db:     db,
		logger: logger,
	}
}

const actionLogColumns = `id, entity_type, entity_id, action, reason, outcome, message, created_at`

// Create appends an entry to the action log
func (r *ActionLogRepository) Create(ctx context.Context, log *entity.ActionLog) error {
	query := `
		INSERT INTO action_logs (
			entity_type, entity_id, action, reason, outcome, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		log.EntityType,
		log.EntityID,
		log.Action,
		log.Reason,
		log.Outcome,
		log.Message,
		log.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create action log",
			zap.String("entity_type", log.EntityType),
			zap.String("entity_id", log.EntityID),
			zap.Error(err))
		return fmt.Errorf("failed to create action log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// ListRecent returns the newest entries first
func (r *ActionLogRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ActionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + actionLogColumns + ` FROM action_logs ORDER BY created_at DESC, id DESC LIMIT ?`
	return r.list(ctx, query, limit)
}

// ListByEntity returns every entry for one record, oldest first
func (r *ActionLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.ActionLog, error) {
	query := `SELECT ` + actionLogColumns + ` FROM action_logs WHERE entity_type = ? AND entity_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, entityType, entityID)
}

func (r *ActionLogRepository) list(ctx context.Context, query string, args ...any) ([]*entity.ActionLog, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list action logs", zap.Error(err))
		return nil, fmt.Errorf("failed to list action logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.ActionLog
	for rows.Next() {
		var log entity.ActionLog
		if err := rows.Scan(
			&log.ID,
			&log.EntityType,
			&log.EntityID,
			&log.Action,
			&log.Reason,
			&log.Outcome,
			&log.Message,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan action log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
