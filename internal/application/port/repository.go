package port

import (
	"context"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// LocalStorage is the console's persistent key/value store
type LocalStorage interface {
	// Get returns the value for key, false when absent
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ActionLogRepository defines persistence operations for ActionLog
type ActionLogRepository interface {
	Create(ctx context.Context, log *entity.ActionLog) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ActionLog, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.ActionLog, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
