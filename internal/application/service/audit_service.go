package service

import (
	"context"
	"fmt"

	"github.com/garyjia/erp-admin-console/internal/application/dispatcher"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

// DefaultActivityLimit is the number of entries returned when no limit is given
const DefaultActivityLimit = 50

// ActionRecorder writes an action log entry for every attempted mutation
type ActionRecorder struct {
	repo   port.ActionLogRepository
	logger Logger
}

// NewActionRecorder creates a new ActionRecorder
func NewActionRecorder(repo port.ActionLogRepository, logger Logger) *ActionRecorder {
	return &ActionRecorder{repo: repo, logger: logger}
}

// Subscribe registers the recorder for decision and failure events
func (r *ActionRecorder) Subscribe(d dispatcher.Dispatcher) {
	d.Subscribe("action_recorder", r.Handle,
		event.TypeDecisionRecorded,
		event.TypeOperationFailed,
		event.TypeValidationFailed,
		event.TypeSessionCleared,
	)
}

// Handle persists evt. Failed list loads are not mutations and are skipped.
func (r *ActionRecorder) Handle(ctx context.Context, evt *event.Event) error {
	action := evt.GetPayloadString(event.KeyAction)
	if evt.Type == event.TypeSessionCleared {
		action = ActionLogout
	}
	if action == ActionList {
		return nil
	}

	entry := &entity.ActionLog{
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Action:     action,
		Reason:     evt.GetPayloadString(event.KeyReason),
		Outcome:    entity.OutcomeSuccess,
		CreatedAt:  evt.Timestamp,
	}
	if evt.Type.IsFailure() {
		entry.Outcome = entity.OutcomeFailed
		entry.Message = evt.GetPayloadString(event.KeyMessage)
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("Failed to record action", "event_id", evt.ID, "action", action, "error", err)
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// ActivityService reads the action log
type ActivityService interface {
	Recent(ctx context.Context, limit int) ([]*entity.ActionLog, error)
	History(ctx context.Context, entityType, entityID string) ([]*entity.ActionLog, error)
}

type activityServiceImpl struct {
	repo port.ActionLogRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(repo port.ActionLogRepository) ActivityService {
	return &activityServiceImpl{repo: repo}
}

// Recent returns the newest entries first
func (s *activityServiceImpl) Recent(ctx context.Context, limit int) ([]*entity.ActionLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent actions: %w", err)
	}
	return logs, nil
}

// History returns every entry for one record, oldest first
func (s *activityServiceImpl) History(ctx context.Context, entityType, entityID string) ([]*entity.ActionLog, error) {
	logs, err := s.repo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list actions for %s %s: %w", entityType, entityID, err)
	}
	return logs, nil
}
