// Package service holds the console's use cases: listing, deciding and
// reporting over records owned by the backend.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
	"github.com/garyjia/erp-admin-console/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Publisher delivers domain events to subscribers
type Publisher interface {
	Dispatch(ctx context.Context, evt *event.Event) error
}

// Entity types carried by events and the action log
const (
	EntityAccount   = "account"
	EntityRefund    = "refund"
	EntityExpense   = "expense"
	EntityInventory = "inventory"
	EntityReport    = "report"
	EntitySession   = "session"
)

// Actions carried by events and the action log
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionToggle  = "toggle"
	ActionProcess = "process"
	ActionCreate  = "create"
	ActionList    = "list"
	ActionExport  = "export"
	ActionLogout  = "logout"
)

// events publishes outcome events on behalf of a service
type events struct {
	publisher Publisher
	logger    Logger
}

func (e events) publish(ctx context.Context, evt *event.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Dispatch(ctx, evt); err != nil {
		e.logger.Error("Failed to publish event", "event_type", evt.Type, "entity_id", evt.EntityID, "error", err)
	}
}

// recorded announces a successful mutation
func (e events) recorded(ctx context.Context, entityType, id, action, reason string) {
	e.publish(ctx, event.NewEvent(event.TypeDecisionRecorded, entityType, id, map[string]any{
		event.KeyAction: action,
		event.KeyReason: reason,
	}))
}

// failed announces err with its display message and returns err unchanged.
// Superseded and cancelled loads are not failures the operator needs to see.
func (e events) failed(ctx context.Context, entityType, id, action string, err error) error {
	if errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled) {
		return err
	}

	evtType := event.TypeOperationFailed
	if ae, ok := apperr.As(err); ok && ae.Local {
		evtType = event.TypeValidationFailed
	}

	e.logger.Error("Operation failed", "entity_type", entityType, "entity_id", id, "action", action, "error", err)
	e.publish(context.WithoutCancel(ctx), event.NewEvent(evtType, entityType, id, map[string]any{
		event.KeyAction:  action,
		event.KeyMessage: apperr.DisplayMessage(err),
	}))
	return err
}

// cleanReason strips control characters and surrounding whitespace
func cleanReason(reason string) string {
	return strings.TrimSpace(utils.SanitizeString(reason))
}

// requireReason rejects a blank decision reason before any network call
func requireReason(reason string) error {
	if cleanReason(reason) == "" {
		return apperr.Local("A reason is required to reject this request.")
	}
	return nil
}
