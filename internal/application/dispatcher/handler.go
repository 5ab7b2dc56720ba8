package dispatcher

import (
	"context"

	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// Subscription describes one registered handler
type Subscription struct {
	Name  string
	Types []event.Type
}
