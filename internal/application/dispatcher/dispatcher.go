// Package dispatcher is the in-process event bus between the services that
// record decisions and the subscribers that notify and audit them.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes domain events to named subscribers
type Dispatcher interface {
	// Subscribe registers handler under name for each of types. Subscribing
	// an existing name again replaces its handler and type set.
	Subscribe(name string, handler Handler, types ...event.Type)

	// Unsubscribe removes the named handler from every type
	Unsubscribe(name string)

	// Dispatch runs every handler for evt.Type synchronously, in
	// subscription order. Every handler runs; their errors are joined.
	Dispatch(ctx context.Context, evt *event.Event) error

	// Subscriptions lists registered handlers in subscription order
	Subscriptions() []Subscription

	// Close rejects further dispatches
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type entry struct {
	name    string
	types   []event.Type
	handler Handler
}

// eventDispatcher is the concrete implementation of Dispatcher
type eventDispatcher struct {
	mu      sync.RWMutex
	entries []entry
	logger  Logger
	closed  atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(name string, handler Handler, types ...event.Type) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e := entry{name: name, types: slices.Clone(types), handler: handler}
	if i := d.index(name); i >= 0 {
		d.entries[i] = e
	} else {
		d.entries = append(d.entries, e)
	}

	if d.logger != nil {
		d.logger.Info("Handler registered", "handler_name", name, "event_types", types)
	}
}

func (d *eventDispatcher) Unsubscribe(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i := d.index(name); i >= 0 {
		d.entries = slices.Delete(d.entries, i, i+1)
		if d.logger != nil {
			d.logger.Info("Handler unregistered", "handler_name", name)
		}
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}
	if evt == nil {
		return fmt.Errorf("nil event")
	}

	d.mu.RLock()
	var targets []entry
	for _, e := range d.entries {
		if slices.Contains(e.types, evt.Type) {
			targets = append(targets, e)
		}
	}
	d.mu.RUnlock()

	var errs []error
	for _, e := range targets {
		if err := d.run(ctx, evt, e); err != nil {
			if d.logger != nil {
				d.logger.Error("Handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", e.name,
					"error", err,
				)
			}
			errs = append(errs, fmt.Errorf("handler %s failed: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}

func (d *eventDispatcher) Subscriptions() []Subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Subscription, len(d.entries))
	for i, e := range d.entries {
		out[i] = Subscription{Name: e.name, Types: slices.Clone(e.types)}
	}
	return out
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if d.logger != nil {
		d.logger.Info("Dispatcher closed")
	}
	return nil
}

// index returns the position of name, or -1. Callers hold mu.
func (d *eventDispatcher) index(name string) int {
	return slices.IndexFunc(d.entries, func(e entry) bool { return e.name == name })
}

// run calls one handler, turning a panic into an error
func (d *eventDispatcher) run(ctx context.Context, evt *event.Event, e entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return e.handler(ctx, evt)
}
