package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func decision(id string) *event.Event {
	return event.NewEvent(event.TypeDecisionRecorded, "expense", id, map[string]any{event.KeyAction: "approve"})
}

func noop(context.Context, *event.Event) error { return nil }

func TestSubscribe(t *testing.T) {
	t.Run("one handler across several types", func(t *testing.T) {
		d := NewDispatcher()
		var seen []event.Type
		d.Subscribe("audit", func(_ context.Context, evt *event.Event) error {
			seen = append(seen, evt.Type)
			return nil
		}, event.TypeDecisionRecorded, event.TypeSessionCleared)

		_ = d.Dispatch(context.Background(), decision("EXP-1"))
		_ = d.Dispatch(context.Background(), event.NewEvent(event.TypeSessionCleared, "session", "", nil))
		_ = d.Dispatch(context.Background(), event.NewEvent(event.TypeOperationFailed, "expense", "EXP-1", nil))

		if len(seen) != 2 || seen[0] != event.TypeDecisionRecorded || seen[1] != event.TypeSessionCleared {
			t.Errorf("unexpected deliveries: %v", seen)
		}
	})

	t.Run("same name replaces the handler", func(t *testing.T) {
		d := NewDispatcher()
		var first, second int
		d.Subscribe("notifications", func(context.Context, *event.Event) error { first++; return nil }, event.TypeDecisionRecorded)
		d.Subscribe("notifications", func(context.Context, *event.Event) error { second++; return nil }, event.TypeDecisionRecorded)

		_ = d.Dispatch(context.Background(), decision("EXP-1"))

		if first != 0 || second != 1 {
			t.Errorf("expected only the replacement to run, got first=%d second=%d", first, second)
		}
		if subs := d.Subscriptions(); len(subs) != 1 {
			t.Errorf("expected 1 subscription, got %d", len(subs))
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		d.Subscribe("notifications", noop, event.TypeSessionCleared)
		if len(logger.infos) != 1 || logger.infos[0] != "Handler registered" {
			t.Errorf("unexpected log lines: %v", logger.infos)
		}
	})
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	var calledA, calledB bool
	d.Subscribe("a", func(context.Context, *event.Event) error { calledA = true; return nil }, event.TypeDecisionRecorded)
	d.Subscribe("b", func(context.Context, *event.Event) error { calledB = true; return nil }, event.TypeDecisionRecorded)

	d.Unsubscribe("a")
	d.Unsubscribe("missing")
	_ = d.Dispatch(context.Background(), decision("EXP-1"))

	if calledA {
		t.Error("unsubscribed handler ran")
	}
	if !calledB {
		t.Error("remaining handler did not run")
	}
	subs := d.Subscriptions()
	if len(subs) != 1 || subs[0].Name != "b" {
		t.Errorf("unexpected subscriptions: %+v", subs)
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs handlers in subscription order", func(t *testing.T) {
		d := NewDispatcher()
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			d.Subscribe(name, func(context.Context, *event.Event) error {
				order = append(order, name)
				return nil
			}, event.TypeDecisionRecorded)
		}

		if err := d.Dispatch(context.Background(), decision("EXP-1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 || order[0] != "first" || order[2] != "third" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("no subscribers is not an error", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Dispatch(context.Background(), decision("EXP-1")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("joins handler errors and keeps going", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		errFirst := errors.New("first")
		errThird := errors.New("third")
		secondRan := false

		d.Subscribe("first", func(context.Context, *event.Event) error { return errFirst }, event.TypeDecisionRecorded)
		d.Subscribe("second", func(context.Context, *event.Event) error {
			secondRan = true
			return nil
		}, event.TypeDecisionRecorded)
		d.Subscribe("third", func(context.Context, *event.Event) error { return errThird }, event.TypeDecisionRecorded)

		err := d.Dispatch(context.Background(), decision("EXP-1"))
		if !errors.Is(err, errFirst) || !errors.Is(err, errThird) {
			t.Errorf("expected both errors joined, got %v", err)
		}
		if !secondRan {
			t.Error("expected second handler to run")
		}
		if logger.ErrorCount() != 2 {
			t.Errorf("expected 2 logged errors, got %d", logger.ErrorCount())
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		d := NewDispatcher()
		d.Subscribe("boom", func(context.Context, *event.Event) error {
			panic("kaboom")
		}, event.TypeDecisionRecorded)

		if err := d.Dispatch(context.Background(), decision("EXP-1")); err == nil {
			t.Fatal("expected panic to surface as error")
		}
	})

	t.Run("rejects nil event", func(t *testing.T) {
		if err := NewDispatcher().Dispatch(context.Background(), nil); err == nil {
			t.Error("expected error for nil event")
		}
	})

	t.Run("refuses after close", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if err := d.Dispatch(context.Background(), decision("EXP-1")); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
		if err := d.Close(); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed on double close, got %v", err)
		}
	})
}

func TestConcurrentDispatch(t *testing.T) {
	d := NewDispatcher()
	var count atomic.Int32
	d.Subscribe("counter", func(context.Context, *event.Event) error {
		count.Add(1)
		return nil
	}, event.TypeDecisionRecorded)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), decision(string(rune('A'+i%26))))
		}()
	}
	wg.Wait()

	if count.Load() != 50 {
		t.Errorf("expected 50 calls, got %d", count.Load())
	}
}
