package service

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load that finished after a newer load started
var ErrSuperseded = errors.New("request superseded by a newer one")

// Snapshot is what a list view currently shows
type Snapshot[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     error
	Seq     uint64
}

// ListView tracks one page view's list. Each Load takes a new sequence number
// and cancels the load it replaces; only the newest load may update the view.
type ListView[T any] struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	data    T
	hasData bool
	err     error
}

// Load runs fn and stores its result if no newer Load started meanwhile.
// A failed load keeps the previous data.
func (v *ListView[T]) Load(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.loading = true
	v.mu.Unlock()

	result, err := fn(loadCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()

	var zero T
	if seq != v.seq {
		return zero, ErrSuperseded
	}

	v.cancel = nil
	v.loading = false
	if err != nil {
		v.err = err
		return zero, err
	}
	v.data = result
	v.hasData = true
	v.err = nil
	return result, nil
}

// Snapshot returns the view state. Data is withheld while a load is in flight.
func (v *ListView[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot[T]{Loading: v.loading, Err: v.err, Seq: v.seq}
	if !v.loading {
		snap.Data = v.data
		snap.HasData = v.hasData
	}
	return snap
}

type viewIDKey struct{}

// WithViewID tags ctx with the page view a list load belongs to
func WithViewID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, viewIDKey{}, id)
}

// ViewIDFrom returns the page view id carried by ctx, if any
func ViewIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(viewIDKey{}).(string)
	return id
}

// MaxViews bounds how many page views a service remembers
const MaxViews = 256

// Views keeps one ListView per page view id. Loads from different views never
// supersede each other, and a load without a view id runs unsequenced.
type Views[T any] struct {
	mu    sync.Mutex
	clock uint64
	byID  map[string]*trackedView[T]
}

type trackedView[T any] struct {
	view     ListView[T]
	lastUsed uint64
}

// Load runs fn through the view named by ctx
func (vs *Views[T]) Load(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	id := ViewIDFrom(ctx)
	if id == "" {
		return fn(ctx)
	}
	return vs.view(id).Load(ctx, fn)
}

// Get returns the view for id, or nil if it was never loaded or was evicted
func (vs *Views[T]) Get(id string) *ListView[T] {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if tv, ok := vs.byID[id]; ok {
		return &tv.view
	}
	return nil
}

func (vs *Views[T]) view(id string) *ListView[T] {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.byID == nil {
		vs.byID = make(map[string]*trackedView[T])
	}
	vs.clock++
	if tv, ok := vs.byID[id]; ok {
		tv.lastUsed = vs.clock
		return &tv.view
	}
	if len(vs.byID) >= MaxViews {
		vs.evictOldest()
	}
	tv := &trackedView[T]{lastUsed: vs.clock}
	vs.byID[id] = tv
	return &tv.view
}

// evictOldest drops the least recently used view. A load still running on it
// completes against the dropped view and is not superseded.
func (vs *Views[T]) evictOldest() {
	var (
		oldestID string
		oldest   uint64
	)
	for id, tv := range vs.byID {
		if oldestID == "" || tv.lastUsed < oldest {
			oldestID, oldest = id, tv.lastUsed
		}
	}
	delete(vs.byID, oldestID)
}
