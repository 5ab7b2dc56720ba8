package workflow

import (
	"context"
	"fmt"
	"sort"
)

// Guard decides at fire time whether a transition may apply
type Guard func(ctx context.Context) bool

// Transition is one row of a lifecycle table
type Transition struct {
	From    State
	Trigger Trigger
	To      State
	Guard   Guard
}

// Lifecycle is an immutable transition table for one kind of record
type Lifecycle struct {
	name   string
	states map[State]bool
	rows   map[State]map[Trigger]Transition
}

// NewLifecycle builds a table from rows. Every state named in a row is a
// legal starting state, plus any listed in extra. A malformed table panics.
func NewLifecycle(name string, rows []Transition, extra ...State) *Lifecycle {
	l := &Lifecycle{
		name:   name,
		states: make(map[State]bool),
		rows:   make(map[State]map[Trigger]Transition),
	}
	for _, s := range extra {
		l.addState(s)
	}
	for _, t := range rows {
		l.addState(t.From)
		l.addState(t.To)
		if _, dup := l.rows[t.From][t.Trigger]; dup {
			panic(fmt.Sprintf("workflow: %s: duplicate %s from %s", name, t.Trigger, t.From))
		}
		if l.rows[t.From] == nil {
			l.rows[t.From] = make(map[Trigger]Transition)
		}
		l.rows[t.From][t.Trigger] = t
	}
	return l
}

func (l *Lifecycle) addState(s State) {
	if !s.IsValid() {
		panic(fmt.Sprintf("workflow: %s: unknown state %q", l.name, s))
	}
	l.states[s] = true
}

// Start returns a machine positioned at initial
func (l *Lifecycle) Start(initial State) (StateMachine, error) {
	if !l.states[initial] {
		return nil, fmt.Errorf("%w: %s cannot be %q", ErrInvalidState, l.name, initial)
	}
	return &machine{lifecycle: l, current: initial}, nil
}

// StateMachine tracks one record through its lifecycle. It is not safe for
// concurrent use.
type StateMachine interface {
	State() State
	// CanFire ignores guards
	CanFire(trigger Trigger) bool
	// Permits also evaluates the guard
	Permits(ctx context.Context, trigger Trigger) bool
	Fire(ctx context.Context, trigger Trigger) error
	PermittedTriggers(ctx context.Context) []Trigger
}

type machine struct {
	lifecycle *Lifecycle
	current   State
}

func (m *machine) State() State { return m.current }

func (m *machine) CanFire(trigger Trigger) bool {
	_, ok := m.lifecycle.rows[m.current][trigger]
	return ok
}

func (m *machine) Permits(ctx context.Context, trigger Trigger) bool {
	t, ok := m.lifecycle.rows[m.current][trigger]
	return ok && (t.Guard == nil || t.Guard(ctx))
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	t, ok := m.lifecycle.rows[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: %s cannot %s from %s", ErrInvalidTransition, m.lifecycle.name, trigger, m.current)
	}
	if t.Guard != nil && !t.Guard(ctx) {
		return fmt.Errorf("%w: %s %s from %s", ErrGuardFailed, m.lifecycle.name, trigger, m.current)
	}
	m.current = t.To
	return nil
}

func (m *machine) PermittedTriggers(ctx context.Context) []Trigger {
	var out []Trigger
	for trigger := range m.lifecycle.rows[m.current] {
		if m.Permits(ctx, trigger) {
			out = append(out, trigger)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
