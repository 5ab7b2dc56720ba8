package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateApproved, false},
		{StateRejected, false},
		{StatePaid, true},
		{StateProcessed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"processed", StateProcessed, true},
		{"wrong case", State("PENDING"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

var reviewRows = []Transition{
	{From: StatePending, Trigger: TriggerApprove, To: StateApproved},
	{From: StatePending, Trigger: TriggerReject, To: StateRejected},
	{From: StateApproved, Trigger: TriggerPay, To: StatePaid},
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestNewLifecycle_RejectsMalformedTables(t *testing.T) {
	mustPanic(t, "unknown from", func() {
		NewLifecycle("bad", []Transition{{From: "Draft", Trigger: TriggerApprove, To: StateApproved}})
	})
	mustPanic(t, "unknown to", func() {
		NewLifecycle("bad", []Transition{{From: StatePending, Trigger: TriggerApprove, To: "Done"}})
	})
	mustPanic(t, "duplicate row", func() {
		NewLifecycle("bad", []Transition{
			{From: StatePending, Trigger: TriggerApprove, To: StateApproved},
			{From: StatePending, Trigger: TriggerApprove, To: StateRejected},
		})
	})
	mustPanic(t, "unknown extra", func() {
		NewLifecycle("bad", nil, "Archived")
	})
}

func TestLifecycle_Start(t *testing.T) {
	l := NewLifecycle("review", reviewRows)

	for _, s := range []State{StatePending, StateApproved, StateRejected, StatePaid} {
		m, err := l.Start(s)
		if err != nil {
			t.Fatalf("Start(%s) error = %v", s, err)
		}
		if m.State() != s {
			t.Errorf("State() = %s, want %s", m.State(), s)
		}
	}

	if _, err := l.Start(StateProcessed); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Start(Processed) error = %v, want ErrInvalidState", err)
	}
	if _, err := NewLifecycle("idle", nil, StateProcessed).Start(StateProcessed); err != nil {
		t.Errorf("extra state should be startable: %v", err)
	}
}

func TestMachine_Fire(t *testing.T) {
	m, _ := NewLifecycle("review", reviewRows).Start(StatePending)
	ctx := context.Background()

	if err := m.Fire(ctx, TriggerApprove); err != nil {
		t.Fatalf("Fire(APPROVE) error = %v", err)
	}
	if m.State() != StateApproved {
		t.Fatalf("State() = %s, want Approved", m.State())
	}

	err := m.Fire(ctx, TriggerReject)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire(REJECT) error = %v, want ErrInvalidTransition", err)
	}
	if m.State() != StateApproved {
		t.Error("failed fire must not move the machine")
	}

	if err := m.Fire(ctx, TriggerPay); err != nil || m.State() != StatePaid {
		t.Errorf("Fire(PAY) = %v, state %s", err, m.State())
	}
	if len(m.PermittedTriggers(ctx)) != 0 {
		t.Error("terminal state should permit nothing")
	}
}

func TestMachine_Guard(t *testing.T) {
	open := false
	l := NewLifecycle("guarded", []Transition{
		{From: StateApproved, Trigger: TriggerToggle, To: StateRejected,
			Guard: func(context.Context) bool { return open }},
	})
	m, _ := l.Start(StateApproved)
	ctx := context.Background()

	if !m.CanFire(TriggerToggle) {
		t.Error("CanFire should ignore guards")
	}
	if m.Permits(ctx, TriggerToggle) {
		t.Error("Permits should evaluate the guard")
	}
	if err := m.Fire(ctx, TriggerToggle); !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire error = %v, want ErrGuardFailed", err)
	}

	open = true
	if err := m.Fire(ctx, TriggerToggle); err != nil {
		t.Fatalf("Fire error = %v", err)
	}
	if m.State() != StateRejected {
		t.Errorf("State() = %s, want Rejected", m.State())
	}
}

func TestMachine_PermittedTriggersSorted(t *testing.T) {
	m, _ := NewLifecycle("review", reviewRows).Start(StatePending)

	got := m.PermittedTriggers(context.Background())
	if len(got) != 2 || got[0] != TriggerApprove || got[1] != TriggerReject {
		t.Errorf("PermittedTriggers() = %v, want [APPROVE REJECT]", got)
	}
}

func TestMachine_Independent(t *testing.T) {
	l := NewLifecycle("review", reviewRows)
	a, _ := l.Start(StatePending)
	b, _ := l.Start(StatePending)

	if err := a.Fire(context.Background(), TriggerReject); err != nil {
		t.Fatal(err)
	}
	if b.State() != StatePending {
		t.Errorf("machines from one lifecycle share state: %s", b.State())
	}
}
