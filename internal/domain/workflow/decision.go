package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// DecisionWindow is how long an approve or reject decision stays reversible
const DecisionWindow = time.Hour

// CanToggleDecision reports whether a decision stamped at decisionDate may still be
// reversed at now. The boundary is inclusive.
func CanToggleDecision(decisionDate *time.Time, now time.Time) bool {
	if decisionDate == nil {
		return false
	}
	return now.Sub(*decisionDate) <= DecisionWindow
}

// WindowRemaining returns how long the decision stays reversible, zero once closed
func WindowRemaining(decisionDate *time.Time, now time.Time) time.Duration {
	if !CanToggleDecision(decisionDate, now) {
		return 0
	}
	remaining := DecisionWindow - now.Sub(*decisionDate)
	if remaining > DecisionWindow {
		return DecisionWindow
	}
	return remaining
}

var (
	refundLifecycle = NewLifecycle("refund", []Transition{
		{From: StatePending, Trigger: TriggerApprove, To: StateApproved},
		{From: StatePending, Trigger: TriggerReject, To: StateRejected},
		{From: StateApproved, Trigger: TriggerProcess, To: StateProcessed},
	})

	accountLifecycle = NewLifecycle("account", []Transition{
		{From: StatePending, Trigger: TriggerApprove, To: StateApproved},
		{From: StatePending, Trigger: TriggerReject, To: StateRejected},
	})
)

// expenseLifecycle depends on the record because reversals close an hour
// after its decision date.
func expenseLifecycle(record entity.ExpenseRecord, now time.Time) *Lifecycle {
	withinWindow := func(context.Context) bool {
		return CanToggleDecision(record.DecisionDate, now)
	}
	return NewLifecycle("expense", []Transition{
		{From: StatePending, Trigger: TriggerApprove, To: StateApproved},
		{From: StatePending, Trigger: TriggerReject, To: StateRejected},
		{From: StateApproved, Trigger: TriggerToggle, To: StateRejected, Guard: withinWindow},
		{From: StateApproved, Trigger: TriggerPay, To: StatePaid},
		{From: StateRejected, Trigger: TriggerToggle, To: StateApproved, Guard: withinWindow},
	})
}

// NewExpenseMachine positions an expense in its lifecycle as of now
func NewExpenseMachine(record entity.ExpenseRecord, now time.Time) (StateMachine, error) {
	m, err := expenseLifecycle(record, now).Start(State(record.Status))
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", record.ID, err)
	}
	return m, nil
}

func NewRefundMachine(status entity.RefundStatus) (StateMachine, error) {
	return refundLifecycle.Start(State(status))
}

func NewAccountMachine(status entity.AccountStatus) (StateMachine, error) {
	return accountLifecycle.Start(State(status))
}

// ToggleAction describes an available reversal
type ToggleAction struct {
	Target entity.ExpenseStatus `json:"target"`
	Label  string               `json:"label"`
}

// DecisionOptions lists what an operator may do with an expense right now
type DecisionOptions struct {
	CanApprove      bool          `json:"canApprove"`
	CanReject       bool          `json:"canReject"`
	Toggle          *ToggleAction `json:"toggle,omitempty"`
	WindowRemaining time.Duration `json:"windowRemaining,omitempty"`
	Message         string        `json:"message,omitempty"`
}

// WindowExpiredMessage is shown once a decision can no longer be reversed
const WindowExpiredMessage = "The 1-hour window to change this decision has expired"

// ExpenseDecisionOptions derives the available actions for an expense at now
func ExpenseDecisionOptions(record entity.ExpenseRecord, now time.Time) DecisionOptions {
	machine, err := NewExpenseMachine(record, now)
	if err != nil {
		return DecisionOptions{Message: "Unknown expense status"}
	}

	ctx := context.Background()
	opts := DecisionOptions{
		CanApprove: machine.Permits(ctx, TriggerApprove),
		CanReject:  machine.Permits(ctx, TriggerReject),
	}

	switch machine.State() {
	case StateApproved, StateRejected:
		if machine.Permits(ctx, TriggerToggle) {
			target := entity.ExpenseStatusRejected
			if machine.State() == StateRejected {
				target = entity.ExpenseStatusApproved
			}
			opts.Toggle = &ToggleAction{Target: target, Label: "Toggle to " + string(target)}
			opts.WindowRemaining = WindowRemaining(record.DecisionDate, now)
		} else {
			opts.Message = WindowExpiredMessage
		}
	case StatePaid:
		opts.Message = "Paid expenses are final"
	}

	return opts
}

// ToggleTarget validates a reversal of the expense at now and returns the new status
func ToggleTarget(record entity.ExpenseRecord, now time.Time) (entity.ExpenseStatus, error) {
	machine, err := NewExpenseMachine(record, now)
	if err != nil {
		return "", err
	}
	if err := machine.Fire(context.Background(), TriggerToggle); err != nil {
		if errors.Is(err, ErrGuardFailed) {
			return "", fmt.Errorf("%w: %v", ErrDecisionWindowClosed, err)
		}
		return "", err
	}
	return entity.ExpenseStatus(machine.State()), nil
}
