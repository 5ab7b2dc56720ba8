package workflow

import "errors"

// State is a record status as the backend reports it
type State string

const (
	StatePending   State = "Pending"
	StateApproved  State = "Approved"
	StateRejected  State = "Rejected"
	StatePaid      State = "Paid"
	StateProcessed State = "Processed"
)

// IsValid reports whether s belongs to any lifecycle
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateApproved, StateRejected, StatePaid, StateProcessed:
		return true
	}
	return false
}

// IsTerminal reports whether s closes its record. Paid closes an expense,
// Processed closes a refund.
func (s State) IsTerminal() bool {
	return s == StatePaid || s == StateProcessed
}

func (s State) String() string { return string(s) }

// Trigger is an operator action that moves a record between states
type Trigger string

const (
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
	TriggerToggle  Trigger = "TOGGLE"
	TriggerPay     Trigger = "PAY"
	TriggerProcess Trigger = "PROCESS"
)

func (t Trigger) String() string { return string(t) }

var (
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrInvalidState         = errors.New("invalid state")
	ErrGuardFailed          = errors.New("guard condition failed")
	ErrDecisionWindowClosed = errors.New("decision window has closed")
)
