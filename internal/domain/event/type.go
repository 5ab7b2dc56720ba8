package event

// Type identifies the type of domain event
type Type string

const (
	// TypeDecisionRecorded follows a successful approve, reject, toggle or process call
	TypeDecisionRecorded Type = "decision.recorded"
	// TypeOperationFailed follows a remote call that failed
	TypeOperationFailed Type = "operation.failed"
	// TypeValidationFailed follows input rejected before any network call
	TypeValidationFailed Type = "validation.failed"
	TypeSessionCleared   Type = "session.cleared"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeDecisionRecorded,
		TypeOperationFailed,
		TypeValidationFailed,
		TypeSessionCleared:
		return true
	default:
		return false
	}
}

// IsFailure reports whether the event announces something the operator must be told about
func (t Type) IsFailure() bool {
	return t == TypeOperationFailed || t == TypeValidationFailed
}
