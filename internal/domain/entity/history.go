package entity

import "time"

// Action outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// ActionLog records a mutation issued from the console
type ActionLog struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason,omitempty"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
