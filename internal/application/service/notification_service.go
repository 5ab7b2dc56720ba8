package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/erp-admin-console/internal/application/dispatcher"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

// DefaultNotificationCapacity bounds the notification ring
const DefaultNotificationCapacity = 50

// Notification levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is a transient message shown to the operator
type Notification struct {
	ID         string    `json:"id"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationCenter keeps the most recent notifications in a bounded ring
type NotificationCenter struct {
	mu    sync.Mutex
	ring  []Notification
	next  int
	count int
}

// NewNotificationCenter creates a center holding at most capacity notifications
func NewNotificationCenter(capacity int) *NotificationCenter {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &NotificationCenter{ring: make([]Notification, capacity)}
}

// Subscribe registers the center for every event that produces a notification
func (c *NotificationCenter) Subscribe(d dispatcher.Dispatcher) {
	d.Subscribe("notification_center", c.Handle,
		event.TypeDecisionRecorded,
		event.TypeOperationFailed,
		event.TypeValidationFailed,
		event.TypeSessionCleared,
	)
}

// Handle converts evt into a notification
func (c *NotificationCenter) Handle(_ context.Context, evt *event.Event) error {
	n := Notification{
		ID:         evt.ID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		CreatedAt:  evt.Timestamp,
	}

	switch {
	case evt.Type.IsFailure():
		n.Level = LevelError
		n.Message = evt.GetPayloadString(event.KeyMessage)
	case evt.Type == event.TypeSessionCleared:
		n.Level = LevelInfo
		n.Message = "You have been signed out."
	default:
		n.Level = LevelSuccess
		n.Message = decisionMessage(evt)
	}

	c.push(n)
	return nil
}

func (c *NotificationCenter) push(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ring[c.next] = n
	c.next = (c.next + 1) % len(c.ring)
	if c.count < len(c.ring) {
		c.count++
	}
}

// List returns up to limit notifications, newest first. limit <= 0 returns all.
func (c *NotificationCenter) List(limit int) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Notification, 0, n)
	for i := 1; i <= n; i++ {
		idx := (c.next - i + len(c.ring)) % len(c.ring)
		out = append(out, c.ring[idx])
	}
	return out
}

// Clear drops every notification
func (c *NotificationCenter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.ring)
	c.next = 0
	c.count = 0
}

var pastTense = map[string]string{
	ActionApprove: "approved",
	ActionReject:  "rejected",
	ActionToggle:  "updated",
	ActionProcess: "marked as processed",
	ActionCreate:  "created",
}

// decisionMessage reads e.g. "Expense EXP-0001 approved."
func decisionMessage(evt *event.Event) string {
	action := evt.GetPayloadString(event.KeyAction)
	verb, ok := pastTense[action]
	if !ok {
		verb = action
	}
	subject := "Request"
	if evt.EntityType != "" {
		subject = strings.ToUpper(evt.EntityType[:1]) + evt.EntityType[1:]
	}
	if evt.EntityID == "" {
		return fmt.Sprintf("%s %s.", subject, verb)
	}
	return fmt.Sprintf("%s %s %s.", subject, evt.EntityID, verb)
}
