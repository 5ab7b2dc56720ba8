package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/erp-admin-console/internal/application/dispatcher"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

func TestNotificationCenter_Messages(t *testing.T) {
	c := NewNotificationCenter(10)
	ctx := context.Background()

	require.NoError(t, c.Handle(ctx, event.NewEvent(event.TypeDecisionRecorded, EntityExpense, "EXP-0001",
		map[string]any{event.KeyAction: ActionApprove})))
	require.NoError(t, c.Handle(ctx, event.NewEvent(event.TypeValidationFailed, EntityRefund, "",
		map[string]any{event.KeyMessage: "A reason is required to reject this request."})))
	require.NoError(t, c.Handle(ctx, event.NewEvent(event.TypeSessionCleared, EntitySession, "", nil)))

	got := c.List(0)
	require.Len(t, got, 3)

	assert.Equal(t, LevelInfo, got[0].Level)
	assert.Equal(t, "You have been signed out.", got[0].Message)

	assert.Equal(t, LevelError, got[1].Level)
	assert.Equal(t, "A reason is required to reject this request.", got[1].Message)

	assert.Equal(t, LevelSuccess, got[2].Level)
	assert.Equal(t, "Expense EXP-0001 approved.", got[2].Message)
}

func TestNotificationCenter_RingDropsOldest(t *testing.T) {
	c := NewNotificationCenter(3)
	for i := 1; i <= 5; i++ {
		evt := event.NewEvent(event.TypeDecisionRecorded, EntityAccount, fmt.Sprintf("ACC-%04d", i),
			map[string]any{event.KeyAction: ActionReject})
		require.NoError(t, c.Handle(context.Background(), evt))
	}

	got := c.List(0)
	require.Len(t, got, 3)
	assert.Equal(t, "ACC-0005", got[0].EntityID)
	assert.Equal(t, "ACC-0003", got[2].EntityID)

	assert.Len(t, c.List(2), 2)

	c.Clear()
	assert.Empty(t, c.List(0))
}

func TestNotificationCenter_SubscribedThroughDispatcher(t *testing.T) {
	d := dispatcher.NewDispatcher()
	c := NewNotificationCenter(0)
	c.Subscribe(d)

	svc := NewAccountService(&mockBackend{}, d, mockLogger{})
	require.Error(t, svc.Reject(context.Background(), "ACC-0001", ""))
	require.NoError(t, svc.Approve(context.Background(), "ACC-0002"))

	got := c.List(0)
	require.Len(t, got, 2)
	assert.Equal(t, "Account ACC-0002 approved.", got[0].Message)
	assert.Equal(t, LevelError, got[1].Level)
}
