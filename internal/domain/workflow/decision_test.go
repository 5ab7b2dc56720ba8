package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

var fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := fixedNow.Add(-d)
	return &t
}

func TestCanToggleDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision *time.Time
		want     bool
	}{
		{"no decision", nil, false},
		{"59 minutes ago", ago(59 * time.Minute), true},
		{"exactly 60 minutes ago", ago(60 * time.Minute), true},
		{"one millisecond past the window", ago(60*time.Minute + time.Millisecond), false},
		{"61 minutes ago", ago(61 * time.Minute), false},
		{"just now", ago(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanToggleDecision(tt.decision, fixedNow))
		})
	}
}

func TestWindowRemaining(t *testing.T) {
	assert.Equal(t, 45*time.Minute, WindowRemaining(ago(15*time.Minute), fixedNow))
	assert.Equal(t, time.Duration(0), WindowRemaining(ago(2*time.Hour), fixedNow))
	assert.Equal(t, time.Duration(0), WindowRemaining(nil, fixedNow))
}

func TestExpenseDecisionOptions(t *testing.T) {
	t.Run("pending offers approve and reject", func(t *testing.T) {
		opts := ExpenseDecisionOptions(entity.ExpenseRecord{Status: entity.ExpenseStatusPending}, fixedNow)
		assert.True(t, opts.CanApprove)
		assert.True(t, opts.CanReject)
		assert.Nil(t, opts.Toggle)
	})

	t.Run("approved 30 minutes ago offers toggle to rejected", func(t *testing.T) {
		rec := entity.ExpenseRecord{Status: entity.ExpenseStatusApproved, DecisionDate: ago(30 * time.Minute)}
		opts := ExpenseDecisionOptions(rec, fixedNow)
		require.NotNil(t, opts.Toggle)
		assert.Equal(t, "Toggle to Rejected", opts.Toggle.Label)
		assert.Equal(t, entity.ExpenseStatusRejected, opts.Toggle.Target)
		assert.Equal(t, 30*time.Minute, opts.WindowRemaining)
		assert.False(t, opts.CanApprove)
		assert.Empty(t, opts.Message)
	})

	t.Run("approved 90 minutes ago shows expired message", func(t *testing.T) {
		rec := entity.ExpenseRecord{Status: entity.ExpenseStatusApproved, DecisionDate: ago(90 * time.Minute)}
		opts := ExpenseDecisionOptions(rec, fixedNow)
		assert.Nil(t, opts.Toggle)
		assert.Equal(t, WindowExpiredMessage, opts.Message)
	})

	t.Run("rejected within window offers toggle to approved", func(t *testing.T) {
		rec := entity.ExpenseRecord{Status: entity.ExpenseStatusRejected, DecisionDate: ago(5 * time.Minute)}
		opts := ExpenseDecisionOptions(rec, fixedNow)
		require.NotNil(t, opts.Toggle)
		assert.Equal(t, "Toggle to Approved", opts.Toggle.Label)
	})

	t.Run("paid is final", func(t *testing.T) {
		rec := entity.ExpenseRecord{Status: entity.ExpenseStatusPaid, DecisionDate: ago(time.Minute)}
		opts := ExpenseDecisionOptions(rec, fixedNow)
		assert.Nil(t, opts.Toggle)
		assert.False(t, opts.CanApprove)
		assert.NotEmpty(t, opts.Message)
	})

	t.Run("unknown status", func(t *testing.T) {
		opts := ExpenseDecisionOptions(entity.ExpenseRecord{Status: "Archived"}, fixedNow)
		assert.False(t, opts.CanApprove)
		assert.NotEmpty(t, opts.Message)
	})
}

func TestToggleTarget(t *testing.T) {
	target, err := ToggleTarget(entity.ExpenseRecord{Status: entity.ExpenseStatusApproved, DecisionDate: ago(10 * time.Minute)}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusRejected, target)

	_, err = ToggleTarget(entity.ExpenseRecord{Status: entity.ExpenseStatusRejected, DecisionDate: ago(2 * time.Hour)}, fixedNow)
	assert.True(t, errors.Is(err, ErrDecisionWindowClosed))

	_, err = ToggleTarget(entity.ExpenseRecord{Status: entity.ExpenseStatusPending}, fixedNow)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestRefundMachine(t *testing.T) {
	m, err := NewRefundMachine(entity.RefundStatusPending)
	require.NoError(t, err)
	assert.False(t, m.CanFire(TriggerProcess))

	m, err = NewRefundMachine(entity.RefundStatusApproved)
	require.NoError(t, err)
	assert.True(t, m.CanFire(TriggerProcess))

	m, err = NewRefundMachine(entity.RefundStatusProcessed)
	require.NoError(t, err)
	assert.Empty(t, m.PermittedTriggers(context.Background()))
	assert.True(t, m.State().IsTerminal())

	_, err = NewRefundMachine("Unknown")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAccountMachine(t *testing.T) {
	m, err := NewAccountMachine(entity.AccountStatusPending)
	require.NoError(t, err)
	assert.True(t, m.CanFire(TriggerApprove))
	assert.True(t, m.CanFire(TriggerReject))

	m, err = NewAccountMachine(entity.AccountStatusRejected)
	require.NoError(t, err)
	assert.False(t, m.CanFire(TriggerApprove))

	_, err = NewAccountMachine("Paid")
	assert.ErrorIs(t, err, ErrInvalidState)
}
