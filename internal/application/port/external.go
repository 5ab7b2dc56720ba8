package port

import (
	"context"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// ApproveRefundOptions carries the optional payout details of a refund approval
type ApproveRefundOptions struct {
	Method    string `json:"refundMethod,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// AccountBackend defines the remote account approval operations
type AccountBackend interface {
	GetPendingAccounts(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error)
	ApproveAccount(ctx context.Context, id string) error
	RejectAccount(ctx context.Context, id, reason string) error
}

// RefundBackend defines the remote refund operations
type RefundBackend interface {
	GetPendingRefunds(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error)
	// GetRefundRequests lists refunds with status, or every status when status is empty
	GetRefundRequests(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error)
	GetRefund(ctx context.Context, id string) (*entity.RefundRequest, error)
	ApproveRefund(ctx context.Context, id string, opts ApproveRefundOptions) error
	RejectRefund(ctx context.Context, id, reason string) error
	MarkRefundAsProcessed(ctx context.Context, id string) error
	CreateRefundRequest(ctx context.Context, in entity.CreateRefundInput) (*entity.RefundRequest, error)
}

// ReportBackend defines the remote aggregate report operations
type ReportBackend interface {
	GetOutsourcedReport(ctx context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error)
}

// ExpenseBackend defines the remote expense operations
type ExpenseBackend interface {
	ListExpenses(ctx context.Context) ([]entity.ExpenseRecord, error)
	GetExpense(ctx context.Context, id string) (*entity.ExpenseRecord, error)
	ApproveExpense(ctx context.Context, id string) error
	RejectExpense(ctx context.Context, id, reason string) error
	ToggleExpenseDecision(ctx context.Context, id string) error
}

// InventoryBackend defines the remote inventory operations
type InventoryBackend interface {
	ListInventory(ctx context.Context) ([]entity.InventoryItem, error)
}

// Backend is the remote collaborator that owns every record the console shows
type Backend interface {
	AccountBackend
	RefundBackend
	ReportBackend
	ExpenseBackend
	InventoryBackend
}
