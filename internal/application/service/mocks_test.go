package service

import (
	"context"
	"errors"
	"sync"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/domain/event"
)

var errNotStubbed = errors.New("not stubbed")

// mockBackend implements port.Backend with optional function fields
type mockBackend struct {
	mu    sync.Mutex
	calls []string

	getPendingAccountsFunc func(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error)
	approveAccountFunc     func(ctx context.Context, id string) error
	rejectAccountFunc      func(ctx context.Context, id, reason string) error

	getPendingRefundsFunc     func(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error)
	getRefundRequestsFunc     func(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error)
	getRefundFunc             func(ctx context.Context, id string) (*entity.RefundRequest, error)
	approveRefundFunc         func(ctx context.Context, id string, opts port.ApproveRefundOptions) error
	rejectRefundFunc          func(ctx context.Context, id, reason string) error
	markRefundProcessedFunc   func(ctx context.Context, id string) error
	createRefundRequestFunc   func(ctx context.Context, in entity.CreateRefundInput) (*entity.RefundRequest, error)
	getOutsourcedReportFunc   func(ctx context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error)
	listExpensesFunc          func(ctx context.Context) ([]entity.ExpenseRecord, error)
	getExpenseFunc            func(ctx context.Context, id string) (*entity.ExpenseRecord, error)
	approveExpenseFunc        func(ctx context.Context, id string) error
	rejectExpenseFunc         func(ctx context.Context, id, reason string) error
	toggleExpenseDecisionFunc func(ctx context.Context, id string) error
	listInventoryFunc         func(ctx context.Context) ([]entity.InventoryItem, error)
}

var _ port.Backend = (*mockBackend)(nil)

func (m *mockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockBackend) GetPendingAccounts(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error) {
	m.record("GetPendingAccounts")
	if m.getPendingAccountsFunc != nil {
		return m.getPendingAccountsFunc(ctx, page, pageSize)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) ApproveAccount(ctx context.Context, id string) error {
	m.record("ApproveAccount")
	if m.approveAccountFunc != nil {
		return m.approveAccountFunc(ctx, id)
	}
	return nil
}

func (m *mockBackend) RejectAccount(ctx context.Context, id, reason string) error {
	m.record("RejectAccount")
	if m.rejectAccountFunc != nil {
		return m.rejectAccountFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockBackend) GetPendingRefunds(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error) {
	m.record("GetPendingRefunds")
	if m.getPendingRefundsFunc != nil {
		return m.getPendingRefundsFunc(ctx, page, pageSize)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) GetRefundRequests(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error) {
	m.record("GetRefundRequests")
	if m.getRefundRequestsFunc != nil {
		return m.getRefundRequestsFunc(ctx, page, pageSize, status)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) GetRefund(ctx context.Context, id string) (*entity.RefundRequest, error) {
	m.record("GetRefund")
	if m.getRefundFunc != nil {
		return m.getRefundFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) ApproveRefund(ctx context.Context, id string, opts port.ApproveRefundOptions) error {
	m.record("ApproveRefund")
	if m.approveRefundFunc != nil {
		return m.approveRefundFunc(ctx, id, opts)
	}
	return nil
}

func (m *mockBackend) RejectRefund(ctx context.Context, id, reason string) error {
	m.record("RejectRefund")
	if m.rejectRefundFunc != nil {
		return m.rejectRefundFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockBackend) MarkRefundAsProcessed(ctx context.Context, id string) error {
	m.record("MarkRefundAsProcessed")
	if m.markRefundProcessedFunc != nil {
		return m.markRefundProcessedFunc(ctx, id)
	}
	return nil
}

func (m *mockBackend) CreateRefundRequest(ctx context.Context, in entity.CreateRefundInput) (*entity.RefundRequest, error) {
	m.record("CreateRefundRequest")
	if m.createRefundRequestFunc != nil {
		return m.createRefundRequestFunc(ctx, in)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) GetOutsourcedReport(ctx context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
	m.record("GetOutsourcedReport")
	if m.getOutsourcedReportFunc != nil {
		return m.getOutsourcedReportFunc(ctx, q)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) ListExpenses(ctx context.Context) ([]entity.ExpenseRecord, error) {
	m.record("ListExpenses")
	if m.listExpensesFunc != nil {
		return m.listExpensesFunc(ctx)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) GetExpense(ctx context.Context, id string) (*entity.ExpenseRecord, error) {
	m.record("GetExpense")
	if m.getExpenseFunc != nil {
		return m.getExpenseFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockBackend) ApproveExpense(ctx context.Context, id string) error {
	m.record("ApproveExpense")
	if m.approveExpenseFunc != nil {
		return m.approveExpenseFunc(ctx, id)
	}
	return nil
}

func (m *mockBackend) RejectExpense(ctx context.Context, id, reason string) error {
	m.record("RejectExpense")
	if m.rejectExpenseFunc != nil {
		return m.rejectExpenseFunc(ctx, id, reason)
	}
	return nil
}

func (m *mockBackend) ToggleExpenseDecision(ctx context.Context, id string) error {
	m.record("ToggleExpenseDecision")
	if m.toggleExpenseDecisionFunc != nil {
		return m.toggleExpenseDecisionFunc(ctx, id)
	}
	return nil
}

func (m *mockBackend) ListInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	m.record("ListInventory")
	if m.listInventoryFunc != nil {
		return m.listInventoryFunc(ctx)
	}
	return nil, errNotStubbed
}

// mockLogger discards everything
type mockLogger struct{}

func (mockLogger) Info(string, ...any)  {}
func (mockLogger) Error(string, ...any) {}

// recordingPublisher keeps every dispatched event
type recordingPublisher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (p *recordingPublisher) Dispatch(_ context.Context, evt *event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func (p *recordingPublisher) Last() *event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

// mockActionLogRepo is an in-memory port.ActionLogRepository
type mockActionLogRepo struct {
	mu        sync.Mutex
	logs      []*entity.ActionLog
	createErr error
}

func (r *mockActionLogRepo) Create(_ context.Context, log *entity.ActionLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, log)
	return nil
}

func (r *mockActionLogRepo) ListRecent(_ context.Context, limit int) ([]*entity.ActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ActionLog
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *mockActionLogRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.ActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ActionLog
	for _, l := range r.logs {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}
