// Package demo serves generated records through the backend port so the
// console runs without a remote service.
package demo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/domain/workflow"
	"github.com/garyjia/erp-admin-console/internal/generator"
	"github.com/garyjia/erp-admin-console/internal/query"
)

// Config sizes the generated data set
type Config struct {
	Seed             uint64
	Accounts         int
	Refunds          int
	Expenses         int
	Inventory        int
	PurchasesPerItem int
	// Approver is stamped on decisions
	Approver string
}

// DefaultConfig returns a small reproducible data set
func DefaultConfig() Config {
	return Config{
		Seed:             42,
		Accounts:         12,
		Refunds:          15,
		Expenses:         40,
		Inventory:        30,
		PurchasesPerItem: 4,
		Approver:         "Console Admin",
	}
}

// order is a purchase fulfilled by an outsourced supplier
type order struct {
	entity.Purchase
	supplier      string
	cost          float64
	paymentStatus string
}

// Backend is an in-memory port.Backend
type Backend struct {
	mu         sync.RWMutex
	now        func() time.Time
	approver   string
	accounts   []entity.AccountApproval
	refunds    []entity.RefundRequest
	expenses   []entity.ExpenseRecord
	inventory  []entity.InventoryItem
	orders     []order
	nextRefund int
}

var _ port.Backend = (*Backend)(nil)

// Option configures a Backend
type Option func(*Backend)

// WithClock sets the clock used for generated dates and decision stamps
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// New generates the data set described by cfg
func New(cfg Config, opts ...Option) *Backend {
	b := &Backend{now: time.Now, approver: cfg.Approver}
	for _, opt := range opts {
		opt(b)
	}
	if b.approver == "" {
		b.approver = DefaultConfig().Approver
	}

	gen := generator.NewSeeded(cfg.Seed, generator.WithClock(b.now))
	b.accounts = gen.AccountApprovals(cfg.Accounts)
	b.refunds = gen.RefundRequests(cfg.Refunds)
	b.expenses = gen.Expenses(cfg.Expenses)
	b.inventory = gen.InventoryItems(cfg.Inventory)
	b.nextRefund = len(b.refunds) + 1

	for i := range b.inventory {
		item := &b.inventory[i]
		item.Purchases = gen.Purchases(*item, cfg.PurchasesPerItem)
		for _, p := range item.Purchases {
			b.orders = append(b.orders, order{
				Purchase:      p,
				supplier:      gen.Supplier(),
				cost:          item.CostPrice * float64(p.Quantity),
				paymentStatus: gen.PaymentStatus(),
			})
		}
	}

	return b
}

func notFound(kind, id string) error {
	return &apperr.Error{Kind: apperr.KindNotFound, Status: http.StatusNotFound,
		Messages: []string{fmt.Sprintf("%s %s not found", kind, id)}}
}

func rejected(format string, args ...any) error {
	return &apperr.Error{Kind: apperr.KindValidation, Status: http.StatusUnprocessableEntity,
		Messages: []string{fmt.Sprintf(format, args...)}}
}

// transition fires trigger on machine or explains why it cannot
func transition(machine workflow.StateMachine, err error, trigger workflow.Trigger, what string) (workflow.State, error) {
	if err != nil {
		return "", rejected("%s is in an unknown state", what)
	}
	if err := machine.Fire(context.Background(), trigger); err != nil {
		if errors.Is(err, workflow.ErrGuardFailed) {
			return "", rejected("%s.", workflow.WindowExpiredMessage)
		}
		return "", rejected("%s cannot be changed while %s", what, machine.State())
	}
	return machine.State(), nil
}

func reasonRequired(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return rejected("reason is required")
	}
	return nil
}

// GetPendingAccounts pages the accounts awaiting approval
func (b *Backend) GetPendingAccounts(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	pending := slices.DeleteFunc(slices.Clone(b.accounts), func(a entity.AccountApproval) bool {
		return a.Status != entity.AccountStatusPending
	})
	result := query.Paginate(pending, page, pageSize)
	return &result, nil
}

func (b *Backend) decideAccount(ctx context.Context, id string, trigger workflow.Trigger, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.accounts, func(a entity.AccountApproval) bool { return a.ID == id })
	if i < 0 {
		return notFound("account", id)
	}
	acc := &b.accounts[i]

	machine, err := workflow.NewAccountMachine(acc.Status)
	state, err := transition(machine, err, trigger, "account "+id)
	if err != nil {
		return err
	}
	acc.Status = entity.AccountStatus(state)
	acc.RejectionReason = strings.TrimSpace(reason)
	acc.UpdatedAt = b.now()
	return nil
}

// ApproveAccount approves a pending account
func (b *Backend) ApproveAccount(ctx context.Context, id string) error {
	return b.decideAccount(ctx, id, workflow.TriggerApprove, "")
}

// RejectAccount rejects a pending account
func (b *Backend) RejectAccount(ctx context.Context, id, reason string) error {
	if err := reasonRequired(reason); err != nil {
		return err
	}
	return b.decideAccount(ctx, id, workflow.TriggerReject, reason)
}

// GetPendingRefunds pages the refunds awaiting a decision
func (b *Backend) GetPendingRefunds(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error) {
	return b.GetRefundRequests(ctx, page, pageSize, string(entity.RefundStatusPending))
}

// GetRefundRequests pages refunds with status; empty or All matches every refund
func (b *Backend) GetRefundRequests(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	refunds := slices.Clone(b.refunds)
	if status != "" && status != entity.FilterAll {
		refunds = slices.DeleteFunc(refunds, func(r entity.RefundRequest) bool {
			return string(r.Status) != status
		})
	}
	// newest first
	slices.Reverse(refunds)
	result := query.Paginate(refunds, page, pageSize)
	return &result, nil
}

// GetRefund returns one refund
func (b *Backend) GetRefund(ctx context.Context, id string) (*entity.RefundRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := slices.IndexFunc(b.refunds, func(r entity.RefundRequest) bool { return r.ID == id })
	if i < 0 {
		return nil, notFound("refund", id)
	}
	refund := b.refunds[i]
	return &refund, nil
}

// updateRefund applies trigger to refund id and lets apply stamp the result
func (b *Backend) updateRefund(ctx context.Context, id string, trigger workflow.Trigger, apply func(r *entity.RefundRequest, now time.Time)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.refunds, func(r entity.RefundRequest) bool { return r.ID == id })
	if i < 0 {
		return notFound("refund", id)
	}
	refund := &b.refunds[i]

	machine, err := workflow.NewRefundMachine(refund.Status)
	state, err := transition(machine, err, trigger, "refund "+id)
	if err != nil {
		return err
	}
	now := b.now()
	refund.Status = entity.RefundStatus(state)
	refund.UpdatedAt = now
	apply(refund, now)
	return nil
}

// ApproveRefund approves a pending refund and records the payout details
func (b *Backend) ApproveRefund(ctx context.Context, id string, opts port.ApproveRefundOptions) error {
	return b.updateRefund(ctx, id, workflow.TriggerApprove, func(r *entity.RefundRequest, _ time.Time) {
		r.RefundMethod = opts.Method
		r.Reference = opts.Reference
	})
}

// RejectRefund rejects a pending refund
func (b *Backend) RejectRefund(ctx context.Context, id, reason string) error {
	if err := reasonRequired(reason); err != nil {
		return err
	}
	return b.updateRefund(ctx, id, workflow.TriggerReject, func(r *entity.RefundRequest, _ time.Time) {
		r.RejectionReason = strings.TrimSpace(reason)
	})
}

// MarkRefundAsProcessed records the payout of an approved refund
func (b *Backend) MarkRefundAsProcessed(ctx context.Context, id string) error {
	return b.updateRefund(ctx, id, workflow.TriggerProcess, func(r *entity.RefundRequest, now time.Time) {
		r.ProcessedAt = &now
	})
}

// CreateRefundRequest opens a pending refund
func (b *Backend) CreateRefundRequest(ctx context.Context, in entity.CreateRefundInput) (*entity.RefundRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var problems []string
	if strings.TrimSpace(in.SaleID) == "" {
		problems = append(problems, "saleId is required")
	}
	if in.Amount <= 0 {
		problems = append(problems, "amount must be positive")
	}
	if strings.TrimSpace(in.Reason) == "" {
		problems = append(problems, "reason is required")
	}
	if len(problems) > 0 {
		return nil, &apperr.Error{Kind: apperr.KindValidation, Status: http.StatusBadRequest, Messages: problems}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	refund := entity.RefundRequest{
		ID:          generator.SequentialID("REF", b.nextRefund),
		SaleID:      in.SaleID,
		Amount:      in.Amount,
		Reason:      strings.TrimSpace(in.Reason),
		Status:      entity.RefundStatusPending,
		RequestedBy: b.approver,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.nextRefund++
	b.refunds = append(b.refunds, refund)
	return &refund, nil
}

// ListExpenses returns every expense
func (b *Backend) ListExpenses(ctx context.Context) ([]entity.ExpenseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.expenses), nil
}

// GetExpense returns one expense
func (b *Backend) GetExpense(ctx context.Context, id string) (*entity.ExpenseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := slices.IndexFunc(b.expenses, func(e entity.ExpenseRecord) bool { return e.ID == id })
	if i < 0 {
		return nil, notFound("expense", id)
	}
	rec := b.expenses[i]
	return &rec, nil
}

// updateExpense builds the expense machine as of now, fires trigger and stamps the record
func (b *Backend) updateExpense(ctx context.Context, id string, trigger workflow.Trigger, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.expenses, func(e entity.ExpenseRecord) bool { return e.ID == id })
	if i < 0 {
		return notFound("expense", id)
	}
	rec := &b.expenses[i]
	now := b.now()

	machine, err := workflow.NewExpenseMachine(*rec, now)
	state, err := transition(machine, err, trigger, "expense "+id)
	if err != nil {
		return err
	}

	// every decision, reversals included, restamps the decision date
	rec.Status = entity.ExpenseStatus(state)
	rec.DecisionDate = &now
	switch rec.Status {
	case entity.ExpenseStatusApproved:
		rec.ApprovedBy = b.approver
		rec.ApprovedDate = &now
		rec.RejectionReason = ""
	case entity.ExpenseStatusRejected:
		rec.ApprovedBy = ""
		rec.ApprovedDate = nil
		rec.RejectionReason = strings.TrimSpace(reason)
		if rec.RejectionReason == "" {
			rec.RejectionReason = "Decision reversed"
		}
	}
	return nil
}

// ApproveExpense approves a pending expense
func (b *Backend) ApproveExpense(ctx context.Context, id string) error {
	return b.updateExpense(ctx, id, workflow.TriggerApprove, "")
}

// RejectExpense rejects a pending expense
func (b *Backend) RejectExpense(ctx context.Context, id, reason string) error {
	if err := reasonRequired(reason); err != nil {
		return err
	}
	return b.updateExpense(ctx, id, workflow.TriggerReject, reason)
}

// ToggleExpenseDecision reverses a decision inside the decision window
func (b *Backend) ToggleExpenseDecision(ctx context.Context, id string) error {
	return b.updateExpense(ctx, id, workflow.TriggerToggle, "")
}

// ListInventory returns the catalogue without purchase lines
func (b *Backend) ListInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := slices.Clone(b.inventory)
	for i := range items {
		items[i].Purchases = nil
	}
	return items, nil
}
