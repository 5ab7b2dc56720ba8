package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/domain/workflow"
	"github.com/garyjia/erp-admin-console/internal/format"
)

// AccountService manages merchant account approvals
type AccountService interface {
	ListPending(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
}

type accountServiceImpl struct {
	backend port.AccountBackend
	views   Views[*entity.Page[entity.AccountApproval]]
	events  events
	logger  Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(backend port.AccountBackend, publisher Publisher, logger Logger) AccountService {
	return &accountServiceImpl{
		backend: backend,
		events:  events{publisher: publisher, logger: logger},
		logger:  logger,
	}
}

// ListPending loads one page of accounts awaiting approval
func (s *accountServiceImpl) ListPending(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error) {
	result, err := s.views.Load(ctx, func(ctx context.Context) (*entity.Page[entity.AccountApproval], error) {
		return s.backend.GetPendingAccounts(ctx, page, pageSize)
	})
	if err != nil {
		return nil, s.events.failed(ctx, EntityAccount, "", ActionList, err)
	}
	return result, nil
}

// Approve approves a pending account
func (s *accountServiceImpl) Approve(ctx context.Context, id string) error {
	if err := s.backend.ApproveAccount(ctx, id); err != nil {
		return s.events.failed(ctx, EntityAccount, id, ActionApprove, err)
	}
	s.logger.Info("Account approved", "account_id", id)
	s.events.recorded(ctx, EntityAccount, id, ActionApprove, "")
	return nil
}

// Reject rejects a pending account; reason is required
func (s *accountServiceImpl) Reject(ctx context.Context, id, reason string) error {
	if err := requireReason(reason); err != nil {
		return s.events.failed(ctx, EntityAccount, id, ActionReject, err)
	}
	if err := s.backend.RejectAccount(ctx, id, cleanReason(reason)); err != nil {
		return s.events.failed(ctx, EntityAccount, id, ActionReject, err)
	}
	s.logger.Info("Account rejected", "account_id", id)
	s.events.recorded(ctx, EntityAccount, id, ActionReject, reason)
	return nil
}

// RefundService manages refund requests
type RefundService interface {
	ListPending(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error)
	List(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error)
	Approve(ctx context.Context, id string, opts port.ApproveRefundOptions) error
	Reject(ctx context.Context, id, reason string) error
	MarkProcessed(ctx context.Context, id string) error
	// Create validates in against saleTotal locally before submitting it
	Create(ctx context.Context, in entity.CreateRefundInput, saleTotal float64) (*entity.RefundRequest, error)
}

type refundServiceImpl struct {
	backend   port.RefundBackend
	formatter *format.Formatter
	pending   Views[*entity.Page[entity.RefundRequest]]
	all       Views[*entity.Page[entity.RefundRequest]]
	events    events
	logger    Logger
}

// NewRefundService creates a new RefundService
func NewRefundService(backend port.RefundBackend, formatter *format.Formatter, publisher Publisher, logger Logger) RefundService {
	return &refundServiceImpl{
		backend:   backend,
		formatter: formatter,
		events:    events{publisher: publisher, logger: logger},
		logger:    logger,
	}
}

// ListPending loads one page of refunds awaiting a decision
func (s *refundServiceImpl) ListPending(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error) {
	result, err := s.pending.Load(ctx, func(ctx context.Context) (*entity.Page[entity.RefundRequest], error) {
		return s.backend.GetPendingRefunds(ctx, page, pageSize)
	})
	if err != nil {
		return nil, s.events.failed(ctx, EntityRefund, "", ActionList, err)
	}
	return result, nil
}

// List loads one page of refunds filtered by status
func (s *refundServiceImpl) List(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error) {
	result, err := s.all.Load(ctx, func(ctx context.Context) (*entity.Page[entity.RefundRequest], error) {
		return s.backend.GetRefundRequests(ctx, page, pageSize, status)
	})
	if err != nil {
		return nil, s.events.failed(ctx, EntityRefund, "", ActionList, err)
	}
	return result, nil
}

// Approve approves a refund with optional payout details
func (s *refundServiceImpl) Approve(ctx context.Context, id string, opts port.ApproveRefundOptions) error {
	if err := s.backend.ApproveRefund(ctx, id, opts); err != nil {
		return s.events.failed(ctx, EntityRefund, id, ActionApprove, err)
	}
	s.logger.Info("Refund approved", "refund_id", id, "method", opts.Method)
	s.events.recorded(ctx, EntityRefund, id, ActionApprove, "")
	return nil
}

// Reject rejects a refund; reason is required
func (s *refundServiceImpl) Reject(ctx context.Context, id, reason string) error {
	if err := requireReason(reason); err != nil {
		return s.events.failed(ctx, EntityRefund, id, ActionReject, err)
	}
	if err := s.backend.RejectRefund(ctx, id, cleanReason(reason)); err != nil {
		return s.events.failed(ctx, EntityRefund, id, ActionReject, err)
	}
	s.logger.Info("Refund rejected", "refund_id", id)
	s.events.recorded(ctx, EntityRefund, id, ActionReject, reason)
	return nil
}

// MarkProcessed records the payout of an approved refund
func (s *refundServiceImpl) MarkProcessed(ctx context.Context, id string) error {
	refund, err := s.backend.GetRefund(ctx, id)
	if err != nil {
		return s.events.failed(ctx, EntityRefund, id, ActionProcess, err)
	}

	machine, err := workflow.NewRefundMachine(refund.Status)
	if err != nil || !machine.CanFire(workflow.TriggerProcess) {
		return s.events.failed(ctx, EntityRefund, id, ActionProcess,
			apperr.Localf("Only approved refunds can be marked as processed (this refund is %s).", refund.Status))
	}

	if err := s.backend.MarkRefundAsProcessed(ctx, id); err != nil {
		return s.events.failed(ctx, EntityRefund, id, ActionProcess, err)
	}
	s.logger.Info("Refund processed", "refund_id", id)
	s.events.recorded(ctx, EntityRefund, id, ActionProcess, "")
	return nil
}

// Create opens a refund after checking it locally
func (s *refundServiceImpl) Create(ctx context.Context, in entity.CreateRefundInput, saleTotal float64) (*entity.RefundRequest, error) {
	if err := s.validateCreate(in, saleTotal); err != nil {
		return nil, s.events.failed(ctx, EntityRefund, in.SaleID, ActionCreate, err)
	}

	in.Reason = strings.TrimSpace(in.Reason)
	refund, err := s.backend.CreateRefundRequest(ctx, in)
	if err != nil {
		return nil, s.events.failed(ctx, EntityRefund, in.SaleID, ActionCreate, err)
	}
	s.logger.Info("Refund requested", "refund_id", refund.ID, "sale_id", in.SaleID)
	s.events.recorded(ctx, EntityRefund, refund.ID, ActionCreate, in.Reason)
	return refund, nil
}

func (s *refundServiceImpl) validateCreate(in entity.CreateRefundInput, saleTotal float64) error {
	var problems []string
	if strings.TrimSpace(in.SaleID) == "" {
		problems = append(problems, "A sale must be selected.")
	}

	amount := decimal.NewFromFloat(in.Amount).Round(2)
	total := decimal.NewFromFloat(saleTotal).Round(2)
	switch {
	case !amount.IsPositive():
		problems = append(problems, "Refund amount must be greater than zero.")
	case amount.GreaterThan(total):
		problems = append(problems, "Refund amount "+s.formatter.Currency(amount.InexactFloat64())+
			" exceeds the sale total of "+s.formatter.Currency(total.InexactFloat64())+".")
	}

	if strings.TrimSpace(in.Reason) == "" {
		problems = append(problems, "A reason is required for the refund.")
	}

	if len(problems) > 0 {
		return apperr.Local(problems...)
	}
	return nil
}
