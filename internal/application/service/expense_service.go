package service

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/domain/workflow"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/query"
)

// ExpenseQuery selects and orders the expense list
type ExpenseQuery struct {
	Status     string
	Category   string
	Department string
	Priority   string
	Search     string
	SortKey    string
	Order      query.Order
	Page       int
	PageSize   int
}

// ExpenseRow is one expense with its display values and available actions
type ExpenseRow struct {
	entity.ExpenseRecord
	AmountText    string                   `json:"amountText"`
	StatusClass   string                   `json:"statusClass"`
	PriorityClass string                   `json:"priorityClass"`
	Options       workflow.DecisionOptions `json:"options"`
}

// ExpenseService manages expense requests
type ExpenseService interface {
	List(ctx context.Context, q ExpenseQuery) (*entity.Page[ExpenseRow], error)
	// Records returns the filtered, searched and sorted records without paging
	Records(ctx context.Context, q ExpenseQuery) ([]entity.ExpenseRecord, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id, reason string) error
	// Toggle reverses a decision still inside the decision window
	Toggle(ctx context.Context, id string) (entity.ExpenseStatus, error)
}

type expenseServiceImpl struct {
	backend   port.ExpenseBackend
	formatter *format.Formatter
	now       func() time.Time
	views     Views[[]entity.ExpenseRecord]
	events    events
	logger    Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(backend port.ExpenseBackend, formatter *format.Formatter, now func() time.Time, publisher Publisher, logger Logger) ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &expenseServiceImpl{
		backend:   backend,
		formatter: formatter,
		now:       now,
		events:    events{publisher: publisher, logger: logger},
		logger:    logger,
	}
}

// List fetches every expense through the caller's page view, then filters,
// searches, sorts and pages locally
func (s *expenseServiceImpl) List(ctx context.Context, q ExpenseQuery) (*entity.Page[ExpenseRow], error) {
	fetched, err := s.views.Load(ctx, s.backend.ListExpenses)
	if err != nil {
		return nil, s.events.failed(ctx, EntityExpense, "", ActionList, err)
	}
	records := applyExpenseQuery(fetched, q)

	now := s.now()
	page := query.Paginate(records, q.Page, q.PageSize)
	rows := make([]ExpenseRow, len(page.Items))
	for i, rec := range page.Items {
		rows[i] = ExpenseRow{
			ExpenseRecord: rec,
			AmountText:    s.formatter.Currency(rec.Amount),
			StatusClass:   format.StatusColor(string(rec.Status)),
			PriorityClass: format.PriorityColor(string(rec.Priority)),
			Options:       workflow.ExpenseDecisionOptions(rec, now),
		}
	}

	return &entity.Page[ExpenseRow]{
		Items:    rows,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// Records fetches every expense and applies the query without paging. It
// bypasses page views so an export never cancels a list load.
func (s *expenseServiceImpl) Records(ctx context.Context, q ExpenseQuery) ([]entity.ExpenseRecord, error) {
	records, err := s.backend.ListExpenses(ctx)
	if err != nil {
		return nil, s.events.failed(ctx, EntityExpense, "", ActionList, err)
	}
	return applyExpenseQuery(records, q), nil
}

func applyExpenseQuery(records []entity.ExpenseRecord, q ExpenseQuery) []entity.ExpenseRecord {
	records = filterAll(records, map[string]string{
		"status":     q.Status,
		"category":   q.Category,
		"department": q.Department,
		"priority":   q.Priority,
	})
	records = query.Search(records, q.Search)
	return query.Sort(records, q.SortKey, q.Order)
}

// Approve approves a pending expense
func (s *expenseServiceImpl) Approve(ctx context.Context, id string) error {
	if err := s.backend.ApproveExpense(ctx, id); err != nil {
		return s.events.failed(ctx, EntityExpense, id, ActionApprove, err)
	}
	s.logger.Info("Expense approved", "expense_id", id)
	s.events.recorded(ctx, EntityExpense, id, ActionApprove, "")
	return nil
}

// Reject rejects a pending expense; reason is required
func (s *expenseServiceImpl) Reject(ctx context.Context, id, reason string) error {
	if err := requireReason(reason); err != nil {
		return s.events.failed(ctx, EntityExpense, id, ActionReject, err)
	}
	if err := s.backend.RejectExpense(ctx, id, cleanReason(reason)); err != nil {
		return s.events.failed(ctx, EntityExpense, id, ActionReject, err)
	}
	s.logger.Info("Expense rejected", "expense_id", id)
	s.events.recorded(ctx, EntityExpense, id, ActionReject, reason)
	return nil
}

// Toggle checks the decision window against the current record before calling the backend
func (s *expenseServiceImpl) Toggle(ctx context.Context, id string) (entity.ExpenseStatus, error) {
	record, err := s.backend.GetExpense(ctx, id)
	if err != nil {
		return "", s.events.failed(ctx, EntityExpense, id, ActionToggle, err)
	}

	target, err := workflow.ToggleTarget(*record, s.now())
	if err != nil {
		msg := "This expense has no decision to change."
		if errors.Is(err, workflow.ErrDecisionWindowClosed) {
			msg = workflow.WindowExpiredMessage + "."
		}
		return "", s.events.failed(ctx, EntityExpense, id, ActionToggle, apperr.Local(msg))
	}

	if err := s.backend.ToggleExpenseDecision(ctx, id); err != nil {
		return "", s.events.failed(ctx, EntityExpense, id, ActionToggle, err)
	}
	s.logger.Info("Expense decision toggled", "expense_id", id, "status", target)
	s.events.recorded(ctx, EntityExpense, id, ActionToggle, "")
	return target, nil
}

// filterAll applies each non-empty field filter in turn
func filterAll[T query.Record](items []T, filters map[string]string) []T {
	for field, value := range filters {
		if value == "" {
			continue
		}
		items = query.FilterByField(items, field, value)
	}
	return items
}
