package service

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/export"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/report"
)

// Workbook is a generated export file
type Workbook struct {
	Filename string
	Content  []byte
}

// ReportService builds the outsourced report and the workbook exports
type ReportService interface {
	Outsourced(ctx context.Context, q entity.ReportQuery) (*report.View, error)
	Export(ctx context.Context, q entity.ReportQuery) (*Workbook, error)
	ExportExpenses(ctx context.Context, q ExpenseQuery) (*Workbook, error)
}

type reportServiceImpl struct {
	backend   port.ReportBackend
	expenses  ExpenseService
	exporter  *export.Exporter
	formatter *format.Formatter
	now       func() time.Time
	views     Views[*entity.OutsourcedReportResponse]
	events    events
	logger    Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	backend port.ReportBackend,
	expenses ExpenseService,
	exporter *export.Exporter,
	formatter *format.Formatter,
	now func() time.Time,
	publisher Publisher,
	logger Logger,
) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportServiceImpl{
		backend:   backend,
		expenses:  expenses,
		exporter:  exporter,
		formatter: formatter,
		now:       now,
		events:    events{publisher: publisher, logger: logger},
		logger:    logger,
	}
}

// Outsourced validates q, fetches the aggregate through the caller's page
// view and derives the view
func (s *reportServiceImpl) Outsourced(ctx context.Context, q entity.ReportQuery) (*report.View, error) {
	return s.build(ctx, q, s.views.Load)
}

type reportLoader func(ctx context.Context, fn func(context.Context) (*entity.OutsourcedReportResponse, error)) (*entity.OutsourcedReportResponse, error)

func direct(ctx context.Context, fn func(context.Context) (*entity.OutsourcedReportResponse, error)) (*entity.OutsourcedReportResponse, error) {
	return fn(ctx)
}

func (s *reportServiceImpl) build(ctx context.Context, q entity.ReportQuery, load reportLoader) (*report.View, error) {
	if q.DateRange == "" {
		q.DateRange = entity.DateRange30Days
	}
	if err := report.ValidateQuery(q); err != nil {
		return nil, s.events.failed(ctx, EntityReport, "", ActionList, rangeError(err))
	}

	resp, err := load(ctx, func(ctx context.Context) (*entity.OutsourcedReportResponse, error) {
		return s.backend.GetOutsourcedReport(ctx, q)
	})
	if err != nil {
		return nil, s.events.failed(ctx, EntityReport, "", ActionList, err)
	}

	view := report.BuildView(*resp, s.formatter)
	return &view, nil
}

// Export renders the report for q as a workbook. It fetches outside any page
// view so a running report load is left alone.
func (s *reportServiceImpl) Export(ctx context.Context, q entity.ReportQuery) (*Workbook, error) {
	if q.DateRange == "" {
		q.DateRange = entity.DateRange30Days
	}
	view, err := s.build(ctx, q, direct)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	content, err := s.exporter.OutsourcedReport(*view, q, generatedAt)
	if err != nil {
		return nil, s.events.failed(ctx, EntityReport, "", ActionExport, err)
	}

	s.logger.Info("Report exported", "date_range", q.DateRange, "supplier", q.OutsourcedSupplier, "bytes", len(content))
	return &Workbook{Filename: export.ReportFilename(q, generatedAt), Content: content}, nil
}

// ExportExpenses writes every expense matching q, ignoring paging
func (s *reportServiceImpl) ExportExpenses(ctx context.Context, q ExpenseQuery) (*Workbook, error) {
	records, err := s.expenses.Records(ctx, q)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	content, err := s.exporter.ExpenseRegister(records)
	if err != nil {
		return nil, s.events.failed(ctx, EntityExpense, "", ActionExport, err)
	}

	s.logger.Info("Expense register exported", "records", len(records))
	return &Workbook{Filename: export.ExpenseFilename(generatedAt), Content: content}, nil
}

// rangeError converts a report query error into a local validation error
func rangeError(err error) error {
	switch {
	case errors.Is(err, report.ErrCustomRangeMissing):
		return apperr.Local("Choose both a start and an end date for a custom range.")
	case errors.Is(err, report.ErrCustomRangeOrder):
		return apperr.Local("The start date must not be after the end date.")
	default:
		return apperr.Local("Choose a valid date range.")
	}
}
