package service

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/export"
	"github.com/garyjia/erp-admin-console/internal/format"
)

func sampleReport() *entity.OutsourcedReportResponse {
	return &entity.OutsourcedReportResponse{
		Summary: entity.ReportSummary{TotalOrders: 12, TotalRevenue: 1234567.891, TotalMargin: 200000, AverageMargin: 16.2},
		Suppliers: []entity.SupplierSummary{
			{Name: "Acme Logistics", Orders: 7, Revenue: 800000},
			{Name: "Beta Prints", Orders: 5, Revenue: 434567.89},
		},
		PaymentStatus: []entity.PaymentStatusBucket{
			{Status: "Paid", Count: 1, Amount: 100},
			{Status: "Unpaid", Count: 7, Amount: 700},
		},
		Timeline: []entity.TimelinePoint{{Period: "2026-10", Revenue: 10, Margin: 5}},
	}
}

func newReportService(backend *mockBackend, pub *recordingPublisher) ReportService {
	f := format.NewFormatter("$", "en-US")
	expenses := NewExpenseService(backend, f, fixedClock, pub, mockLogger{})
	return NewReportService(backend, expenses, export.NewExporter(zap.NewNop()), f, fixedClock, pub, mockLogger{})
}

func TestReportService_OutsourcedDefaultsToThirtyDays(t *testing.T) {
	var got entity.ReportQuery
	backend := &mockBackend{
		getOutsourcedReportFunc: func(_ context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
			got = q
			return sampleReport(), nil
		},
	}
	svc := newReportService(backend, &recordingPublisher{})

	view, err := svc.Outsourced(context.Background(), entity.ReportQuery{OutsourcedSupplier: "Acme Logistics"})
	require.NoError(t, err)

	assert.Equal(t, entity.DateRange30Days, got.DateRange)
	assert.Equal(t, "Acme Logistics", got.OutsourcedSupplier)
	require.Len(t, view.Cards, 6)
	assert.Equal(t, "$1,234,567.89", view.Cards[1].Value)
	require.Len(t, view.Payments, 2)
	assert.Equal(t, 13, view.Payments[0].Percent)
	assert.Equal(t, 88, view.Payments[1].Percent)
}

func TestReportService_InvalidRangeFailsLocally(t *testing.T) {
	end := testNow
	start := testNow.Add(48 * time.Hour)

	tests := []struct {
		name    string
		q       entity.ReportQuery
		message string
	}{
		{"unknown", entity.ReportQuery{DateRange: "fortnight"}, "Choose a valid date range."},
		{"custom missing end", entity.ReportQuery{DateRange: entity.DateRangeCustom, StartDate: &start}, "Choose both a start and an end date for a custom range."},
		{"custom inverted", entity.ReportQuery{DateRange: entity.DateRangeCustom, StartDate: &start, EndDate: &end}, "The start date must not be after the end date."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			svc := newReportService(backend, &recordingPublisher{})

			_, err := svc.Outsourced(context.Background(), tt.q)

			require.Error(t, err)
			assert.Equal(t, tt.message, apperr.DisplayMessage(err))
			assert.Empty(t, backend.Calls())
		})
	}
}

func TestReportService_ExportWritesWorkbook(t *testing.T) {
	backend := &mockBackend{
		getOutsourcedReportFunc: func(context.Context, entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
			return sampleReport(), nil
		},
	}
	svc := newReportService(backend, &recordingPublisher{})

	wb, err := svc.Export(context.Background(), entity.ReportQuery{DateRange: entity.DateRange7Days})
	require.NoError(t, err)
	assert.Equal(t, "outsourced-report-7d-20261015.xlsx", wb.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(wb.Content))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(export.SheetSuppliers, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", name)
}

func TestReportService_ExportPropagatesBackendError(t *testing.T) {
	boom := errors.New("connection reset")
	backend := &mockBackend{
		getOutsourcedReportFunc: func(context.Context, entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
			return nil, apperr.Network(boom)
		},
	}
	svc := newReportService(backend, &recordingPublisher{})

	_, err := svc.Export(context.Background(), entity.ReportQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestReportService_ExportExpensesIgnoresPaging(t *testing.T) {
	var calls atomic.Int32
	backend := &mockBackend{
		listExpensesFunc: func(context.Context) ([]entity.ExpenseRecord, error) {
			calls.Add(1)
			return sampleExpenses(), nil
		},
	}
	svc := newReportService(backend, &recordingPublisher{})

	wb, err := svc.ExportExpenses(context.Background(), ExpenseQuery{Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "expenses-20261015.xlsx", wb.Filename)
	assert.Equal(t, int32(1), calls.Load())

	f, err := excelize.OpenReader(bytes.NewReader(wb.Content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetExpenses)
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus every record")
}

func TestReportService_ExportDoesNotSupersedeListInSameView(t *testing.T) {
	listStarted := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	backend := &mockBackend{
		listExpensesFunc: func(context.Context) ([]entity.ExpenseRecord, error) {
			if calls.Add(1) == 1 {
				close(listStarted)
				<-release
			}
			return sampleExpenses(), nil
		},
	}
	f := format.NewFormatter("$", "en-US")
	expenses := NewExpenseService(backend, f, fixedClock, &recordingPublisher{}, mockLogger{})
	svc := NewReportService(backend, expenses, export.NewExporter(zap.NewNop()), f, fixedClock, &recordingPublisher{}, mockLogger{})

	ctx := WithViewID(context.Background(), "expenses-tab")
	listErr := make(chan error, 1)
	go func() {
		_, err := expenses.List(ctx, ExpenseQuery{})
		listErr <- err
	}()
	<-listStarted

	wb, err := svc.ExportExpenses(ctx, ExpenseQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, wb.Content)

	close(release)
	assert.NoError(t, <-listErr)
}

func TestReportService_ExportDoesNotSupersedeReportView(t *testing.T) {
	reportStarted := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	backend := &mockBackend{
		getOutsourcedReportFunc: func(context.Context, entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
			if calls.Add(1) == 1 {
				close(reportStarted)
				<-release
			}
			return sampleReport(), nil
		},
	}
	svc := newReportService(backend, &recordingPublisher{})

	ctx := WithViewID(context.Background(), "report-tab")
	viewErr := make(chan error, 1)
	go func() {
		_, err := svc.Outsourced(ctx, entity.ReportQuery{})
		viewErr <- err
	}()
	<-reportStarted

	_, err := svc.Export(ctx, entity.ReportQuery{})
	require.NoError(t, err)

	close(release)
	assert.NoError(t, <-viewErr)
}
