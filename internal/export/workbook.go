// Package export writes report and expense workbooks with excelize.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/report"
)

// Sheet names
const (
	SheetSummary   = "Summary"
	SheetSuppliers = "Suppliers"
	SheetPayments  = "Payments"
	SheetTimeline  = "Timeline"
	SheetExpenses  = "Expenses"
)

// ContentType is the MIME type of the produced workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Exporter builds workbooks
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new Exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// OutsourcedReport writes the report view to a workbook with one sheet per section
func (e *Exporter) OutsourcedReport(view report.View, q entity.ReportQuery, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetSuppliers, SheetPayments, SheetTimeline} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	summary := [][]any{
		{"Outsourced Supplier Report"},
		{"Date range", describeRange(q)},
		{"Supplier", supplierLabel(q)},
		{"Generated", generatedAt.Format(time.RFC3339)},
		{},
		{"Metric", "Value"},
	}
	for _, card := range view.Cards {
		summary = append(summary, []any{card.Label, card.Value})
	}
	if err := e.writeRows(f, SheetSummary, summary, 6); err != nil {
		return nil, err
	}

	suppliers := [][]any{{"Supplier", "Orders", "Revenue", "Cost", "Margin", "Margin %", "Outstanding"}}
	for _, s := range view.Suppliers {
		suppliers = append(suppliers, []any{s.Name, s.Orders, s.Revenue, s.Cost, s.Margin, s.MarginPercent, s.Outstanding})
	}
	if err := e.writeRows(f, SheetSuppliers, suppliers, 1); err != nil {
		return nil, err
	}

	payments := [][]any{{"Status", "Count", "Amount", "Share %"}}
	for _, p := range view.Payments {
		payments = append(payments, []any{p.Status, p.Count, p.Amount, p.Percent})
	}
	if err := e.writeRows(f, SheetPayments, payments, 1); err != nil {
		return nil, err
	}

	timeline := [][]any{{"Period", "Revenue", "Margin"}}
	for _, t := range view.Timeline {
		timeline = append(timeline, []any{t.Period, t.Revenue, t.Margin})
	}
	if err := e.writeRows(f, SheetTimeline, timeline, 1); err != nil {
		return nil, err
	}

	return e.finish(f, "outsourced report")
}

// ExpenseRegister writes one row per expense
func (e *Exporter) ExpenseRegister(records []entity.ExpenseRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetExpenses); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := [][]any{{
		"ID", "Title", "Category", "Department", "Vendor", "Amount", "Currency",
		"Status", "Priority", "Requested", "Requested By", "Decision Date", "Tags",
	}}
	for _, r := range records {
		decided := ""
		if r.DecisionDate != nil {
			decided = r.DecisionDate.Format(time.RFC3339)
		}
		rows = append(rows, []any{
			r.ID, r.Title, r.Category, r.Department, r.Vendor, r.Amount, r.Currency,
			string(r.Status), string(r.Priority), r.RequestDate.Format(dateLayout), r.RequestedBy,
			decided, strings.Join(r.Tags, ", "),
		})
	}
	if err := e.writeRows(f, SheetExpenses, rows, 1); err != nil {
		return nil, err
	}

	return e.finish(f, "expense register")
}

// writeRows writes rows from A1 and bolds the header row
func (e *Exporter) writeRows(f *excelize.File, sheet string, rows [][]any, headerRow int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	if headerRow < 1 || headerRow > len(rows) {
		return nil
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(max(len(rows[headerRow-1]), 1), headerRow)
	if err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetCellStyle(sheet, first, last, bold); err != nil {
		e.logger.Warn("Failed to style header", zap.String("sheet", sheet), zap.Error(err))
	}
	return nil
}

func (e *Exporter) finish(f *excelize.File, what string) ([]byte, error) {
	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", what, err)
	}
	e.logger.Info("Workbook generated", zap.String("workbook", what), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// ReportFilename names an exported report after its range and day
func ReportFilename(q entity.ReportQuery, generatedAt time.Time) string {
	rng := q.DateRange
	if rng == "" {
		rng = entity.DateRange30Days
	}
	return fmt.Sprintf("outsourced-report-%s-%s.xlsx", rng, generatedAt.Format("20060102"))
}

// ExpenseFilename names an exported expense register
func ExpenseFilename(generatedAt time.Time) string {
	return fmt.Sprintf("expenses-%s.xlsx", generatedAt.Format("20060102"))
}

func describeRange(q entity.ReportQuery) string {
	if q.DateRange == entity.DateRangeCustom && q.StartDate != nil && q.EndDate != nil {
		return q.StartDate.Format(dateLayout) + " to " + q.EndDate.Format(dateLayout)
	}
	return q.DateRange
}

func supplierLabel(q entity.ReportQuery) string {
	if q.OutsourcedSupplier == "" {
		return "All suppliers"
	}
	return q.OutsourcedSupplier
}
