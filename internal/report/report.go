// Package report derives the outsourced supplier report view from the backend payload.
package report

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/format"
)

// TopSupplierLimit is the number of suppliers shown in the ranked table
const TopSupplierLimit = 8

var (
	ErrUnknownDateRange   = errors.New("unknown date range")
	ErrCustomRangeMissing = errors.New("custom date range requires both a start and an end date")
	ErrCustomRangeOrder   = errors.New("start date must not be after end date")
)

// Card is one headline figure
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SupplierRow is a supplier with display-formatted amounts
type SupplierRow struct {
	entity.SupplierSummary
	RevenueText     string `json:"revenueText"`
	MarginText      string `json:"marginText"`
	MarginPctText   string `json:"marginPercentText"`
	OutstandingText string `json:"outstandingText"`
}

// PaymentShare is a payment status bucket with its percent of the total amount
type PaymentShare struct {
	entity.PaymentStatusBucket
	Percent    int    `json:"percent"`
	AmountText string `json:"amountText"`
}

// TimelineBar is a timeline point with bar widths in percent
type TimelineBar struct {
	entity.TimelinePoint
	RevenueWidth float64 `json:"revenueWidth"`
	MarginWidth  float64 `json:"marginWidth"`
}

// View is the rendered report
type View struct {
	Cards     []Card         `json:"cards"`
	Suppliers []SupplierRow  `json:"suppliers"`
	Payments  []PaymentShare `json:"payments"`
	Timeline  []TimelineBar  `json:"timeline"`
}

// TopSuppliers truncates the list to limit entries in the order received
func TopSuppliers(list []entity.SupplierSummary, limit int) []entity.SupplierSummary {
	if limit < 0 {
		limit = 0
	}
	return slices.Clone(list[:min(limit, len(list))])
}

// PaymentDistribution computes each bucket's rounded share of the total amount.
// Every share is 0 when the total is not positive.
func PaymentDistribution(buckets []entity.PaymentStatusBucket) []PaymentShare {
	total := 0.0
	for _, b := range buckets {
		total += b.Amount
	}

	out := make([]PaymentShare, len(buckets))
	for i, b := range buckets {
		out[i] = PaymentShare{PaymentStatusBucket: b}
		if total > 0 {
			out[i].Percent = int(math.Round(b.Amount / total * 100))
		}
	}
	return out
}

// TimelineBars scales revenue and margin against the largest value of either series
func TimelineBars(points []entity.TimelinePoint) []TimelineBar {
	peak := 0.0
	for _, p := range points {
		peak = max(peak, p.Revenue, p.Margin)
	}

	out := make([]TimelineBar, len(points))
	for i, p := range points {
		out[i] = TimelineBar{
			TimelinePoint: p,
			RevenueWidth:  width(p.Revenue, peak),
			MarginWidth:   width(p.Margin, peak),
		}
	}
	return out
}

func width(v, peak float64) float64 {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return v / peak * 100
}

// BuildView renders the report payload with f
func BuildView(resp entity.OutsourcedReportResponse, f *format.Formatter) View {
	s := resp.Summary
	view := View{
		Cards: []Card{
			{Label: "Total Orders", Value: fmt.Sprintf("%d", s.TotalOrders)},
			{Label: "Total Revenue", Value: f.Currency(s.TotalRevenue)},
			{Label: "Total Cost", Value: f.Currency(s.TotalCost)},
			{Label: "Total Margin", Value: f.Currency(s.TotalMargin)},
			{Label: "Average Margin", Value: format.Percent(s.AverageMargin)},
			{Label: "Outstanding Balance", Value: f.Currency(s.OutstandingBalance)},
		},
		Timeline: TimelineBars(resp.Timeline),
	}

	for _, sup := range TopSuppliers(resp.Suppliers, TopSupplierLimit) {
		view.Suppliers = append(view.Suppliers, SupplierRow{
			SupplierSummary: sup,
			RevenueText:     f.Currency(sup.Revenue),
			MarginText:      f.Currency(sup.Margin),
			MarginPctText:   format.Percent(sup.MarginPercent),
			OutstandingText: f.Currency(sup.Outstanding),
		})
	}

	view.Payments = PaymentDistribution(resp.PaymentStatus)
	for i := range view.Payments {
		view.Payments[i].AmountText = f.Currency(view.Payments[i].Amount)
	}

	return view
}

// ValidateQuery rejects unknown ranges and incomplete or inverted custom ranges
func ValidateQuery(q entity.ReportQuery) error {
	switch q.DateRange {
	case entity.DateRangeToday, entity.DateRange7Days, entity.DateRange30Days,
		entity.DateRange90Days, entity.DateRangeYear:
		return nil
	case entity.DateRangeCustom:
		if q.StartDate == nil || q.EndDate == nil {
			return ErrCustomRangeMissing
		}
		if q.StartDate.After(*q.EndDate) {
			return ErrCustomRangeOrder
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDateRange, q.DateRange)
	}
}

// Window resolves the query to a concrete [start, end] interval relative to now
func Window(q entity.ReportQuery, now time.Time) (time.Time, time.Time) {
	switch q.DateRange {
	case entity.DateRangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), now
	case entity.DateRange7Days:
		return now.AddDate(0, 0, -7), now
	case entity.DateRange90Days:
		return now.AddDate(0, 0, -90), now
	case entity.DateRangeYear:
		return now.AddDate(-1, 0, 0), now
	case entity.DateRangeCustom:
		if q.StartDate != nil && q.EndDate != nil {
			return *q.StartDate, *q.EndDate
		}
	}
	return now.AddDate(0, 0, -30), now
}
