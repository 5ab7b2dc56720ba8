package demo

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/report"
)

// Payment states of outsourced orders
const (
	PaymentPaid    = "Paid"
	PaymentPartial = "Partially Paid"
	PaymentUnpaid  = "Unpaid"
)

// daily buckets are used for windows up to this length, monthly beyond it
const dailyBucketLimit = 31 * 24 * time.Hour

type supplierTotals struct {
	orders                     int
	revenue, cost, outstanding decimal.Decimal
}

// GetOutsourcedReport aggregates completed and pending purchases inside the query window
func (b *Backend) GetOutsourcedReport(ctx context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := report.ValidateQuery(q); err != nil {
		return nil, rejected("%s", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	start, end := report.Window(q, b.now())
	layout := "2006-01-02"
	if end.Sub(start) > dailyBucketLimit {
		layout = "2006-01"
	}

	var (
		totals    supplierTotals
		suppliers = map[string]*supplierTotals{}
		payments  = map[string]*entity.PaymentStatusBucket{}
		revenueBy = map[string]decimal.Decimal{}
		marginBy  = map[string]decimal.Decimal{}
	)

	for _, o := range b.orders {
		if !counts(o, q, start, end) {
			continue
		}
		revenue := decimal.NewFromFloat(o.OrderTotal)
		cost := decimal.NewFromFloat(o.cost)
		owed := outstanding(revenue, o.paymentStatus)

		totals.orders++
		totals.revenue = totals.revenue.Add(revenue)
		totals.cost = totals.cost.Add(cost)
		totals.outstanding = totals.outstanding.Add(owed)

		s, ok := suppliers[o.supplier]
		if !ok {
			s = &supplierTotals{}
			suppliers[o.supplier] = s
		}
		s.orders++
		s.revenue = s.revenue.Add(revenue)
		s.cost = s.cost.Add(cost)
		s.outstanding = s.outstanding.Add(owed)

		p, ok := payments[o.paymentStatus]
		if !ok {
			p = &entity.PaymentStatusBucket{Status: o.paymentStatus}
			payments[o.paymentStatus] = p
		}
		p.Count++
		p.Amount = decimal.NewFromFloat(p.Amount).Add(revenue).Round(2).InexactFloat64()

		period := o.OrderDate.Format(layout)
		revenueBy[period] = revenueBy[period].Add(revenue)
		marginBy[period] = marginBy[period].Add(revenue.Sub(cost))
	}

	resp := &entity.OutsourcedReportResponse{
		Summary: entity.ReportSummary{
			TotalOrders:        totals.orders,
			TotalRevenue:       money(totals.revenue),
			TotalCost:          money(totals.cost),
			TotalMargin:        money(totals.revenue.Sub(totals.cost)),
			AverageMargin:      marginPercent(totals.revenue, totals.cost),
			OutstandingBalance: money(totals.outstanding),
		},
		Suppliers:     make([]entity.SupplierSummary, 0, len(suppliers)),
		PaymentStatus: make([]entity.PaymentStatusBucket, 0, len(payments)),
		Timeline:      make([]entity.TimelinePoint, 0, len(revenueBy)),
	}

	for name, s := range suppliers {
		resp.Suppliers = append(resp.Suppliers, entity.SupplierSummary{
			Name:          name,
			Orders:        s.orders,
			Revenue:       money(s.revenue),
			Cost:          money(s.cost),
			Margin:        money(s.revenue.Sub(s.cost)),
			MarginPercent: marginPercent(s.revenue, s.cost),
			Outstanding:   money(s.outstanding),
		})
	}
	slices.SortFunc(resp.Suppliers, func(a, b entity.SupplierSummary) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	for _, status := range []string{PaymentPaid, PaymentPartial, PaymentUnpaid} {
		if p, ok := payments[status]; ok {
			resp.PaymentStatus = append(resp.PaymentStatus, *p)
		}
	}

	for _, period := range slices.Sorted(maps.Keys(revenueBy)) {
		resp.Timeline = append(resp.Timeline, entity.TimelinePoint{
			Period:  period,
			Revenue: money(revenueBy[period]),
			Margin:  money(marginBy[period]),
		})
	}

	return resp, nil
}

// counts reports whether o belongs in the report for q
func counts(o order, q entity.ReportQuery, start, end time.Time) bool {
	if o.Status == entity.PurchaseStatusCancelled || o.Status == entity.PurchaseStatusReturned {
		return false
	}
	if q.OutsourcedSupplier != "" && q.OutsourcedSupplier != entity.FilterAll && o.supplier != q.OutsourcedSupplier {
		return false
	}
	return !o.OrderDate.Before(start) && !o.OrderDate.After(end)
}

// outstanding is the unpaid part of revenue; partially paid orders owe half
func outstanding(revenue decimal.Decimal, status string) decimal.Decimal {
	switch status {
	case PaymentPaid:
		return decimal.Zero
	case PaymentPartial:
		return revenue.Div(decimal.NewFromInt(2))
	default:
		return revenue
	}
}

func marginPercent(revenue, cost decimal.Decimal) float64 {
	if !revenue.IsPositive() {
		return 0
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
