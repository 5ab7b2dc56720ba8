package entity

import "time"

// OutsourcedReportResponse is the aggregate supplier report returned by the backend
type OutsourcedReportResponse struct {
	Summary       ReportSummary         `json:"summary"`
	Suppliers     []SupplierSummary     `json:"suppliers"`
	PaymentStatus []PaymentStatusBucket `json:"paymentStatus"`
	Timeline      []TimelinePoint       `json:"timeline"`
}

// ReportSummary holds the headline totals
type ReportSummary struct {
	TotalOrders        int     `json:"totalOrders"`
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalCost          float64 `json:"totalCost"`
	TotalMargin        float64 `json:"totalMargin"`
	AverageMargin      float64 `json:"averageMargin"`
	OutstandingBalance float64 `json:"outstandingBalance"`
}

// SupplierSummary is one row of the ranked supplier table
type SupplierSummary struct {
	Name          string  `json:"name"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	Cost          float64 `json:"cost"`
	Margin        float64 `json:"margin"`
	MarginPercent float64 `json:"marginPercent"`
	Outstanding   float64 `json:"outstanding"`
}

// PaymentStatusBucket aggregates orders by payment status
type PaymentStatusBucket struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// TimelinePoint is one time bucket of revenue and margin
type TimelinePoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"`
}

// Report date ranges
const (
	DateRangeToday  = "today"
	DateRange7Days  = "7d"
	DateRange30Days = "30d"
	DateRange90Days = "90d"
	DateRangeYear   = "year"
	DateRangeCustom = "custom"
)

// ReportQuery selects the window and supplier of an outsourced report
type ReportQuery struct {
	DateRange          string     `json:"dateRange"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	OutsourcedSupplier string     `json:"outsourcedSupplier,omitempty"`
}
