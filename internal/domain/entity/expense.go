package entity

import (
	"strings"
	"time"
)

// ExpenseRecord is an expense request owned by the backend
type ExpenseRecord struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	Department       string        `json:"department"`
	Vendor           string        `json:"vendor,omitempty"`
	InvoiceNumber    string        `json:"invoiceNumber,omitempty"`
	Tags             []string      `json:"tags"`
	Amount           float64       `json:"amount"`
	Currency         string        `json:"currency"`
	Status           ExpenseStatus `json:"status"`
	Priority         Priority      `json:"priority"`
	RequestDate      time.Time     `json:"requestDate"`
	RequestedBy      string        `json:"requestedBy"`
	RequestedByEmail string        `json:"requestedByEmail"`
	ApprovedBy       string        `json:"approvedBy,omitempty"`
	ApprovedDate     *time.Time    `json:"approvedDate,omitempty"`
	RejectionReason  string        `json:"rejectionReason,omitempty"`
	DecisionDate     *time.Time    `json:"decisionDate,omitempty"`
}

// Text returns the string value of a filterable or sortable field
func (e ExpenseRecord) Text(field string) (string, bool) {
	switch field {
	case "id":
		return e.ID, true
	case "title":
		return e.Title, true
	case "status":
		return string(e.Status), true
	case "category":
		return e.Category, true
	case "department":
		return e.Department, true
	case "priority":
		return string(e.Priority), true
	case "vendor":
		return e.Vendor, true
	case "currency":
		return e.Currency, true
	case "requestedBy":
		return e.RequestedBy, true
	}
	return "", false
}

// Number returns the numeric value of a sortable field
func (e ExpenseRecord) Number(field string) (float64, bool) {
	switch field {
	case "amount":
		return e.Amount, true
	case "requestDate":
		return float64(e.RequestDate.UnixMilli()), true
	case "priority":
		return float64(e.Priority.Rank()), true
	}
	return 0, false
}

// SearchText returns the fields matched by free-text search
func (e ExpenseRecord) SearchText() []string {
	return []string{
		e.Title,
		e.Description,
		e.Category,
		e.RequestedBy,
		e.Department,
		e.Vendor,
		strings.Join(e.Tags, " "),
	}
}

// HasConsistentDecision reports whether DecisionDate is set exactly when a decision exists
func (e ExpenseRecord) HasConsistentDecision() bool {
	return e.Status.IsDecided() == (e.DecisionDate != nil)
}
