package entity

import "time"

// RefundRequest is a refund against a completed sale
type RefundRequest struct {
	ID              string       `json:"id"`
	SaleID          string       `json:"saleId"`
	Amount          float64      `json:"amount"`
	SaleAmount      float64      `json:"saleAmount,omitempty"`
	Reason          string       `json:"reason"`
	Status          RefundStatus `json:"status"`
	RefundMethod    string       `json:"refundMethod,omitempty"`
	Reference       string       `json:"reference,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	RequestedBy     string       `json:"requestedBy,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	ProcessedAt     *time.Time   `json:"processedAt,omitempty"`
}

// CreateRefundInput is the payload for a new refund request
type CreateRefundInput struct {
	SaleID string  `json:"saleId"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// AccountApproval is a merchant account awaiting approval
type AccountApproval struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	BusinessName    string        `json:"businessName,omitempty"`
	Role            string        `json:"role,omitempty"`
	Status          AccountStatus `json:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Page is one page of a remote list
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Pagination defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps page and pageSize to the accepted ranges
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
