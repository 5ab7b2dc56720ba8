package backend

import (
	"context"
	"net/http"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// GetPendingRefunds lists refunds awaiting a decision
func (c *Client) GetPendingRefunds(ctx context.Context, page, pageSize int) (*entity.Page[entity.RefundRequest], error) {
	var out entity.Page[entity.RefundRequest]
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/refunds/pending",
		query:  pageQuery(page, pageSize),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRefundRequests lists refunds, filtered by status when non-empty
func (c *Client) GetRefundRequests(ctx context.Context, page, pageSize int, status string) (*entity.Page[entity.RefundRequest], error) {
	query := pageQuery(page, pageSize)
	if status != "" && status != entity.FilterAll {
		query["status"] = status
	}

	var out entity.Page[entity.RefundRequest]
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/refunds",
		query:  query,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRefund fetches one refund
func (c *Client) GetRefund(ctx context.Context, id string) (*entity.RefundRequest, error) {
	var out entity.RefundRequest
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/refunds/{id}",
		params: idParam(id),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveRefund approves a refund with optional payout details
func (c *Client) ApproveRefund(ctx context.Context, id string, opts port.ApproveRefundOptions) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/refunds/{id}/approve",
		params: idParam(id),
		body:   opts,
	})
}

// RejectRefund rejects a refund with reason
func (c *Client) RejectRefund(ctx context.Context, id, reason string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/refunds/{id}/reject",
		params: idParam(id),
		body:   reasonBody{Reason: reason},
	})
}

// MarkRefundAsProcessed records that an approved refund has been paid out
func (c *Client) MarkRefundAsProcessed(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/refunds/{id}/process",
		params: idParam(id),
	})
}

// CreateRefundRequest opens a refund against a sale
func (c *Client) CreateRefundRequest(ctx context.Context, in entity.CreateRefundInput) (*entity.RefundRequest, error) {
	var out entity.RefundRequest
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/refunds",
		body:   in,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
