package backend

import (
	"context"
	"net/http"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// GetPendingAccounts lists accounts awaiting approval
func (c *Client) GetPendingAccounts(ctx context.Context, page, pageSize int) (*entity.Page[entity.AccountApproval], error) {
	var out entity.Page[entity.AccountApproval]
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/admin/accounts/pending",
		query:  pageQuery(page, pageSize),
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveAccount approves a pending account
func (c *Client) ApproveAccount(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/admin/accounts/{id}/approve",
		params: idParam(id),
	})
}

// RejectAccount rejects a pending account with reason
func (c *Client) RejectAccount(ctx context.Context, id, reason string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/admin/accounts/{id}/reject",
		params: idParam(id),
		body:   reasonBody{Reason: reason},
	})
}
