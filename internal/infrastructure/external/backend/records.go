package backend

import (
	"context"
	"net/http"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// GetOutsourcedReport fetches the aggregate supplier report for q
func (c *Client) GetOutsourcedReport(ctx context.Context, q entity.ReportQuery) (*entity.OutsourcedReportResponse, error) {
	query := map[string]string{"dateRange": q.DateRange}
	if q.StartDate != nil {
		query["startDate"] = q.StartDate.Format(dateLayout)
	}
	if q.EndDate != nil {
		query["endDate"] = q.EndDate.Format(dateLayout)
	}
	if q.OutsourcedSupplier != "" {
		query["outsourcedSupplier"] = q.OutsourcedSupplier
	}

	var out entity.OutsourcedReportResponse
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/reports/outsourced",
		query:  query,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListExpenses fetches every expense visible to the operator
func (c *Client) ListExpenses(ctx context.Context) ([]entity.ExpenseRecord, error) {
	var out []entity.ExpenseRecord
	if err := c.do(ctx, call{method: http.MethodGet, path: "/expenses", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpense fetches one expense
func (c *Client) GetExpense(ctx context.Context, id string) (*entity.ExpenseRecord, error) {
	var out entity.ExpenseRecord
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/expenses/{id}",
		params: idParam(id),
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveExpense approves a pending expense
func (c *Client) ApproveExpense(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/expenses/{id}/approve",
		params: idParam(id),
	})
}

// RejectExpense rejects a pending expense with reason
func (c *Client) RejectExpense(ctx context.Context, id, reason string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/expenses/{id}/reject",
		params: idParam(id),
		body:   reasonBody{Reason: reason},
	})
}

// ToggleExpenseDecision reverses an approval or rejection inside the decision window
func (c *Client) ToggleExpenseDecision(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/expenses/{id}/toggle",
		params: idParam(id),
	})
}

// ListInventory fetches the full catalogue
func (c *Client) ListInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	if err := c.do(ctx, call{method: http.MethodGet, path: "/inventory", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
