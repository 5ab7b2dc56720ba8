package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/erp-admin-console/internal/apperr"
	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/application/service"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/export"
	"github.com/garyjia/erp-admin-console/internal/query"
	"github.com/garyjia/erp-admin-console/internal/session"
)

// Version is reported by the health check
const Version = "1.0.0"

const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{services: services, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SessionResponse describes the current session
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	SignedInAt    *time.Time `json:"signedInAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// LoginRequest carries the token issued by the backend
type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// ReasonRequest is the body of a reject call
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// CreateRefundRequest is the body of a refund request; SaleAmount is the total of the selected sale
type CreateRefundRequest struct {
	SaleID     string  `json:"saleId"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
	SaleAmount float64 `json:"saleAmount"`
}

// PageRequest represents paging query parameters
type PageRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// ExpenseListRequest represents query parameters for listing expenses
type ExpenseListRequest struct {
	PageRequest
	Status     string `form:"status"`
	Category   string `form:"category"`
	Department string `form:"department"`
	Priority   string `form:"priority"`
	Search     string `form:"q"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
}

// InventoryListRequest represents query parameters for listing inventory
type InventoryListRequest struct {
	PageRequest
	Status     string `form:"status"`
	Category   string `form:"category"`
	Brand      string `form:"brand"`
	StockLevel string `form:"stock_level"`
	Search     string `form:"q"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
}

// ReportRequest represents query parameters for the outsourced report
type ReportRequest struct {
	DateRange string `form:"dateRange"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Supplier  string `form:"outsourcedSupplier"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
		},
	})
}

// GetSession handles GET /api/session
func (h *Handlers) GetSession(c *gin.Context) {
	resp := SessionResponse{Authenticated: h.services.Session.Authenticated()}
	if resp.Authenticated {
		if at, ok := h.services.Session.SignedInAt(); ok {
			resp.SignedInAt = &at
		}
		if exp, ok := session.ExpiresAt(h.services.Session.Token()); ok {
			resp.ExpiresAt = &exp
		}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// Login handles POST /api/session
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "A token is required to sign in.")
		return
	}

	if err := h.services.Session.Login(c.Request.Context(), req.Token); err != nil {
		h.respondError(c, err)
		return
	}
	if !h.services.Session.Authenticated() {
		_ = h.services.Session.Clear(c.Request.Context())
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: apperr.MsgUnauthorized, Redirect: session.LoginRoute})
		return
	}

	h.logger.Info("Session started")
	c.JSON(http.StatusOK, Response{Success: true, Data: SessionResponse{Authenticated: true}})
}

// Logout handles DELETE /api/session
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.services.Session.Clear(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Redirect: session.LoginRoute})
}

// Dashboard handles GET /api/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	overview, err := h.services.Dashboard.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: overview})
}

// ListExpenses handles GET /api/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	q, ok := h.expenseQuery(c)
	if !ok {
		return
	}

	page, err := h.services.Expenses.List(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// ExportExpenses handles GET /api/expenses/export
func (h *Handlers) ExportExpenses(c *gin.Context) {
	q, ok := h.expenseQuery(c)
	if !ok {
		return
	}

	wb, err := h.services.Reports.ExportExpenses(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendWorkbook(c, wb)
}

// ApproveExpense handles POST /api/expenses/:id/approve
func (h *Handlers) ApproveExpense(c *gin.Context) {
	h.respondDone(c, h.services.Expenses.Approve(c.Request.Context(), c.Param("id")))
}

// RejectExpense handles POST /api/expenses/:id/reject
func (h *Handlers) RejectExpense(c *gin.Context) {
	reason, ok := h.reason(c)
	if !ok {
		return
	}
	h.respondDone(c, h.services.Expenses.Reject(c.Request.Context(), c.Param("id"), reason))
}

// ToggleExpense handles POST /api/expenses/:id/toggle
func (h *Handlers) ToggleExpense(c *gin.Context) {
	status, err := h.services.Expenses.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"status": status}})
}

// ListInventory handles GET /api/inventory
func (h *Handlers) ListInventory(c *gin.Context) {
	var req InventoryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "Invalid query parameters.")
		return
	}

	page, err := h.services.Inventory.List(c.Request.Context(), service.InventoryQuery{
		Status:     req.Status,
		Category:   req.Category,
		Brand:      req.Brand,
		StockLevel: req.StockLevel,
		Search:     req.Search,
		SortKey:    req.Sort,
		Order:      query.ParseOrder(req.Order),
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// ListPendingAccounts handles GET /api/accounts/pending
func (h *Handlers) ListPendingAccounts(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	page, err := h.services.Accounts.ListPending(c.Request.Context(), p.Page, p.PageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// ApproveAccount handles POST /api/accounts/:id/approve
func (h *Handlers) ApproveAccount(c *gin.Context) {
	h.respondDone(c, h.services.Accounts.Approve(c.Request.Context(), c.Param("id")))
}

// RejectAccount handles POST /api/accounts/:id/reject
func (h *Handlers) RejectAccount(c *gin.Context) {
	reason, ok := h.reason(c)
	if !ok {
		return
	}
	h.respondDone(c, h.services.Accounts.Reject(c.Request.Context(), c.Param("id"), reason))
}

// ListPendingRefunds handles GET /api/refunds/pending
func (h *Handlers) ListPendingRefunds(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	page, err := h.services.Refunds.ListPending(c.Request.Context(), p.Page, p.PageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// ListRefunds handles GET /api/refunds
func (h *Handlers) ListRefunds(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	page, err := h.services.Refunds.List(c.Request.Context(), p.Page, p.PageSize, c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// CreateRefund handles POST /api/refunds
func (h *Handlers) CreateRefund(c *gin.Context) {
	var req CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body.")
		return
	}

	refund, err := h.services.Refunds.Create(c.Request.Context(), entity.CreateRefundInput{
		SaleID: req.SaleID,
		Amount: req.Amount,
		Reason: req.Reason,
	}, req.SaleAmount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: refund})
}

// ApproveRefund handles POST /api/refunds/:id/approve; the payout body is optional
func (h *Handlers) ApproveRefund(c *gin.Context) {
	var opts port.ApproveRefundOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			h.badRequest(c, "Invalid request body.")
			return
		}
	}
	h.respondDone(c, h.services.Refunds.Approve(c.Request.Context(), c.Param("id"), opts))
}

// RejectRefund handles POST /api/refunds/:id/reject
func (h *Handlers) RejectRefund(c *gin.Context) {
	reason, ok := h.reason(c)
	if !ok {
		return
	}
	h.respondDone(c, h.services.Refunds.Reject(c.Request.Context(), c.Param("id"), reason))
}

// ProcessRefund handles POST /api/refunds/:id/process
func (h *Handlers) ProcessRefund(c *gin.Context) {
	h.respondDone(c, h.services.Refunds.MarkProcessed(c.Request.Context(), c.Param("id")))
}

// OutsourcedReport handles GET /api/reports/outsourced
func (h *Handlers) OutsourcedReport(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}
	view, err := h.services.Reports.Outsourced(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// ExportOutsourcedReport handles GET /api/reports/outsourced/export
func (h *Handlers) ExportOutsourcedReport(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}
	wb, err := h.services.Reports.Export(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	sendWorkbook(c, wb)
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	c.JSON(http.StatusOK, Response{Success: true, Data: h.services.Notifications.List(limit)})
}

// ClearNotifications handles DELETE /api/notifications
func (h *Handlers) ClearNotifications(c *gin.Context) {
	h.services.Notifications.Clear()
	c.JSON(http.StatusOK, Response{Success: true})
}

// RecentActivity handles GET /api/activity
func (h *Handlers) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := h.services.Activity.Recent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

// EntityActivity handles GET /api/activity/:entityType/:id
func (h *Handlers) EntityActivity(c *gin.Context) {
	logs, err := h.services.Activity.History(c.Request.Context(), c.Param("entityType"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

func (h *Handlers) expenseQuery(c *gin.Context) (service.ExpenseQuery, bool) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "Invalid query parameters.")
		return service.ExpenseQuery{}, false
	}
	return service.ExpenseQuery{
		Status:     req.Status,
		Category:   req.Category,
		Department: req.Department,
		Priority:   req.Priority,
		Search:     req.Search,
		SortKey:    req.Sort,
		Order:      query.ParseOrder(req.Order),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}, true
}

func (h *Handlers) reportQuery(c *gin.Context) (entity.ReportQuery, bool) {
	var req ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "Invalid query parameters.")
		return entity.ReportQuery{}, false
	}

	q := entity.ReportQuery{DateRange: req.DateRange, OutsourcedSupplier: req.Supplier}
	for _, d := range []struct {
		raw  string
		dest **time.Time
		end  bool
	}{
		{req.StartDate, &q.StartDate, false},
		{req.EndDate, &q.EndDate, true},
	} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, d.raw)
		if err != nil {
			h.badRequest(c, "Dates must use the YYYY-MM-DD format.")
			return entity.ReportQuery{}, false
		}
		if d.end {
			// the end date covers the whole day
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		*d.dest = &t
	}
	return q, true
}

func (h *Handlers) page(c *gin.Context) (PageRequest, bool) {
	var p PageRequest
	if err := c.ShouldBindQuery(&p); err != nil {
		h.badRequest(c, "Invalid query parameters.")
		return p, false
	}
	return p, true
}

// reason reads an optional reject body; the service enforces that it is present
func (h *Handlers) reason(c *gin.Context) (string, bool) {
	var req ReasonRequest
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body.")
		return "", false
	}
	return req.Reason, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

func (h *Handlers) respondDone(c *gin.Context, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// respondError maps err to its status and display message
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, Response{Success: false, Error: "A newer request replaced this one."})
		return
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusRequestTimeout, Response{Success: false, Error: "The request was cancelled."})
		return
	case errors.Is(err, session.ErrEmptyToken):
		h.badRequest(c, "A token is required to sign in.")
		return
	}

	ae, ok := apperr.As(err)
	if !ok {
		h.logger.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: apperr.MsgUnknown})
		return
	}

	resp := Response{Success: false, Error: apperr.DisplayMessage(ae)}
	if ae.Kind == apperr.KindUnauthorized {
		resp.Redirect = session.LoginRoute
	}
	c.JSON(ae.HTTPStatus(), resp)
}

func sendWorkbook(c *gin.Context, wb *service.Workbook) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", wb.Filename))
	c.Data(http.StatusOK, export.ContentType, wb.Content)
}
