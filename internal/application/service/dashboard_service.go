package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/garyjia/erp-admin-console/internal/application/port"
	"github.com/garyjia/erp-admin-console/internal/domain/entity"
	"github.com/garyjia/erp-admin-console/internal/format"
	"github.com/garyjia/erp-admin-console/internal/report"
)

// Overview is the landing page summary
type Overview struct {
	PendingAccounts int           `json:"pendingAccounts"`
	PendingRefunds  int           `json:"pendingRefunds"`
	PendingExpenses int           `json:"pendingExpenses"`
	Cards           []report.Card `json:"cards"`
}

// DashboardService assembles the overview
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type dashboardServiceImpl struct {
	backend   port.Backend
	formatter *format.Formatter
	events    events
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(backend port.Backend, formatter *format.Formatter, publisher Publisher, logger Logger) DashboardService {
	return &dashboardServiceImpl{
		backend:   backend,
		formatter: formatter,
		events:    events{publisher: publisher, logger: logger},
	}
}

// Overview fetches the pending counts and the 30-day report summary concurrently.
// The first failure cancels the remaining calls.
func (s *dashboardServiceImpl) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := s.backend.GetPendingAccounts(gctx, 1, 1)
		if err != nil {
			return err
		}
		out.PendingAccounts = page.Total
		return nil
	})
	g.Go(func() error {
		page, err := s.backend.GetPendingRefunds(gctx, 1, 1)
		if err != nil {
			return err
		}
		out.PendingRefunds = page.Total
		return nil
	})
	g.Go(func() error {
		records, err := s.backend.ListExpenses(gctx)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if rec.Status == entity.ExpenseStatusPending {
				out.PendingExpenses++
			}
		}
		return nil
	})
	g.Go(func() error {
		resp, err := s.backend.GetOutsourcedReport(gctx, entity.ReportQuery{DateRange: entity.DateRange30Days})
		if err != nil {
			return err
		}
		out.Cards = report.BuildView(*resp, s.formatter).Cards
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, s.events.failed(ctx, EntityReport, "", ActionList, err)
	}
	return &out, nil
}
