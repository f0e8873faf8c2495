package report

import (
	"context"
	"fmt"
	"log/slog"

	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/pkg/money"
)

type ReportService interface {
	// GetSummary recomputes the totals from the full record set. It is
	// side-effect free and safe to call at any time.
	GetSummary(ctx context.Context) (*Summary, error)
}

type reportServiceImpl struct {
	ledgerRepo   ledger.Repository
	customerRepo customer.CustomerRepository
	logger       *slog.Logger
}

func NewReportService(ledgerRepo ledger.Repository, customerRepo customer.CustomerRepository, logger *slog.Logger) ReportService {
	if ledgerRepo == nil || customerRepo == nil {
		panic("report repositories cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &reportServiceImpl{
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
		logger:       logger.With("component", "ReportService"),
	}
}

func (s *reportServiceImpl) GetSummary(ctx context.Context) (*Summary, error) {
	sales, err := s.ledgerRepo.GetAllSales(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load sales for summary", "error", err)
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	customers, err := s.customerRepo.FindAll(ctx, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load customers for summary", "error", err)
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	summary := &Summary{
		TotalSales:   money.Zero,
		TotalPaid:    money.Zero,
		TotalPending: money.Zero,
	}
	for _, sale := range sales {
		summary.TotalSales = summary.TotalSales.Add(sale.Total)
		summary.TotalPaid = summary.TotalPaid.Add(sale.Paid)
	}
	for _, c := range customers {
		summary.TotalPending = summary.TotalPending.Add(c.Pending)
	}

	s.logger.InfoContext(ctx, "Computed ledger summary",
		"sales", len(sales), "customers", len(customers),
		"totalSales", summary.TotalSales, "totalPending", summary.TotalPending)
	return summary, nil
}
