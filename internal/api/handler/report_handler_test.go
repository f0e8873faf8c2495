package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-ledger/internal/domain/report"
	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportService struct {
	mock.Mock
}

var _ report.ReportService = (*MockReportService)(nil)

func (m *MockReportService) GetSummary(ctx context.Context) (*report.Summary, error) {
	args := m.Called(ctx)
	summary, _ := args.Get(0).(*report.Summary)
	return summary, args.Error(1)
}

func TestGetSummarySuccess(t *testing.T) {
	svc := new(MockReportService)
	h := NewReportHandler(svc, logger)

	svc.On("GetSummary", mock.Anything).Return(&report.Summary{
		TotalSales:   money.FromFloat(220),
		TotalPaid:    money.FromFloat(170.50),
		TotalPending: money.FromFloat(49.50),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/summary", nil)
	rec := httptest.NewRecorder()

	h.GetSummary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalSales":"220"`)
	assert.Contains(t, rec.Body.String(), `"totalPaid":"170.50"`)
	assert.Contains(t, rec.Body.String(), `"totalPending":"49.50"`)
	svc.AssertExpectations(t)
}

func TestGetSummaryServiceError(t *testing.T) {
	svc := new(MockReportService)
	h := NewReportHandler(svc, logger)

	svc.On("GetSummary", mock.Anything).Return(nil, apperrors.ErrDatabase)

	req := httptest.NewRequest(http.MethodGet, "/reports/summary", nil)
	rec := httptest.NewRecorder()

	h.GetSummary(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
