package handler

import (
	"log/slog"
	"net/http"

	"shop-ledger/internal/api/handler/dto"
	"shop-ledger/internal/domain/report"
)

type ReportHandler struct {
	service report.ReportService
	logger  *slog.Logger
}

func NewReportHandler(s report.ReportService, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

// GetSummary handles GET /reports/summary
// @Summary Ledger totals
// @Description Recomputes total sales, total paid and total pending across all records.
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.SummaryResponse "Aggregated totals"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/summary [get]
// @Security BearerAuth
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to compute summary", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSummaryResponse(summary))
}
