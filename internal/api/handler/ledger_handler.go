package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"shop-ledger/internal/api/handler/dto"
	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type LedgerHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewLedgerHandler(s ledger.LedgerService, l *slog.Logger) *LedgerHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LedgerHandler{
		service: s,
		logger:  l.With("component", "LedgerHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInvalidAmount):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// RecordSale handles POST /customers/{customerID}/sales
// @Summary Record a sale
// @Description Records a sale for a customer and applies the credit portion to the pending balance atomically. Crossing the reminder threshold creates a payment reminder.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.RecordSaleRequest true "Sale payload (amounts as decimal strings)"
// @Success 201 {object} dto.SaleResponse "Sale successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent balance update conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/sales [post]
// @Security BearerAuth
func (h *LedgerHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.RecordSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Sale request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	sale, err := h.service.RecordSale(r.Context(), customerID, req.QtyMoney(), req.RateMoney(), req.Type(), req.PaidMoney())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record sale", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewSaleResponse(sale)
	h.logger.InfoContext(r.Context(), "Sale recorded successfully", slog.String("saleID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// ListSales handles GET /customers/{customerID}/sales
// @Summary List a customer's sales
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.SaleResponse "List of sales, newest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/sales [get]
// @Security BearerAuth
func (h *LedgerHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	sales, err := h.service.GetSales(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list sales", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		resp[i] = dto.NewSaleResponse(&sales[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// RecordPayment handles POST /customers/{customerID}/payments
// @Summary Record a payment
// @Description Records a payment and subtracts it from the pending balance atomically. The balance never goes below zero.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.RecordPaymentRequest true "Payment payload (amount as decimal string)"
// @Success 204 "Payment successfully recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid or non-positive amount"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent balance update conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [post]
// @Security BearerAuth
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Payment request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, err))
		return
	}

	err = h.service.RecordPayment(r.Context(), customerID, req.AmountMoney())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrInvalidAmount) &&
			!errors.Is(err, apperrors.ErrConflict) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to record payment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment recorded successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// ListPayments handles GET /customers/{customerID}/payments
// @Summary List a customer's payments
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.PaymentResponse "List of payments, newest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/payments [get]
// @Security BearerAuth
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	payments, err := h.service.GetPayments(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		resp[i] = dto.NewPaymentResponse(&payments[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListReminders handles GET /customers/{customerID}/reminders
// @Summary List a customer's payment reminders
// @Tags Ledger
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.ReminderResponse "List of reminders, newest first"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/reminders [get]
// @Security BearerAuth
func (h *LedgerHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	reminders, err := h.service.GetReminders(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list reminders", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ReminderResponse, len(reminders))
	for i := range reminders {
		resp[i] = dto.NewReminderResponse(&reminders[i])
	}
	respondJSON(w, http.StatusOK, resp)
}
