package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shop-ledger/internal/infrastructure/monitoring"
	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"
)

const DefaultMaxRetries = 3

// LedgerService is the only legal mutator of a customer's pending
// balance. Each operation applies its record and the balance transition
// as a single atomic unit, or not at all.
type LedgerService interface {
	RecordSale(ctx context.Context, customerID int64, qty, rate money.Money, paymentType PaymentType, paid money.Money) (*Sale, error)

	RecordPayment(ctx context.Context, customerID int64, amount money.Money) error

	GetSales(ctx context.Context, customerID int64) ([]Sale, error)

	GetPayments(ctx context.Context, customerID int64) ([]Payment, error)

	GetReminders(ctx context.Context, customerID int64) ([]Reminder, error)
}

type ledgerServiceImpl struct {
	repo       Repository
	threshold  money.Money
	maxRetries int
	logger     *slog.Logger
}

func NewLedgerService(r Repository, threshold money.Money, maxRetries int, logger *slog.Logger) LedgerService {
	if r == nil {
		panic("ledger repository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if !threshold.IsPositive() {
		threshold = DefaultReminderThreshold
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &ledgerServiceImpl{
		repo:       r,
		threshold:  threshold,
		maxRetries: maxRetries,
		logger:     logger.With("component", "LedgerService"),
	}
}

func (s *ledgerServiceImpl) RecordSale(ctx context.Context, customerID int64, qty, rate money.Money, paymentType PaymentType, paid money.Money) (*Sale, error) {
	s.logger.InfoContext(ctx, "Recording sale", "customerID", customerID, "qty", qty, "rate", rate, "paymentType", paymentType)

	var sale *Sale
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		sale, err = s.applySale(ctx, customerID, qty, rate, paymentType, paid)
		if !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.logger.WarnContext(ctx, "Conflict applying sale, retrying with fresh read", "customerID", customerID, "attempt", attempt)
	}

	if err != nil {
		status := "failure_internal"
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			status = "failure_not_found"
		case errors.Is(err, apperrors.ErrConflict):
			status = "failure_conflict"
		}
		monitoring.RecordSale(status)
		return nil, err
	}

	monitoring.RecordSale("success")
	s.logger.InfoContext(ctx, "Sale recorded successfully", "customerID", customerID, "saleID", sale.ID, "credit", sale.Credit)
	return sale, nil
}

// applySale runs one attempt of the atomic unit: lock the balance row,
// persist the sale, write the new balance, and record a reminder if the
// transition crossed the threshold. Everything commits or rolls back
// together.
func (s *ledgerServiceImpl) applySale(ctx context.Context, customerID int64, qty, rate money.Money, paymentType PaymentType, paid money.Money) (sale *Sale, err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "Panic occurred while applying sale", "customerID", customerID, "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	prev, err := s.repo.GetPendingForUpdate(ctx, tx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found for sale", "customerID", customerID)
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		return nil, err
	}

	sale = NewSale(customerID, qty, rate, paymentType, paid)
	if err = s.repo.InsertSaleInTx(ctx, tx, sale); err != nil {
		return nil, err
	}

	next := prev.Add(sale.Credit)
	if err = s.repo.UpdatePendingInTx(ctx, tx, customerID, next); err != nil {
		return nil, err
	}

	if ReminderDue(prev, next, s.threshold) {
		reminder := NewReminder(customerID, next)
		if err = s.repo.InsertReminderInTx(ctx, tx, reminder); err != nil {
			return nil, err
		}
		monitoring.RecordReminderCreated()
		s.logger.InfoContext(ctx, "Balance crossed reminder threshold", "customerID", customerID, "prev", prev, "next", next)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *ledgerServiceImpl) RecordPayment(ctx context.Context, customerID int64, amount money.Money) error {
	s.logger.InfoContext(ctx, "Recording payment", "customerID", customerID, "amount", amount)

	if !amount.IsPositive() {
		monitoring.RecordPayment("failure_amount")
		s.logger.WarnContext(ctx, "Rejected non-positive payment amount", "customerID", customerID, "amount", amount)
		return fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrInvalidAmount)
	}

	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.applyPayment(ctx, customerID, amount)
		if !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.logger.WarnContext(ctx, "Conflict applying payment, retrying with fresh read", "customerID", customerID, "attempt", attempt)
	}

	if err != nil {
		status := "failure_internal"
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			status = "failure_not_found"
		case errors.Is(err, apperrors.ErrConflict):
			status = "failure_conflict"
		}
		monitoring.RecordPayment(status)
		return err
	}

	monitoring.RecordPayment("success")
	s.logger.InfoContext(ctx, "Payment recorded successfully", "customerID", customerID, "amount", amount)
	return nil
}

// applyPayment runs one attempt of the payment unit. The stored payment
// keeps the amount as received; only the balance is clamped at zero, so
// an overpayment is absorbed rather than driving pending negative.
func (s *ledgerServiceImpl) applyPayment(ctx context.Context, customerID int64, amount money.Money) (err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "Panic occurred while applying payment", "customerID", customerID, "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	prev, err := s.repo.GetPendingForUpdate(ctx, tx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found for payment", "customerID", customerID)
			return fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		return err
	}

	payment := NewPayment(customerID, amount)
	if err = s.repo.InsertPaymentInTx(ctx, tx, payment); err != nil {
		return err
	}

	next := prev.Sub(amount).ClampZero()
	if err = s.repo.UpdatePendingInTx(ctx, tx, customerID, next); err != nil {
		return err
	}

	return s.repo.CommitTx(ctx, tx)
}

func (s *ledgerServiceImpl) GetSales(ctx context.Context, customerID int64) ([]Sale, error) {
	sales, err := s.repo.GetSalesByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get sales", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to get sales for customer %d: %w", customerID, err)
	}
	return sales, nil
}

func (s *ledgerServiceImpl) GetPayments(ctx context.Context, customerID int64) ([]Payment, error) {
	payments, err := s.repo.GetPaymentsByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get payments", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to get payments for customer %d: %w", customerID, err)
	}
	return payments, nil
}

func (s *ledgerServiceImpl) GetReminders(ctx context.Context, customerID int64) ([]Reminder, error) {
	reminders, err := s.repo.GetRemindersByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get reminders", "customerID", customerID, "error", err)
		return nil, fmt.Errorf("failed to get reminders for customer %d: %w", customerID, err)
	}
	return reminders, nil
}
