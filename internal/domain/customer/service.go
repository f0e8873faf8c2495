package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"shop-ledger/internal/event"
	"shop-ledger/internal/pkg/apperrors"
)

type CustomerService interface {
	RegisterCustomer(ctx context.Context, name, mobile string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	ListPendingCustomers(ctx context.Context) ([]*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, name, mobile string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	name = strings.TrimSpace(name)
	mobile = normalizeMobile(mobile)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "customer name cannot be empty")
	}
	if err := validateMobile(mobile); err != nil {
		s.logger.WarnContext(ctx, "Validation failed: bad mobile number", slog.String("name", name))
		return nil, err
	}

	cust := NewCustomer(name, mobile)

	err := s.repo.Save(ctx, cust)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	logCtx := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	logCtx.InfoContext(ctx, "Successfully registered new customer")

	if s.pub != nil {
		registered := event.CustomerRegisteredEvent{
			Timestamp: time.Now(),
			Payload:   newCustomerEventPayload(cust),
		}
		if pubErr := s.pub.PublishCustomerRegistered(ctx, registered); pubErr != nil {
			logCtx.ErrorContext(ctx, "Customer registered, but FAILED to publish registration event", slog.Any("error", pubErr))
		} else {
			logCtx.InfoContext(ctx, "Successfully published customer registration event")
		}
	}

	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Repository failed to find customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Listing all customers")

	customers, err := s.repo.FindAll(ctx, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) ListPendingCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Listing customers with pending balance")

	customers, err := s.repo.FindAll(ctx, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list pending customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list pending customers: %w", err)
	}
	return customers, nil
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.CustomerID,
		Name:       cust.Name,
		Mobile:     cust.Mobile,
		Pending:    cust.Pending,
		CreateDate: cust.CreateDate,
	}
}

// normalizeMobile strips the separators people type into phone fields.
func normalizeMobile(mobile string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(mobile) {
		switch r {
		case ' ', '-', '(', ')':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateMobile(mobile string) error {
	if mobile == "" {
		return nil
	}
	rest := mobile
	if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return apperrors.NewValidationError("mobile", "mobile must contain digits only")
		}
	}
	return nil
}
