package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/infrastructure/monitoring"
	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.CustomerID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	query := `
        INSERT INTO customers (name, mobile, pending, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Mobile,
		cust.Pending.Decimal(),
	).Scan(
		&cust.CustomerID,
		&cust.CreateDate,
		&cust.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.String("mobile", cust.Mobile))
			return fmt.Errorf("%w: %w", customer.ErrDuplicateMobile, translatedErr)
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translatedErr
	}

	r.logger.InfoContext(ctx, "Customer inserted in DB", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.CustomerID))

	query := `
        UPDATE customers
        SET name = $1, mobile = $2, pending = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Mobile,
		cust.Pending.Decimal(),
		cust.CustomerID,
	).Scan(&cust.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found for update", slog.Int64("customerID", cust.CustomerID))
			return apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return translateDBError(err, r.logger)
	}

	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT id, name, mobile, pending, created_at, updated_at
        FROM customers
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	var cust customer.Customer
	var pending decimal.Decimal
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.CustomerID, &cust.Name, &cust.Mobile, &pending,
		&cust.CreateDate, &cust.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("FindCustomerByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get customer by ID", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	cust.Pending = money.New(pending)
	return &cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, pendingOnly bool) ([]*customer.Customer, error) {
	query := `
        SELECT id, name, mobile, pending, created_at, updated_at
        FROM customers
        ORDER BY name ASC`
	if pendingOnly {
		query = `
        SELECT id, name, mobile, pending, created_at, updated_at
        FROM customers
        WHERE pending > 0
        ORDER BY pending DESC`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		var pending decimal.Decimal
		err := rows.Scan(
			&cust.CustomerID, &cust.Name, &cust.Mobile, &pending,
			&cust.CreateDate, &cust.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		cust.Pending = money.New(pending)
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return customers, nil
}
