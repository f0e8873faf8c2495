package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/infrastructure/monitoring"
	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

type LedgerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var _ ledger.Repository = (*LedgerRepository)(nil)

var errMsgFormat = "%w: %w"

func NewLedgerRepository(db DBPool, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, logger: logger.With("component", "LedgerRepository")}
}

func (r *LedgerRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LedgerRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *LedgerRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)

		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

// GetPendingForUpdate locks the customer row for the rest of the
// transaction, serializing concurrent balance transitions per customer.
func (r *LedgerRepository) GetPendingForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (money.Money, error) {
	query := `
        SELECT pending
        FROM customers
        WHERE id = $1
        FOR UPDATE`

	var pending decimal.Decimal
	err := tx.QueryRow(ctx, query, customerID).Scan(&pending)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.InfoContext(ctx, "Customer not found for balance lock", "customerID", customerID)
			return money.Zero, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock customer balance", "customerID", customerID, "error", err)
		return money.Zero, translateDBError(err, r.logger)
	}
	return money.New(pending), nil
}

func (r *LedgerRepository) UpdatePendingInTx(ctx context.Context, tx pgx.Tx, customerID int64, pending money.Money) error {
	sql := `UPDATE customers SET pending = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := tx.Exec(ctx, sql, pending.Decimal(), customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update pending balance", "customerID", customerID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Pending balance update affected zero rows", "customerID", customerID)

		return fmt.Errorf("%w: pending balance update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *LedgerRepository) InsertSaleInTx(ctx context.Context, tx pgx.Tx, sale *ledger.Sale) error {
	sql := `
        INSERT INTO sales (customer_id, qty, rate, total, paid, credit, payment_type, date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id, date`

	err := tx.QueryRow(ctx, sql,
		sale.CustomerID, sale.Qty.Decimal(), sale.Rate.Decimal(), sale.Total.Decimal(),
		sale.Paid.Decimal(), sale.Credit.Decimal(), string(sale.PaymentType),
	).Scan(&sale.ID, &sale.Date)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert sale", "customerID", sale.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Sale inserted in DB", "saleID", sale.ID, "customerID", sale.CustomerID)
	return nil
}

func (r *LedgerRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *ledger.Payment) error {
	sql := `
        INSERT INTO payments (customer_id, amount, date)
        VALUES ($1, $2, NOW())
        RETURNING id, date`

	err := tx.QueryRow(ctx, sql, payment.CustomerID, payment.Amount.Decimal()).Scan(&payment.ID, &payment.Date)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert payment", "customerID", payment.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Payment inserted in DB", "paymentID", payment.ID, "customerID", payment.CustomerID)
	return nil
}

func (r *LedgerRepository) InsertReminderInTx(ctx context.Context, tx pgx.Tx, reminder *ledger.Reminder) error {
	sql := `
        INSERT INTO reminders (customer_id, amount, sent, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id, created_at`

	err := tx.QueryRow(ctx, sql, reminder.CustomerID, reminder.Amount.Decimal(), reminder.Sent).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert reminder", "customerID", reminder.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Reminder inserted in DB", "reminderID", reminder.ID, "customerID", reminder.CustomerID)
	return nil
}

func (r *LedgerRepository) GetSalesByCustomer(ctx context.Context, customerID int64) ([]ledger.Sale, error) {
	query := `
        SELECT id, customer_id, qty, rate, total, paid, credit, payment_type, date
        FROM sales
        WHERE customer_id = $1
        ORDER BY date DESC`

	status := "success"
	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		monitoring.RecordDBQuery("GetSalesByCustomer", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query sales", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	sales, err := scanSales(rows)
	if err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "Failed to scan sales rows", "customerID", customerID, "error", err)
	}
	monitoring.RecordDBQuery("GetSalesByCustomer", status, time.Since(startTime))
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return sales, nil
}

func (r *LedgerRepository) GetAllSales(ctx context.Context) ([]ledger.Sale, error) {
	query := `
        SELECT id, customer_id, qty, rate, total, paid, credit, payment_type, date
        FROM sales
        ORDER BY date ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query all sales", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	sales, err := scanSales(rows)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to scan all sales rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return sales, nil
}

func scanSales(rows pgx.Rows) ([]ledger.Sale, error) {
	sales := make([]ledger.Sale, 0)
	for rows.Next() {
		var s ledger.Sale
		var qty, rate, total, paid, credit decimal.Decimal
		var paymentType string
		err := rows.Scan(
			&s.ID, &s.CustomerID, &qty, &rate, &total, &paid, &credit, &paymentType, &s.Date,
		)
		if err != nil {
			return nil, err
		}
		s.Qty = money.New(qty)
		s.Rate = money.New(rate)
		s.Total = money.New(total)
		s.Paid = money.New(paid)
		s.Credit = money.New(credit)
		s.PaymentType = ledger.PaymentType(paymentType)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *LedgerRepository) GetPaymentsByCustomer(ctx context.Context, customerID int64) ([]ledger.Payment, error) {
	query := `
        SELECT id, customer_id, amount, date
        FROM payments
        WHERE customer_id = $1
        ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query payments", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]ledger.Payment, 0)
	for rows.Next() {
		var p ledger.Payment
		var amount decimal.Decimal
		if err := rows.Scan(&p.ID, &p.CustomerID, &amount, &p.Date); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan payment row", "customerID", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		p.Amount = money.New(amount)
		payments = append(payments, p)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating payment rows", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return payments, nil
}

func (r *LedgerRepository) GetRemindersByCustomer(ctx context.Context, customerID int64) ([]ledger.Reminder, error) {
	query := `
        SELECT id, customer_id, amount, sent, created_at
        FROM reminders
        WHERE customer_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query reminders", "customerID", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanReminders(ctx, rows)
}

func (r *LedgerRepository) GetUnsentReminders(ctx context.Context) ([]ledger.Reminder, error) {
	query := `
        SELECT id, customer_id, amount, sent, created_at
        FROM reminders
        WHERE sent = FALSE
        ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query unsent reminders", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanReminders(ctx, rows)
}

func (r *LedgerRepository) scanReminders(ctx context.Context, rows pgx.Rows) ([]ledger.Reminder, error) {
	reminders := make([]ledger.Reminder, 0)
	for rows.Next() {
		var rem ledger.Reminder
		var amount decimal.Decimal
		if err := rows.Scan(&rem.ID, &rem.CustomerID, &amount, &rem.Sent, &rem.CreatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan reminder row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		rem.Amount = money.New(amount)
		reminders = append(reminders, rem)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating reminder rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return reminders, nil
}

func (r *LedgerRepository) MarkReminderSent(ctx context.Context, reminderID int64) error {
	sql := `UPDATE reminders SET sent = TRUE WHERE id = $1 AND sent = FALSE`

	cmdTag, err := r.db.Exec(ctx, sql, reminderID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark reminder sent", "reminderID", reminderID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Reminder already sent or missing", "reminderID", reminderID)
		return fmt.Errorf("%w: reminder %d not found or already sent", apperrors.ErrNotFound, reminderID)
	}
	r.logger.InfoContext(ctx, "Reminder marked sent", "reminderID", reminderID)
	return nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {

		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		// Serialization failures and deadlocks are retried by the
		// ledger service with a fresh read.
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			contextLogger.Warn("Transaction conflict", "code", pgErr.Code, "message", pgErr.Message)
			return fmt.Errorf("%w: db error code %s", apperrors.ErrConflict, pgErr.Code)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
