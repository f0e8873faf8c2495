package ledger

import (
	"context"

	"shop-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// GetPendingForUpdate reads a customer's balance under a row lock so
	// the read-modify-write sequence serializes per customer.
	GetPendingForUpdate(ctx context.Context, tx pgx.Tx, customerID int64) (money.Money, error)

	UpdatePendingInTx(ctx context.Context, tx pgx.Tx, customerID int64, pending money.Money) error

	InsertSaleInTx(ctx context.Context, tx pgx.Tx, sale *Sale) error

	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *Payment) error

	InsertReminderInTx(ctx context.Context, tx pgx.Tx, reminder *Reminder) error

	GetSalesByCustomer(ctx context.Context, customerID int64) ([]Sale, error)

	GetAllSales(ctx context.Context) ([]Sale, error)

	GetPaymentsByCustomer(ctx context.Context, customerID int64) ([]Payment, error)

	GetRemindersByCustomer(ctx context.Context, customerID int64) ([]Reminder, error)

	GetUnsentReminders(ctx context.Context) ([]Reminder, error)

	MarkReminderSent(ctx context.Context, reminderID int64) error
}
