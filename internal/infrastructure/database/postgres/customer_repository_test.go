package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestCreateCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := customer.NewCustomer("John Doe", "9876543210")

	query := `
        INSERT INTO customers (name, mobile, pending, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	now := time.Now()
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		cust.Name,
		cust.Mobile,
		cust.Pending.Decimal(),
	).WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(int64(1), now, now))

	err := repo.Save(ctx, cust)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cust.CustomerID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := &customer.Customer{
		CustomerID: 1,
		Name:       "John Doe",
		Mobile:     "9876543210",
		Pending:    money.FromFloat(120),
	}

	query := `
        UPDATE customers
        SET name = $1, mobile = $2, pending = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING updated_at`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		cust.Name,
		cust.Mobile,
		cust.Pending.Decimal(),
		cust.CustomerID,
	).WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	err := repo.Save(ctx, cust)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNilCustomer(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	err := repo.Save(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestFindCustomerByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, mobile, pending, created_at, updated_at
        FROM customers
        WHERE id = $1`

	now := time.Now()
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "mobile", "pending", "created_at", "updated_at"}).
			AddRow(int64(1), "John Doe", "9876543210", money.FromFloat(120).Decimal(), now, now))

	cust, err := repo.FindByID(ctx, 1)
	assert.NoError(t, err)
	require.NotNil(t, cust)
	assert.Equal(t, "John Doe", cust.Name)
	assert.True(t, cust.Pending.Equal(money.FromFloat(120)))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT id, name, mobile, pending").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	cust, err := repo.FindByID(ctx, 99)
	assert.Nil(t, cust)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomers(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	mockPool.ExpectQuery("ORDER BY name ASC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "mobile", "pending", "created_at", "updated_at"}).
			AddRow(int64(1), "Alice", "", money.Zero.Decimal(), now, now).
			AddRow(int64(2), "Bob", "9876543210", money.FromFloat(50).Decimal(), now, now))

	customers, err := repo.FindAll(ctx, false)
	assert.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Alice", customers[0].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllPendingOnly(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE pending > 0")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "mobile", "pending", "created_at", "updated_at"}).
			AddRow(int64(2), "Bob", "9876543210", money.FromFloat(170).Decimal(), now, now))

	customers, err := repo.FindAll(ctx, true)
	assert.NoError(t, err)
	require.Len(t, customers, 1)
	assert.True(t, customers[0].Pending.Equal(money.FromFloat(170)))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
