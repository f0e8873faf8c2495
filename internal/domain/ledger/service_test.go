package ledger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"shop-ledger/internal/pkg/apperrors"
	"shop-ledger/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func amountEq(want money.Money) interface{} {
	return mock.MatchedBy(func(got money.Money) bool {
		return got.Equal(want)
	})
}

func TestRecordSaleCredit(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.Zero, nil)
	mockRepo.On("InsertSaleInTx", ctx, tx, mock.Anything).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(99.99))).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	sale, err := service.RecordSale(ctx, customerID, money.FromFloat(3), money.FromFloat(33.33), PaymentTypeCredit, money.Zero)

	assert.NoError(t, err)
	assert.True(t, sale.Credit.Equal(money.FromFloat(99.99)))
	mockRepo.AssertNotCalled(t, "InsertReminderInTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestRecordSaleCreatesReminderOnCrossing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(50), nil)
	mockRepo.On("InsertSaleInTx", ctx, tx, mock.Anything).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(170))).Return(nil)
	mockRepo.On("InsertReminderInTx", ctx, tx, mock.MatchedBy(func(r *Reminder) bool {
		return r.CustomerID == customerID && r.Amount.Equal(money.FromFloat(170)) && !r.Sent
	})).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	_, err := service.RecordSale(ctx, customerID, money.FromFloat(10), money.FromFloat(12), PaymentTypeCredit, money.Zero)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordSaleNoReminderWhenAlreadyAboveThreshold(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(150), nil)
	mockRepo.On("InsertSaleInTx", ctx, tx, mock.Anything).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(170))).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	_, err := service.RecordSale(ctx, customerID, money.FromFloat(1), money.FromFloat(20), PaymentTypeCredit, money.Zero)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "InsertReminderInTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestRecordSaleCustomerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(42)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.Zero, apperrors.ErrNotFound)
	mockRepo.On("RollbackTx", ctx, tx).Return(nil)

	_, err := service.RecordSale(ctx, customerID, money.FromFloat(1), money.FromFloat(10), PaymentTypeCredit, money.Zero)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestRecordSaleRetriesOnConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.Zero, apperrors.ErrConflict).Once()
	mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(10), nil).Once()
	mockRepo.On("InsertSaleInTx", ctx, tx, mock.Anything).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(30))).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	_, err := service.RecordSale(ctx, customerID, money.FromFloat(1), money.FromFloat(20), PaymentTypeCredit, money.Zero)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordSaleGivesUpAfterMaxRetries(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, 2, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil).Times(2)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.Zero, apperrors.ErrConflict).Times(2)
	mockRepo.On("RollbackTx", ctx, tx).Return(nil).Times(2)

	_, err := service.RecordSale(ctx, customerID, money.FromFloat(1), money.FromFloat(20), PaymentTypeCredit, money.Zero)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestRecordPayment(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(120), nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.MatchedBy(func(p *Payment) bool {
		return p.CustomerID == customerID && p.Amount.Equal(money.FromFloat(50))
	})).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(70))).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	err := service.RecordPayment(ctx, customerID, money.FromFloat(50))

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordPaymentClampsBalanceAtZero(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(30), nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.MatchedBy(func(p *Payment) bool {
		return p.Amount.Equal(money.FromFloat(50))
	})).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.Zero)).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	err := service.RecordPayment(ctx, customerID, money.FromFloat(50))

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()

	err := service.RecordPayment(ctx, 1, money.Zero)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	err = service.RecordPayment(ctx, 1, money.FromFloat(-10))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestRecordPaymentNeverCreatesReminder(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)

	mockRepo.On("BeginTx", ctx).Return(tx, nil)
	mockRepo.On("GetPendingForUpdate", ctx, tx, customerID).Return(money.FromFloat(170), nil)
	mockRepo.On("InsertPaymentInTx", ctx, tx, mock.Anything).Return(nil)
	mockRepo.On("UpdatePendingInTx", ctx, tx, customerID, amountEq(money.FromFloat(120))).Return(nil)
	mockRepo.On("CommitTx", ctx, tx).Return(nil)

	err := service.RecordPayment(ctx, customerID, money.FromFloat(50))

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "InsertReminderInTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestGetSales(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)
	expected := []Sale{{CustomerID: customerID}}

	mockRepo.On("GetSalesByCustomer", ctx, customerID).Return(expected, nil)

	result, err := service.GetSales(ctx, customerID)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockRepo.AssertExpectations(t)
}

func TestGetPayments(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)
	expected := []Payment{{CustomerID: customerID}}

	mockRepo.On("GetPaymentsByCustomer", ctx, customerID).Return(expected, nil)

	result, err := service.GetPayments(ctx, customerID)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockRepo.AssertExpectations(t)
}

func TestGetReminders(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewLedgerService(mockRepo, DefaultReminderThreshold, DefaultMaxRetries, logger)

	ctx := context.Background()
	customerID := int64(1)
	expected := []Reminder{{CustomerID: customerID}}

	mockRepo.On("GetRemindersByCustomer", ctx, customerID).Return(expected, nil)

	result, err := service.GetReminders(ctx, customerID)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockRepo.AssertExpectations(t)
}
