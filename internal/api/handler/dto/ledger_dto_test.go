package dto

import (
	"testing"
	"time"

	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSaleRequestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		req     RecordSaleRequest
		wantErr string
	}{
		{
			name: "valid credit sale",
			req:  RecordSaleRequest{Qty: "2", Rate: "60", PaymentType: "CREDIT"},
		},
		{
			name: "valid partial sale with paid amount",
			req:  RecordSaleRequest{Qty: "1.5", Rate: "33.33", PaymentType: "PARTIAL", PaidAmount: "20"},
		},
		{
			name: "lowercase payment type accepted",
			req:  RecordSaleRequest{Qty: "1", Rate: "10", PaymentType: "full"},
		},
		{
			name:    "empty qty",
			req:     RecordSaleRequest{Rate: "60", PaymentType: "CREDIT"},
			wantErr: "qty cannot be empty",
		},
		{
			name:    "malformed rate",
			req:     RecordSaleRequest{Qty: "1", Rate: "sixty", PaymentType: "CREDIT"},
			wantErr: "invalid rate",
		},
		{
			name:    "negative qty",
			req:     RecordSaleRequest{Qty: "-1", Rate: "60", PaymentType: "CREDIT"},
			wantErr: "qty cannot be negative",
		},
		{
			name:    "unknown payment type",
			req:     RecordSaleRequest{Qty: "1", Rate: "60", PaymentType: "LAYAWAY"},
			wantErr: "paymentType must be one of",
		},
		{
			name:    "malformed paid amount",
			req:     RecordSaleRequest{Qty: "1", Rate: "60", PaymentType: "PARTIAL", PaidAmount: "x"},
			wantErr: "invalid paidAmount",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestRecordSaleRequestAccessors(t *testing.T) {
	req := RecordSaleRequest{Qty: "2", Rate: "33.335", PaymentType: "partial", PaidAmount: "20"}

	assert.True(t, req.QtyMoney().Equal(money.FromFloat(2)))
	assert.True(t, req.RateMoney().Equal(money.FromFloat(33.34)), "rate rounds to cents on construction")
	assert.True(t, req.PaidMoney().Equal(money.FromFloat(20)))
	assert.Equal(t, ledger.PaymentTypePartial, req.Type())
}

func TestRecordSaleRequestOmittedPaidAmountIsZero(t *testing.T) {
	req := RecordSaleRequest{Qty: "1", Rate: "10", PaymentType: "CREDIT"}

	require.NoError(t, req.Validate())
	assert.True(t, req.PaidMoney().IsZero())
}

func TestRecordPaymentRequestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		amount  string
		wantErr string
	}{
		{name: "positive amount", amount: "50"},
		{name: "fractional amount", amount: "0.01"},
		{name: "empty", amount: "", wantErr: "amount cannot be empty"},
		{name: "zero", amount: "0", wantErr: "greater than zero"},
		{name: "negative", amount: "-5", wantErr: "greater than zero"},
		{name: "malformed", amount: "fifty", wantErr: "invalid payment amount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := RecordPaymentRequest{Amount: tc.amount}
			err := req.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestNewSaleResponseFormatsAmounts(t *testing.T) {
	sale := &ledger.Sale{
		ID:          42,
		CustomerID:  7,
		Qty:         money.FromFloat(2),
		Rate:        money.FromFloat(60.25),
		Total:       money.FromFloat(120.50),
		Paid:        money.Zero,
		Credit:      money.FromFloat(120.50),
		PaymentType: ledger.PaymentTypeCredit,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	resp := NewSaleResponse(sale)

	assert.Equal(t, "42", resp.ID)
	assert.Equal(t, "7", resp.CustomerID)
	assert.Equal(t, "2", resp.Qty)
	assert.Equal(t, "60.25", resp.Rate)
	assert.Equal(t, "120.50", resp.Total)
	assert.Equal(t, "0", resp.Paid)
	assert.Equal(t, "CREDIT", resp.PaymentType)
}

func TestNewSaleResponseNil(t *testing.T) {
	assert.Equal(t, SaleResponse{}, NewSaleResponse(nil))
}

func TestNewReminderResponse(t *testing.T) {
	rem := &ledger.Reminder{ID: 3, CustomerID: 7, Amount: money.FromFloat(150), Sent: true}

	resp := NewReminderResponse(rem)

	assert.Equal(t, "3", resp.ID)
	assert.Equal(t, "150", resp.Amount)
	assert.True(t, resp.Sent)
}
