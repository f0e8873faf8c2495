package customer

import (
	"testing"

	"shop-ledger/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomerStartsWithZeroPending(t *testing.T) {
	cust := NewCustomer("  Asha ", " 9876543210 ")

	assert.Equal(t, "Asha", cust.Name)
	assert.Equal(t, "9876543210", cust.Mobile)
	assert.True(t, cust.Pending.IsZero())
	assert.False(t, cust.HasPending())
	assert.False(t, cust.CreateDate.IsZero())
}

func TestHasPending(t *testing.T) {
	cust := NewCustomer("Asha", "")
	assert.False(t, cust.HasPending())

	cust.Pending = money.FromFloat(0.01)
	assert.True(t, cust.HasPending())
}

func TestDialNumber(t *testing.T) {
	testCases := []struct {
		name   string
		mobile string
		want   string
	}{
		{name: "bare ten digits gets country prefix", mobile: "9876543210", want: "919876543210"},
		{name: "already prefixed", mobile: "919876543210", want: "919876543210"},
		{name: "plus and separators stripped", mobile: "+91 98765-43210", want: "919876543210"},
		{name: "empty mobile", mobile: "", want: ""},
		{name: "no digits", mobile: "n/a", want: ""},
		{name: "short number passed through", mobile: "12345", want: "12345"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cust := &Customer{Mobile: tc.mobile}
			assert.Equal(t, tc.want, cust.DialNumber())
		})
	}
}
