package ledger

import (
	"time"

	"shop-ledger/internal/pkg/money"
)

type PaymentType string

const (
	PaymentTypeFull    PaymentType = "FULL"
	PaymentTypePartial PaymentType = "PARTIAL"
	PaymentTypeCredit  PaymentType = "CREDIT"
)

// Sale is an immutable record of one transaction. Corrections take a
// new record, never an edit.
type Sale struct {
	ID          int64       `json:"id"`
	CustomerID  int64       `json:"customerId"`
	Qty         money.Money `json:"qty"`
	Rate        money.Money `json:"rate"`
	Total       money.Money `json:"total"`
	Paid        money.Money `json:"paid"`
	Credit      money.Money `json:"credit"`
	PaymentType PaymentType `json:"paymentType"`
	Date        time.Time   `json:"date"`
}

// NewSale derives the sale's total and credit portion. Negative
// operands clamp to zero so the balance invariants hold regardless of
// what the boundary let through. An unrecognized payment type counts as
// a full-credit sale.
func NewSale(customerID int64, qty, rate money.Money, paymentType PaymentType, paid money.Money) *Sale {
	qty = qty.ClampZero()
	rate = rate.ClampZero()
	paid = paid.ClampZero()

	total := money.Multiply(qty, rate)

	var credit money.Money
	switch paymentType {
	case PaymentTypeFull:
		credit = money.Zero
	case PaymentTypePartial:
		credit = total.Sub(paid).ClampZero()
	default:
		paymentType = PaymentTypeCredit
		credit = total
	}

	return &Sale{
		CustomerID:  customerID,
		Qty:         qty,
		Rate:        rate,
		Total:       total,
		Paid:        paid,
		Credit:      credit,
		PaymentType: paymentType,
	}
}
