package ledger

import (
	"time"

	"shop-ledger/internal/pkg/money"
)

// Payment records money received against a customer's balance. The
// stored amount is what was actually handed over, even when it exceeds
// the outstanding balance.
type Payment struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	Amount     money.Money `json:"amount"`
	Date       time.Time   `json:"date"`
}

func NewPayment(customerID int64, amount money.Money) *Payment {
	return &Payment{
		CustomerID: customerID,
		Amount:     amount,
	}
}
