package ledger

import (
	"time"

	"shop-ledger/internal/pkg/money"
)

// Reminder marks the instant a customer's balance crossed the reminder
// threshold. Created unsent; the dispatch job flips Sent once the event
// has been handed to the notification collaborator.
type Reminder struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	Amount     money.Money `json:"amount"`
	Sent       bool        `json:"sent"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func NewReminder(customerID int64, amount money.Money) *Reminder {
	return &Reminder{
		CustomerID: customerID,
		Amount:     amount,
		Sent:       false,
	}
}
