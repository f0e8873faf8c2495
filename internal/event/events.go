package event

import (
	"context"
	"errors"
	"time"

	"shop-ledger/internal/pkg/money"
)

// ErrNoBroker signals that no message broker connection exists and the
// event was not delivered.
var ErrNoBroker = errors.New("no message broker connected")

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishReminderCreated(ctx context.Context, event ReminderCreatedEvent) error
}

type CustomerEventPayload struct {
	CustomerID int64       `json:"customerId"`
	Name       string      `json:"name"`
	Mobile     string      `json:"mobile"`
	Pending    money.Money `json:"pending"`
	CreateDate time.Time   `json:"createDate"`
}

type CustomerRegisteredEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

// ReminderEventPayload is what the notification collaborator gets when a
// balance crosses the reminder threshold. DialNumber may be empty when
// the customer has no usable mobile on record; delivery is the
// collaborator's problem, not the ledger's.
type ReminderEventPayload struct {
	ReminderID   int64       `json:"reminderId"`
	CustomerID   int64       `json:"customerId"`
	CustomerName string      `json:"customerName"`
	DialNumber   string      `json:"dialNumber,omitempty"`
	Amount       money.Money `json:"amount"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type ReminderCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   ReminderEventPayload `json:"payload"`
}
