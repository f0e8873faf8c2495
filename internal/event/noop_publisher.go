package event

import (
	"context"
	"log/slog"
)

// NoopPublisher stands in when no broker connection is available. It
// logs what would have been published and reports failure so callers
// do not treat the event as delivered.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error {
	p.logger.WarnContext(ctx, "No broker connected, dropping customer registered event",
		slog.Int64("customerID", event.Payload.CustomerID))
	return ErrNoBroker
}

func (p *NoopPublisher) PublishReminderCreated(ctx context.Context, event ReminderCreatedEvent) error {
	p.logger.WarnContext(ctx, "No broker connected, reminder stays queued",
		slog.Int64("reminderID", event.Payload.ReminderID))
	return ErrNoBroker
}
