package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop-ledger/internal/domain/customer"
	"shop-ledger/internal/domain/ledger"
	"shop-ledger/internal/event"
	"shop-ledger/internal/infrastructure/monitoring"
	"shop-ledger/internal/pkg/apperrors"
)

// ReminderDispatchJob drains unsent payment reminders: each one is
// published to the message broker and then marked sent. Publishing
// happens before the mark, so a crash between the two re-delivers on
// the next run rather than losing the reminder.
type ReminderDispatchJob struct {
	ledgerRepo      ledger.Repository
	customerService customer.CustomerService
	publisher       event.EventPublisher
	logger          *slog.Logger
}

func NewReminderDispatchJob(
	ledgerRepo ledger.Repository,
	customerSvc customer.CustomerService,
	publisher event.EventPublisher,
	logger *slog.Logger,
) *ReminderDispatchJob {
	if ledgerRepo == nil || customerSvc == nil || publisher == nil || logger == nil {
		panic("ReminderDispatchJob dependencies cannot be nil")
	}
	return &ReminderDispatchJob{
		ledgerRepo:      ledgerRepo,
		customerService: customerSvc,
		publisher:       publisher,
		logger:          logger.With("job", "ReminderDispatch"),
	}
}

func (j *ReminderDispatchJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting reminder dispatch job.")

	reminders, err := j.ledgerRepo.GetUnsentReminders(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch unsent reminders, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to fetch unsent reminders: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched unsent reminders.", slog.Int("count", len(reminders)))

	if len(reminders) == 0 {
		j.logger.InfoContext(ctx, "No unsent reminders to dispatch.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var dispatchedCount, skippedCount, errorCount int

	for _, rem := range reminders {
		logCtx := j.logger.With(slog.Int64("reminderID", rem.ID), slog.Int64("customerID", rem.CustomerID))

		cust, custErr := j.customerService.GetCustomer(ctx, rem.CustomerID)
		if custErr != nil {
			if errors.Is(custErr, customer.ErrNotFound) || errors.Is(custErr, apperrors.ErrNotFound) {
				logCtx.WarnContext(ctx, "Customer for reminder no longer exists, skipping.", slog.Any("error", custErr))
				skippedCount++
			} else {
				logCtx.ErrorContext(ctx, "Failed to load customer for reminder", slog.Any("error", custErr))
				monitoring.RecordReminderDispatched("failure")
				errorCount++
			}
			continue
		}

		evt := event.ReminderCreatedEvent{
			Timestamp: time.Now().UTC(),
			Payload: event.ReminderEventPayload{
				ReminderID:   rem.ID,
				CustomerID:   rem.CustomerID,
				CustomerName: cust.Name,
				DialNumber:   cust.DialNumber(),
				Amount:       rem.Amount,
				CreatedAt:    rem.CreatedAt,
			},
		}
		if pubErr := j.publisher.PublishReminderCreated(ctx, evt); pubErr != nil {
			logCtx.ErrorContext(ctx, "Failed to publish reminder event", slog.Any("error", pubErr))
			monitoring.RecordReminderDispatched("failure")
			errorCount++
			continue
		}

		if markErr := j.ledgerRepo.MarkReminderSent(ctx, rem.ID); markErr != nil {
			if errors.Is(markErr, apperrors.ErrNotFound) {
				// Already marked by a concurrent run; the duplicate
				// publish is acceptable under at-least-once delivery.
				logCtx.WarnContext(ctx, "Reminder already marked sent.", slog.Any("error", markErr))
				skippedCount++
				continue
			}
			logCtx.ErrorContext(ctx, "Failed to mark reminder as sent", slog.Any("error", markErr))
			monitoring.RecordReminderDispatched("failure")
			errorCount++
			continue
		}

		monitoring.RecordReminderDispatched("success")
		dispatchedCount++
		logCtx.InfoContext(ctx, "Reminder dispatched.", slog.String("amount", rem.Amount.Format()))
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_unsent", len(reminders)),
		slog.Int("dispatched", dispatchedCount),
		slog.Int("skipped", skippedCount),
		slog.Int("errors_encountered", errorCount),
	)
	if errorCount > 0 {
		summaryLog.WarnContext(ctx, "Reminder dispatch job finished with errors.")
		return fmt.Errorf("job completed with %d errors", errorCount)
	}
	summaryLog.InfoContext(ctx, "Reminder dispatch job finished successfully.")
	return nil
}
