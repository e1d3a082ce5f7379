package jobs

import (
	"context"
	"errors"
	"fmt"

	"rentdesk-backend/internal/logger"

	"github.com/google/uuid"
)

// OverdueResult summarizes one MarkOverdueRentals pass.
type OverdueResult struct {
	Marked        int
	RemindersSent int
	// ReminderFailures counts customers whose reminder could not be delivered.
	ReminderFailures int
}

// MarkOverdueRentals is the cron entry point for RunMarkOverdue.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() error {
		ctx := logger.WithContext(context.Background(),
			logger.Get().With("job", "MarkOverdueRentals", "run_id", uuid.NewString()))
		_, err := jr.RunMarkOverdue(ctx)
		return err
	})
}

// RunMarkOverdue moves active rentals past their end date to overdue and
// emails each affected customer that has an email address. Failed reminders
// are logged and not retried; the rentals stay overdue either way.
func (jr *JobRunner) RunMarkOverdue(ctx context.Context) (OverdueResult, error) {
	var res OverdueResult

	rentals, err := jr.repos.Rental.MarkOverdue(ctx, jr.now().UTC())
	if err != nil {
		return res, fmt.Errorf("failed to mark overdue rentals: %w", err)
	}
	res.Marked = len(rentals)
	logger.InfoContext(ctx, "Marked rentals as overdue", "count", res.Marked)

	var errs []error
	for i := range rentals {
		rental := &rentals[i]
		logger.DebugContext(ctx, "Marked rental as overdue",
			"rental_id", rental.ID,
			"rental_number", rental.RentalNumber,
			"customer_id", rental.CustomerID,
			"end_date", rental.EndDate)

		customer, err := jr.repos.Customer.GetByID(ctx, rental.UserID, rental.CustomerID)
		if err != nil {
			res.ReminderFailures++
			errs = append(errs, fmt.Errorf("rental %d: load customer: %w", rental.ID, err))
			continue
		}
		if customer.Email == "" {
			continue
		}

		if err := jr.notifier.SendOverdueReminder(ctx, customer, rental); err != nil {
			res.ReminderFailures++
			errs = append(errs, fmt.Errorf("rental %d: %w", rental.ID, err))
			continue
		}
		res.RemindersSent++
	}

	if len(errs) > 0 {
		logger.WarnContext(ctx, "Some overdue reminders failed", "failed", res.ReminderFailures, "error", errors.Join(errs...))
	}
	logger.InfoContext(ctx, "Overdue reminders processed", "sent", res.RemindersSent, "failed", res.ReminderFailures)
	return res, nil
}
