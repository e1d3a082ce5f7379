package postgres

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type availabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// Check passes its arguments straight to check_item_availability() and
// returns the function's answer unchanged. Errors are not retried.
func (r *availabilityRepository) Check(ctx context.Context, itemID int64, start, end time.Time, excludeRentalID *int64) (*domain.Availability, error) {
	query := `SELECT quantity_total, booked_quantity, available_quantity FROM check_item_availability($1, $2, $3, $4)`
	a := &domain.Availability{ItemID: itemID}

	logger.DatabaseCall("RPC", "check_item_availability", "itemID", itemID, "start", start, "end", end, "excludeRentalID", excludeRentalID)
	err := r.db.QueryRowContext(ctx, query, itemID, start, end, excludeRentalID).Scan(&a.QuantityTotal, &a.BookedQuantity, &a.AvailableQuantity)
	logger.DatabaseResult("RPC", 1, err, "available", a.AvailableQuantity)
	if err != nil {
		return nil, err
	}
	return a, nil
}
