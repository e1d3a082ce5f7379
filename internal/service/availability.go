package service

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
	"rentdesk-backend/internal/utils"
)

type availabilityService struct {
	inventoryRepo    repository.InventoryRepository
	availabilityRepo repository.AvailabilityRepository
}

func NewAvailabilityService(inventoryRepo repository.InventoryRepository, availabilityRepo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{
		inventoryRepo:    inventoryRepo,
		availabilityRepo: availabilityRepo,
	}
}

// CheckAvailability reports how many units of an item are free over [start, end].
// excludeRentalID leaves one rental's own bookings out of the count, for edits.
func (s *availabilityService) CheckAvailability(ctx context.Context, p domain.Principal, itemID int64, start, end time.Time, excludeRentalID *int64) (*domain.Availability, error) {
	logger.EnterMethod("availabilityService.CheckAvailability", "userID", p.UserID, "itemID", itemID)

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := utils.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.GetByID(ctx, p.UserID, itemID); err != nil {
		return nil, err
	}

	avail, err := s.availabilityRepo.Check(ctx, itemID, start, end, excludeRentalID)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.CheckAvailability", err)
		return nil, err
	}
	logger.ExitMethod("availabilityService.CheckAvailability", "available", avail.AvailableQuantity, "booked", avail.BookedQuantity)
	return avail, nil
}
