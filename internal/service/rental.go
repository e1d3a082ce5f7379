package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
	"rentdesk-backend/internal/utils"

	"github.com/shopspring/decimal"
)

const returnChargesNote = "Additional charges at return"

type rentalService struct {
	repos repository.Repositories
	tx    repository.Transactor
	now   func() time.Time
}

func NewRentalService(repos repository.Repositories, tx repository.Transactor) RentalService {
	return &rentalService{
		repos: repos,
		tx:    tx,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *rentalService) CreateRental(ctx context.Context, p domain.Principal, in CreateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "userID", p.UserID, "customerID", in.CustomerID, "items", len(in.Items))

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	start, end := in.StartDate.Time, in.EndDate.Time
	if err := utils.ValidateDateRange(start, end); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.RentalStatusDraft
	}
	if !status.IsInitial() {
		return nil, fmt.Errorf("%w: a rental cannot be created as %s", domain.ErrValidation, status)
	}
	if in.DepositAmount != nil && in.DepositAmount.IsNegative() {
		return nil, fmt.Errorf("%w: deposit amount cannot be negative", domain.ErrValidation)
	}

	var rental *domain.Rental
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		customer, err := repos.Customer.GetByID(ctx, p.UserID, in.CustomerID)
		if err != nil {
			return err
		}

		lines, deposit, err := priceLines(ctx, repos, p, in.Items, start, end, nil)
		if err != nil {
			return err
		}

		number, err := repos.Rental.NextRentalNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate rental number: %w", err)
		}

		rental = &domain.Rental{
			UserID:        p.UserID,
			RentalNumber:  number,
			CustomerID:    customer.ID,
			StartDate:     start,
			EndDate:       end,
			Status:        status,
			TotalAmount:   sumSubtotals(lines),
			DepositAmount: deposit,
			Notes:         in.Notes,
		}
		if in.DepositAmount != nil {
			rental.DepositAmount = *in.DepositAmount
		}
		if err := repos.Rental.Create(ctx, rental); err != nil {
			return err
		}

		for i := range lines {
			lines[i].RentalID = rental.ID
		}
		if err := repos.RentalItem.CreateBatch(ctx, lines); err != nil {
			return err
		}
		rental.Items = lines
		rental.Customer = customer
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err)
		return nil, err
	}

	logger.ExitMethod("rentalService.CreateRental", "rentalID", rental.ID, "rentalNumber", rental.RentalNumber, "total", rental.TotalAmount.String())
	return rental, nil
}

func (s *rentalService) UpdateRental(ctx context.Context, p domain.Principal, rentalID int64, in UpdateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.UpdateRental", "userID", p.UserID, "rentalID", rentalID)

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.DepositAmount != nil && in.DepositAmount.IsNegative() {
		return nil, fmt.Errorf("%w: deposit amount cannot be negative", domain.ErrValidation)
	}

	var rental *domain.Rental
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		rental, err = repos.Rental.GetByID(ctx, p.UserID, rentalID)
		if err != nil {
			return err
		}

		if in.CustomerID != nil && *in.CustomerID != rental.CustomerID {
			if _, err := repos.Customer.GetByID(ctx, p.UserID, *in.CustomerID); err != nil {
				return err
			}
			rental.CustomerID = *in.CustomerID
		}
		if in.Status != nil {
			if *in.Status == domain.RentalStatusCompleted && rental.Status != domain.RentalStatusCompleted {
				return fmt.Errorf("%w: rentals are completed by processing their return", domain.ErrInvalidTransition)
			}
			if !rental.Status.CanTransitionTo(*in.Status) {
				return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, rental.Status, *in.Status)
			}
			rental.Status = *in.Status
		}

		datesChanged := false
		if in.StartDate != nil && !in.StartDate.Equal(rental.StartDate) {
			rental.StartDate = in.StartDate.Time
			datesChanged = true
		}
		if in.EndDate != nil && !in.EndDate.Equal(rental.EndDate) {
			rental.EndDate = in.EndDate.Time
			datesChanged = true
		}
		if err := utils.ValidateDateRange(rental.StartDate, rental.EndDate); err != nil {
			return err
		}
		if in.Notes != nil {
			rental.Notes = *in.Notes
		}

		existing, err := repos.RentalItem.ListByRental(ctx, rental.ID)
		if err != nil {
			return err
		}

		switch {
		case in.Items != nil:
			lines, deposit, err := mergeLines(ctx, repos, p, rental, existing, in.Items)
			if err != nil {
				return err
			}
			rental.Items = lines
			rental.DepositAmount = deposit
		case datesChanged:
			// Same lines, repriced and rechecked for the new period.
			lines, _, err := mergeLines(ctx, repos, p, rental, existing, linesAsInput(existing))
			if err != nil {
				return err
			}
			rental.Items = lines
		default:
			rental.Items = existing
		}
		rental.TotalAmount = sumSubtotals(rental.Items)
		if in.DepositAmount != nil {
			rental.DepositAmount = *in.DepositAmount
		}

		return repos.Rental.Update(ctx, rental)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.UpdateRental", err)
		return nil, err
	}

	logger.ExitMethod("rentalService.UpdateRental", "rentalID", rental.ID, "status", rental.Status, "total", rental.TotalAmount.String())
	return rental, nil
}

// mergeLines reconciles the stored line items of a rental with the requested ones.
// Requested lines carrying the ID of a stored line update that row in place and
// keep its recorded conditions, so they must stay on the same inventory item.
// Lines without an ID are inserted. Stored lines absent from the request are deleted.
func mergeLines(ctx context.Context, repos repository.Repositories, p domain.Principal, rental *domain.Rental, existing []domain.RentalItem, inputs []RentalItemInput) ([]domain.RentalItem, decimal.Decimal, error) {
	byID := make(map[int64]domain.RentalItem, len(existing))
	for _, it := range existing {
		byID[it.ID] = it
	}

	lines, deposit, err := priceLines(ctx, repos, p, inputs, rental.StartDate, rental.EndDate, &rental.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	kept := make(map[int64]struct{}, len(inputs))
	var added []domain.RentalItem
	for i, in := range inputs {
		lines[i].RentalID = rental.ID
		if in.ID == nil {
			continue
		}
		prev, ok := byID[*in.ID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: rental item %d does not belong to rental %d", domain.ErrValidation, *in.ID, rental.ID)
		}
		if _, dup := kept[prev.ID]; dup {
			return nil, decimal.Zero, fmt.Errorf("%w: rental item %d listed twice", domain.ErrValidation, prev.ID)
		}
		if prev.InventoryItemID != lines[i].InventoryItemID {
			return nil, decimal.Zero, fmt.Errorf("%w: rental item %d is for inventory item %d; remove it and add a new line instead",
				domain.ErrValidation, prev.ID, prev.InventoryItemID)
		}
		kept[prev.ID] = struct{}{}
		lines[i].ID = prev.ID
		lines[i].CreatedAt = prev.CreatedAt
		lines[i].ConditionBefore = prev.ConditionBefore
		lines[i].ConditionAfter = prev.ConditionAfter
	}

	var removed []int64
	for _, it := range existing {
		if _, ok := kept[it.ID]; !ok {
			removed = append(removed, it.ID)
		}
	}
	if len(removed) > 0 {
		if err := repos.RentalItem.DeleteByIDs(ctx, rental.ID, removed); err != nil {
			return nil, decimal.Zero, err
		}
	}

	var addedIdx []int
	for i := range lines {
		if lines[i].ID != 0 {
			if err := repos.RentalItem.Update(ctx, &lines[i]); err != nil {
				return nil, decimal.Zero, err
			}
			continue
		}
		added = append(added, lines[i])
		addedIdx = append(addedIdx, i)
	}
	if len(added) > 0 {
		if err := repos.RentalItem.CreateBatch(ctx, added); err != nil {
			return nil, decimal.Zero, err
		}
	}
	for j, i := range addedIdx {
		lines[i].ID = added[j].ID
		lines[i].CreatedAt = added[j].CreatedAt
	}

	logger.Debug("Merged rental items", "rentalID", rental.ID, "kept", len(kept), "added", len(added), "removed", len(removed))
	return lines, deposit, nil
}

// priceLines resolves rates, subtotals and deposits for the requested lines and
// checks that every inventory item has enough free units over [start, end].
// The inventory rows stay locked until the surrounding transaction ends, so
// concurrent bookings of the same item are checked one after the other.
// The returned lines are in input order.
func priceLines(ctx context.Context, repos repository.Repositories, p domain.Principal, inputs []RentalItemInput, start, end time.Time, excludeRentalID *int64) ([]domain.RentalItem, decimal.Decimal, error) {
	items, err := lockItems(ctx, repos, p, inputs)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]domain.RentalItem, 0, len(inputs))
	deposit := decimal.Zero
	requested := make(map[int64]int32)
	var order []*domain.InventoryItem

	for _, in := range inputs {
		item := items[in.InventoryItemID]
		if item.Status == domain.ItemStatusRetired {
			return nil, decimal.Zero, fmt.Errorf("%w: %s is retired", domain.ErrValidation, item.Name)
		}
		if item.MinRentalHours > 0 && end.Sub(start) < time.Duration(item.MinRentalHours)*time.Hour {
			return nil, decimal.Zero, fmt.Errorf("%w: %s must be rented for at least %d hours", domain.ErrValidation, item.Name, item.MinRentalHours)
		}

		rate, ok := item.Pricing.Rate(in.RateType)
		if in.RateAmount != nil {
			rate, ok = *in.RateAmount, true
		}
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: %s has no %s rate", domain.ErrValidation, item.Name, in.RateType)
		}

		subtotal, err := utils.LineSubtotal(rate, in.RateType, in.Quantity, start, end)
		if err != nil {
			return nil, decimal.Zero, err
		}

		lines = append(lines, domain.RentalItem{
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Quantity:        in.Quantity,
			RateType:        in.RateType,
			RateAmount:      rate,
			Subtotal:        subtotal,
			ConditionBefore: item.Condition,
			Notes:           in.Notes,
		})
		deposit = deposit.Add(item.DepositAmount.Mul(decimal.NewFromInt32(in.Quantity)))

		if _, seen := requested[item.ID]; !seen {
			order = append(order, item)
		}
		requested[item.ID] += in.Quantity
	}

	for _, item := range order {
		avail, err := repos.Availability.Check(ctx, item.ID, start, end, excludeRentalID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if avail.AvailableQuantity < requested[item.ID] {
			return nil, decimal.Zero, fmt.Errorf("%w: %s has %d of %d units free, %d requested",
				domain.ErrInsufficientAvailability, item.Name, avail.AvailableQuantity, avail.QuantityTotal, requested[item.ID])
		}
	}

	return lines, deposit, nil
}

// lockItems loads every referenced inventory item FOR UPDATE in ascending ID
// order so two transactions never wait on each other's rows.
func lockItems(ctx context.Context, repos repository.Repositories, p domain.Principal, inputs []RentalItemInput) (map[int64]*domain.InventoryItem, error) {
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.InventoryItemID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	items := make(map[int64]*domain.InventoryItem, len(ids))
	for _, id := range ids {
		item, err := repos.Inventory.GetForUpdate(ctx, p.UserID, id)
		if err != nil {
			return nil, err
		}
		items[id] = item
	}
	return items, nil
}

func linesAsInput(items []domain.RentalItem) []RentalItemInput {
	out := make([]RentalItemInput, len(items))
	for i, it := range items {
		id, rate := it.ID, it.RateAmount
		out[i] = RentalItemInput{
			ID:              &id,
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			RateType:        it.RateType,
			RateAmount:      &rate,
			Notes:           it.Notes,
		}
	}
	return out
}

func sumSubtotals(items []domain.RentalItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// ProcessReturn completes an active or overdue rental. It records the return
// date, the condition of every line item and, when there are additional
// charges, a cash payment for them. All writes share one transaction.
func (s *rentalService) ProcessReturn(ctx context.Context, p domain.Principal, rentalID int64, in ReturnInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ProcessReturn", "userID", p.UserID, "rentalID", rentalID, "items", len(in.Items))

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.AdditionalCharges.IsNegative() {
		return nil, fmt.Errorf("%w: additional charges cannot be negative", domain.ErrValidation)
	}
	returnDate := in.ReturnDate.Time
	if returnDate.IsZero() {
		returnDate = s.now()
	}

	var rental *domain.Rental
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		rental, err = repos.Rental.GetByID(ctx, p.UserID, rentalID)
		if err != nil {
			return err
		}
		if rental.Status != domain.RentalStatusActive && rental.Status != domain.RentalStatusOverdue {
			return fmt.Errorf("%w: cannot return a %s rental", domain.ErrInvalidTransition, rental.Status)
		}

		items, err := repos.RentalItem.ListByRental(ctx, rental.ID)
		if err != nil {
			return err
		}
		returned := make(map[int64]ReturnItemInput, len(in.Items))
		for _, ri := range in.Items {
			returned[ri.RentalItemID] = ri
		}
		for id := range returned {
			if !containsItem(items, id) {
				return fmt.Errorf("%w: rental item %d does not belong to rental %d", domain.ErrValidation, id, rental.ID)
			}
		}

		rental.Status = domain.RentalStatusCompleted
		rental.ReturnDate = &returnDate
		if in.Notes != "" {
			rental.Notes = in.Notes
		}
		if err := repos.Rental.Update(ctx, rental); err != nil {
			return err
		}

		// Lines not reported come back in the condition they went out in.
		for i := range items {
			cond, notes := items[i].ConditionBefore, items[i].Notes
			if ri, ok := returned[items[i].ID]; ok {
				cond = ri.ConditionAfter
				if ri.Notes != "" {
					notes = ri.Notes
				}
			}
			if err := repos.RentalItem.UpdateReturn(ctx, rental.ID, items[i].ID, cond, notes); err != nil {
				return err
			}
			items[i].ConditionAfter = &cond
			items[i].Notes = notes
		}
		rental.Items = items

		if in.AdditionalCharges.IsPositive() {
			payment := &domain.Payment{
				UserID:      p.UserID,
				RentalID:    rental.ID,
				Amount:      in.AdditionalCharges,
				Method:      domain.DefaultPaymentMethod,
				PaymentDate: returnDate,
				Notes:       returnChargesNote,
			}
			if err := repos.Payment.Create(ctx, payment); err != nil {
				return err
			}
			rental.Payments = append(rental.Payments, *payment)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.ProcessReturn", err)
		return nil, err
	}

	logger.ExitMethod("rentalService.ProcessReturn", "rentalID", rental.ID, "charges", in.AdditionalCharges.String())
	return rental, nil
}

func containsItem(items []domain.RentalItem, id int64) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// ChangeStatus moves a rental along the status table. Completion goes through
// ProcessReturn so every line item ends with a recorded condition.
func (s *rentalService) ChangeStatus(ctx context.Context, p domain.Principal, rentalID int64, status domain.RentalStatus) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ChangeStatus", "userID", p.UserID, "rentalID", rentalID, "status", status)

	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown rental status %q", domain.ErrValidation, status)
	}
	if status == domain.RentalStatusCompleted {
		return s.ProcessReturn(ctx, p, rentalID, ReturnInput{})
	}

	rental, err := s.repos.Rental.GetByID(ctx, p.UserID, rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.Status.CanTransitionTo(status) {
		err := fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, rental.Status, status)
		logger.ExitMethodWithError("rentalService.ChangeStatus", err)
		return nil, err
	}
	if rental.Status == status {
		return rental, nil
	}

	rental.Status = status
	if err := s.repos.Rental.Update(ctx, rental); err != nil {
		logger.ExitMethodWithError("rentalService.ChangeStatus", err)
		return nil, err
	}
	logger.ExitMethod("rentalService.ChangeStatus", "rentalID", rental.ID, "status", rental.Status)
	return rental, nil
}

func (s *rentalService) DeleteRental(ctx context.Context, p domain.Principal, rentalID int64) error {
	logger.EnterMethod("rentalService.DeleteRental", "userID", p.UserID, "rentalID", rentalID)
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if err := s.repos.Rental.Delete(ctx, p.UserID, rentalID); err != nil {
		logger.ExitMethodWithError("rentalService.DeleteRental", err)
		return err
	}
	logger.ExitMethod("rentalService.DeleteRental", "rentalID", rentalID)
	return nil
}

func (s *rentalService) GetRental(ctx context.Context, p domain.Principal, rentalID int64) (*domain.Rental, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	rental, err := s.repos.Rental.GetByID(ctx, p.UserID, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Customer, err = s.repos.Customer.GetByID(ctx, p.UserID, rental.CustomerID); err != nil {
		return nil, err
	}
	if rental.Items, err = s.repos.RentalItem.ListByRental(ctx, rental.ID); err != nil {
		return nil, err
	}
	if rental.Payments, err = s.repos.Payment.List(ctx, p.UserID, domain.PaymentFilter{RentalID: &rental.ID}); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, p domain.Principal, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, 0, err
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, 0, fmt.Errorf("%w: unknown rental status %q", domain.ErrValidation, st)
		}
	}
	if filter.SortBy != "" && !filter.SortBy.Valid() {
		return nil, 0, fmt.Errorf("%w: cannot sort by %q", domain.ErrValidation, filter.SortBy)
	}

	rentals, count, err := s.repos.Rental.List(ctx, p.UserID, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := attachItems(ctx, s.repos.RentalItem, rentals); err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func attachItems(ctx context.Context, repo repository.RentalItemRepository, rentals []domain.Rental) error {
	if len(rentals) == 0 {
		return nil
	}
	ids := make([]int64, len(rentals))
	idx := make(map[int64]int, len(rentals))
	for i, r := range rentals {
		ids[i] = r.ID
		idx[r.ID] = i
	}
	items, err := repo.ListByRentals(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if i, ok := idx[it.RentalID]; ok {
			rentals[i].Items = append(rentals[i].Items, it)
		}
	}
	return nil
}
