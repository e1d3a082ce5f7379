package service

import (
	"context"
	"strings"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type customerService struct {
	customerRepo   repository.CustomerRepository
	rentalRepo     repository.RentalRepository
	rentalItemRepo repository.RentalItemRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, rentalRepo repository.RentalRepository, rentalItemRepo repository.RentalItemRepository) CustomerService {
	return &customerService{
		customerRepo:   customerRepo,
		rentalRepo:     rentalRepo,
		rentalItemRepo: rentalItemRepo,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, p domain.Principal, in CustomerInput) (*domain.Customer, error) {
	logger.EnterMethod("customerService.CreateCustomer", "userID", p.UserID)
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	c := &domain.Customer{UserID: p.UserID}
	if err := applyCustomerInput(c, in); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		logger.ExitMethodWithError("customerService.CreateCustomer", err)
		return nil, err
	}
	logger.ExitMethod("customerService.CreateCustomer", "customerID", c.ID)
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, p domain.Principal, customerID int64) (*domain.Customer, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.customerRepo.GetByID(ctx, p.UserID, customerID)
}

func (s *customerService) UpdateCustomer(ctx context.Context, p domain.Principal, customerID int64, in CustomerInput) (*domain.Customer, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	c, err := s.customerRepo.GetByID(ctx, p.UserID, customerID)
	if err != nil {
		return nil, err
	}
	if err := applyCustomerInput(c, in); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyCustomerInput(c *domain.Customer, in CustomerInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = in.Address
	c.IDNumber = in.IDNumber
	c.Tags = normalizeTags(in.Tags)
	c.Notes = in.Notes
	return nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DeleteCustomer fails with a foreign key error while rentals reference the customer.
func (s *customerService) DeleteCustomer(ctx context.Context, p domain.Principal, customerID int64) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, p.UserID, customerID)
}

func (s *customerService) ListCustomers(ctx context.Context, p domain.Principal, filter domain.CustomerFilter) ([]domain.Customer, int32, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, 0, err
	}
	filter.Tags = normalizeTags(filter.Tags)
	return s.customerRepo.List(ctx, p.UserID, filter)
}

func (s *customerService) RentalHistory(ctx context.Context, p domain.Principal, customerID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, 0, err
	}
	if _, err := s.customerRepo.GetByID(ctx, p.UserID, customerID); err != nil {
		return nil, 0, err
	}
	rentals, count, err := s.rentalRepo.List(ctx, p.UserID, domain.RentalFilter{
		CustomerID: &customerID,
		SortBy:     domain.RentalSortStartDate,
		SortDesc:   true,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := attachItems(ctx, s.rentalItemRepo, rentals); err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}
