package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/lib/pq"
)

// foreign_key_violation
const pqForeignKeyViolation = pq.ErrorCode("23503")

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	categoryRepo  repository.CategoryRepository
}

func NewInventoryService(inventoryRepo repository.InventoryRepository, categoryRepo repository.CategoryRepository) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		categoryRepo:  categoryRepo,
	}
}

func (s *inventoryService) CreateItem(ctx context.Context, p domain.Principal, in InventoryItemInput) (*domain.InventoryItem, error) {
	logger.EnterMethod("inventoryService.CreateItem", "userID", p.UserID, "name", in.Name)
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	item := &domain.InventoryItem{UserID: p.UserID}
	if err := applyItemInput(item, in); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("inventoryService.CreateItem", err)
		return nil, err
	}
	logger.ExitMethod("inventoryService.CreateItem", "itemID", item.ID)
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, p domain.Principal, itemID int64) (*domain.InventoryItem, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.inventoryRepo.GetByID(ctx, p.UserID, itemID)
}

func (s *inventoryService) UpdateItem(ctx context.Context, p domain.Principal, itemID int64, in InventoryItemInput) (*domain.InventoryItem, error) {
	logger.EnterMethod("inventoryService.UpdateItem", "userID", p.UserID, "itemID", itemID)
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	item, err := s.inventoryRepo.GetByID(ctx, p.UserID, itemID)
	if err != nil {
		return nil, err
	}
	if err := applyItemInput(item, in); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		logger.ExitMethodWithError("inventoryService.UpdateItem", err)
		return nil, err
	}
	logger.ExitMethod("inventoryService.UpdateItem", "itemID", item.ID)
	return item, nil
}

func applyItemInput(item *domain.InventoryItem, in InventoryItemInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if err := in.Pricing.Validate(); err != nil {
		return err
	}
	if in.DepositAmount.IsNegative() {
		return fmt.Errorf("%w: deposit amount cannot be negative", domain.ErrValidation)
	}

	item.CategoryID = in.CategoryID
	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.SKU = in.SKU
	item.QuantityTotal = in.QuantityTotal
	item.Condition = in.Condition
	if item.Condition == "" {
		item.Condition = domain.ItemConditionGood
	}
	item.Pricing = in.Pricing
	item.DepositAmount = in.DepositAmount
	item.MinRentalHours = in.MinRentalHours
	item.Status = in.Status
	if item.Status == "" {
		item.Status = domain.ItemStatusAvailable
	}
	item.Notes = in.Notes
	return nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, p domain.Principal, itemID int64) (bool, error) {
	logger.EnterMethod("inventoryService.DeleteItem", "userID", p.UserID, "itemID", itemID)
	if err := requirePrincipal(p); err != nil {
		return false, err
	}

	err := s.inventoryRepo.Delete(ctx, p.UserID, itemID)
	if err == nil {
		logger.ExitMethod("inventoryService.DeleteItem", "itemID", itemID, "retired", false)
		return false, nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqForeignKeyViolation {
		logger.ExitMethodWithError("inventoryService.DeleteItem", err)
		return false, err
	}

	// Rental history still points at the item.
	item, err := s.inventoryRepo.GetByID(ctx, p.UserID, itemID)
	if err != nil {
		return false, err
	}
	item.Status = domain.ItemStatusRetired
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		logger.ExitMethodWithError("inventoryService.DeleteItem", err)
		return false, err
	}
	logger.ExitMethod("inventoryService.DeleteItem", "itemID", itemID, "retired", true)
	return true, nil
}

func (s *inventoryService) ListItems(ctx context.Context, p domain.Principal, filter domain.InventoryFilter) ([]domain.InventoryItem, int32, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, 0, err
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, 0, fmt.Errorf("%w: unknown item status %q", domain.ErrValidation, st)
		}
	}
	if filter.Condition != "" && !filter.Condition.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown item condition %q", domain.ErrValidation, filter.Condition)
	}
	return s.inventoryRepo.List(ctx, p.UserID, filter)
}

func (s *inventoryService) CreateCategory(ctx context.Context, p domain.Principal, name string) (*domain.Category, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	c := &domain.Category{UserID: p.UserID, Name: name}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *inventoryService) ListCategories(ctx context.Context, p domain.Principal) ([]domain.Category, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	return s.categoryRepo.List(ctx, p.UserID)
}
