package service_test

import (
	"context"
	"testing"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_CreateItem(t *testing.T) {
	ctx := context.Background()
	daily := dec("25")

	t.Run("Defaults", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)
		repos.inventory.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.InventoryItem) bool {
			return it.UserID == owner.UserID && it.Condition == domain.ItemConditionGood && it.Status == domain.ItemStatusAvailable
		})).Return(nil)

		item, err := svc.CreateItem(ctx, owner, service.InventoryItemInput{
			Name:          "  Ladder ",
			QuantityTotal: 2,
			Pricing:       domain.Pricing{domain.RateTypeDaily: &daily},
		})

		require.NoError(t, err)
		assert.Equal(t, "Ladder", item.Name)
		repos.AssertExpectations(t)
	})

	t.Run("Pricing Required", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)

		_, err := svc.CreateItem(ctx, owner, service.InventoryItemInput{Name: "Ladder", Pricing: domain.Pricing{}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Negative Deposit", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)

		_, err := svc.CreateItem(ctx, owner, service.InventoryItemInput{
			Name:          "Ladder",
			Pricing:       domain.Pricing{domain.RateTypeDaily: &daily},
			DepositAmount: dec("-5"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown Condition", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)

		_, err := svc.CreateItem(ctx, owner, service.InventoryItemInput{
			Name:      "Ladder",
			Pricing:   domain.Pricing{domain.RateTypeDaily: &daily},
			Condition: "broken",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestInventoryService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)
		repos.inventory.On("Delete", mock.Anything, owner.UserID, int64(1)).Return(nil)

		retired, err := svc.DeleteItem(ctx, owner, 1)
		require.NoError(t, err)
		assert.False(t, retired)
	})

	t.Run("Retired When Referenced", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)
		repos.inventory.On("Delete", mock.Anything, owner.UserID, int64(1)).
			Return(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
		repos.inventory.On("GetByID", mock.Anything, owner.UserID, int64(1)).Return(camera(), nil)
		repos.inventory.On("Update", mock.Anything, mock.MatchedBy(func(it *domain.InventoryItem) bool {
			return it.ID == 1 && it.Status == domain.ItemStatusRetired
		})).Return(nil)

		retired, err := svc.DeleteItem(ctx, owner, 1)
		require.NoError(t, err)
		assert.True(t, retired)
		repos.AssertExpectations(t)
	})

	t.Run("Other Errors Propagate", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewInventoryService(repos.inventory, repos.category)
		repos.inventory.On("Delete", mock.Anything, owner.UserID, int64(1)).Return(domain.ErrNotFound)

		_, err := svc.DeleteItem(ctx, owner, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repos.inventory.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Categories(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	svc := service.NewInventoryService(repos.inventory, repos.category)

	_, err := svc.CreateCategory(ctx, owner, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	repos.category.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Power Tools" && c.UserID == owner.UserID
	})).Return(nil)
	c, err := svc.CreateCategory(ctx, owner, " Power Tools")
	require.NoError(t, err)
	assert.Equal(t, "Power Tools", c.Name)

	repos.category.On("List", mock.Anything, owner.UserID).Return([]domain.Category{*c}, nil)
	list, err := svc.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
