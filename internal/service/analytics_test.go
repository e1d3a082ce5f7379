package service_test

import (
	"context"
	"testing"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rangeFilter(from, to time.Time) any {
	return mock.MatchedBy(func(f domain.RentalFilter) bool {
		return len(f.Statuses) == 0 && f.From != nil && f.From.Equal(from) && f.To != nil && f.To.Equal(to)
	})
}

func reportRentals() []domain.Rental {
	return []domain.Rental{
		{ID: 1, CustomerID: 7, Customer: &domain.Customer{ID: 7, Name: "Ada"}, Status: domain.RentalStatusCompleted, TotalAmount: dec("300")},
		{ID: 2, CustomerID: 8, Customer: &domain.Customer{ID: 8, Name: "Bo"}, Status: domain.RentalStatusActive, TotalAmount: dec("500")},
		{ID: 3, CustomerID: 7, Customer: &domain.Customer{ID: 7, Name: "Ada"}, Status: domain.RentalStatusActive, TotalAmount: dec("250")},
		{ID: 4, CustomerID: 9, Customer: &domain.Customer{ID: 9, Name: "Cy"}, Status: domain.RentalStatusCancelled, TotalAmount: dec("900")},
	}
}

func TestAnalyticsService_RevenueByDate(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	svc := service.NewAnalyticsService(repos.Repositories())
	repos.payment.On("List", mock.Anything, owner.UserID, mock.Anything).Return([]domain.Payment{
		{Amount: dec("50"), PaymentDate: time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)},
		{Amount: dec("20"), PaymentDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{Amount: dec("30"), PaymentDate: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
	}, nil)

	points, err := svc.RevenueByDate(ctx, owner, jan1, jan5)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.True(t, dec("20").Equal(points[0].Amount))
	assert.Equal(t, "2024-01-02", points[1].Date)
	assert.True(t, dec("80").Equal(points[1].Amount))
	assert.Equal(t, 2, points[1].Count)
}

func TestAnalyticsService_RentalsByStatus(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	svc := service.NewAnalyticsService(repos.Repositories())
	repos.rental.On("List", mock.Anything, owner.UserID, rangeFilter(jan1, jan5)).Return(reportRentals(), int32(4), nil)

	counts, err := svc.RentalsByStatus(ctx, owner, jan1, jan5)

	require.NoError(t, err)
	require.Len(t, counts, 6)
	got := map[domain.RentalStatus]int{}
	for _, c := range counts {
		got[c.Status] = c.Count
	}
	assert.Equal(t, 2, got[domain.RentalStatusActive])
	assert.Equal(t, 1, got[domain.RentalStatusCompleted])
	assert.Equal(t, 1, got[domain.RentalStatusCancelled])
	assert.Equal(t, 0, got[domain.RentalStatusDraft])
}

func TestAnalyticsService_TopItemsAndCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("Top Items", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewAnalyticsService(repos.Repositories())
		repos.rental.On("List", mock.Anything, owner.UserID, rangeFilter(jan1, jan5)).Return(reportRentals(), int32(4), nil)
		repos.rentalItem.On("ListByRentals", mock.Anything, []int64{1, 2, 3}).Return([]domain.RentalItem{
			{RentalID: 1, InventoryItemID: 1, ItemName: "Camera", Quantity: 1, Subtotal: dec("200")},
			{RentalID: 1, InventoryItemID: 2, ItemName: "Tripod", Quantity: 1, Subtotal: dec("100")},
			{RentalID: 2, InventoryItemID: 2, ItemName: "Tripod", Quantity: 3, Subtotal: dec("500")},
			{RentalID: 3, InventoryItemID: 1, ItemName: "Camera", Quantity: 1, Subtotal: dec("250")},
		}, nil)

		top, err := svc.TopItems(ctx, owner, jan1, jan5, 1)

		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "Tripod", top[0].Name)
		assert.Equal(t, int32(4), top[0].QuantityBooked)
		assert.Equal(t, 2, top[0].RentalCount)
		assert.True(t, dec("600").Equal(top[0].Revenue))
	})

	t.Run("Top Customers Skip Cancelled", func(t *testing.T) {
		repos := newMockRepos()
		svc := service.NewAnalyticsService(repos.Repositories())
		repos.rental.On("List", mock.Anything, owner.UserID, rangeFilter(jan1, jan5)).Return(reportRentals(), int32(4), nil)

		top, err := svc.TopCustomers(ctx, owner, jan1, jan5, 0)

		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "Ada", top[0].Name)
		assert.True(t, dec("550").Equal(top[0].Revenue))
		assert.Equal(t, 2, top[0].RentalCount)
		assert.Equal(t, "Bo", top[1].Name)
	})

	t.Run("Rejects Inverted Range", func(t *testing.T) {
		svc := service.NewAnalyticsService(newMockRepos().Repositories())
		_, err := svc.TopCustomers(ctx, owner, jan5, jan1, 5)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	svc := service.NewAnalyticsService(repos.Repositories())

	repos.payment.On("List", mock.Anything, owner.UserID, mock.Anything).Return([]domain.Payment{
		{Amount: dec("100")}, {Amount: dec("25.5")},
	}, nil)
	repos.rental.On("List", mock.Anything, owner.UserID, rangeFilter(jan1, jan5)).Return(reportRentals(), int32(4), nil)
	repos.rental.On("List", mock.Anything, owner.UserID, mock.MatchedBy(func(f domain.RentalFilter) bool {
		return len(f.Statuses) == 2
	})).Return([]domain.Rental{
		{ID: 2, Status: domain.RentalStatusActive},
		{ID: 5, Status: domain.RentalStatusOverdue},
	}, int32(2), nil)
	repos.rentalItem.On("ListByRentals", mock.Anything, []int64{2, 5}).Return([]domain.RentalItem{
		{RentalID: 2, Quantity: 3}, {RentalID: 5, Quantity: 1},
	}, nil)
	repos.customer.On("List", mock.Anything, owner.UserID, domain.CustomerFilter{Page: 1, PageSize: 1}).
		Return([]domain.Customer{{ID: 7}}, int32(12), nil)
	repos.inventory.On("List", mock.Anything, owner.UserID, mock.Anything).Return([]domain.InventoryItem{
		{QuantityTotal: 5}, {QuantityTotal: 3},
	}, int32(2), nil)

	stats, err := svc.Dashboard(ctx, owner, jan1, jan5)

	require.NoError(t, err)
	assert.True(t, dec("125.5").Equal(stats.TotalRevenue))
	assert.Equal(t, 3, stats.RentalCount)
	assert.Equal(t, 1, stats.ActiveRentals)
	assert.Equal(t, 1, stats.OverdueRentals)
	assert.Equal(t, int32(12), stats.TotalCustomers)
	assert.Equal(t, int32(8), stats.InventoryUnits)
	assert.Equal(t, int32(4), stats.UnitsOut)
	assert.True(t, dec("50").Equal(stats.UtilizationPercent), stats.UtilizationPercent.String())
}
