package http_test

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRentalService struct{ mock.Mock }

func (m *MockRentalService) CreateRental(ctx context.Context, p domain.Principal, in service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) UpdateRental(ctx context.Context, p domain.Principal, id int64, in service.UpdateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) ProcessReturn(ctx context.Context, p domain.Principal, id int64, in service.ReturnInput) (*domain.Rental, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) ChangeStatus(ctx context.Context, p domain.Principal, id int64, status domain.RentalStatus) (*domain.Rental, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) DeleteRental(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockRentalService) GetRental(ctx context.Context, p domain.Principal, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) ListRentals(ctx context.Context, p domain.Principal, f domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, p, f)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Get(1).(int32), args.Error(2)
}

type MockAvailabilityService struct{ mock.Mock }

func (m *MockAvailabilityService) CheckAvailability(ctx context.Context, p domain.Principal, itemID int64, start, end time.Time, exclude *int64) (*domain.Availability, error) {
	args := m.Called(ctx, p, itemID, start, end, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

type MockInventoryService struct{ mock.Mock }

func (m *MockInventoryService) CreateItem(ctx context.Context, p domain.Principal, in service.InventoryItemInput) (*domain.InventoryItem, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) GetItem(ctx context.Context, p domain.Principal, id int64) (*domain.InventoryItem, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) UpdateItem(ctx context.Context, p domain.Principal, id int64, in service.InventoryItemInput) (*domain.InventoryItem, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) DeleteItem(ctx context.Context, p domain.Principal, id int64) (bool, error) {
	args := m.Called(ctx, p, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryService) ListItems(ctx context.Context, p domain.Principal, f domain.InventoryFilter) ([]domain.InventoryItem, int32, error) {
	args := m.Called(ctx, p, f)
	items, _ := args.Get(0).([]domain.InventoryItem)
	return items, args.Get(1).(int32), args.Error(2)
}

func (m *MockInventoryService) CreateCategory(ctx context.Context, p domain.Principal, name string) (*domain.Category, error) {
	args := m.Called(ctx, p, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockInventoryService) ListCategories(ctx context.Context, p domain.Principal) ([]domain.Category, error) {
	args := m.Called(ctx, p)
	cats, _ := args.Get(0).([]domain.Category)
	return cats, args.Error(1)
}

type MockCustomerService struct{ mock.Mock }

func (m *MockCustomerService) CreateCustomer(ctx context.Context, p domain.Principal, in service.CustomerInput) (*domain.Customer, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, p domain.Principal, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, p domain.Principal, id int64, in service.CustomerInput) (*domain.Customer, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, p domain.Principal, f domain.CustomerFilter) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, p, f)
	customers, _ := args.Get(0).([]domain.Customer)
	return customers, args.Get(1).(int32), args.Error(2)
}

func (m *MockCustomerService) RentalHistory(ctx context.Context, p domain.Principal, id int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, p, id, page, pageSize)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Get(1).(int32), args.Error(2)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) RecordPayment(ctx context.Context, p domain.Principal, in service.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, p domain.Principal, id int64) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, p domain.Principal, f domain.PaymentFilter) ([]domain.Payment, error) {
	args := m.Called(ctx, p, f)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

func (m *MockPaymentService) GetSummary(ctx context.Context, p domain.Principal, rentalID int64) (*domain.PaymentSummary, error) {
	args := m.Called(ctx, p, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSummary), args.Error(1)
}

type MockAnalyticsService struct{ mock.Mock }

func (m *MockAnalyticsService) Dashboard(ctx context.Context, p domain.Principal, from, to time.Time) (*domain.DashboardStats, error) {
	args := m.Called(ctx, p, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *MockAnalyticsService) RevenueByDate(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.RevenuePoint, error) {
	args := m.Called(ctx, p, from, to)
	points, _ := args.Get(0).([]domain.RevenuePoint)
	return points, args.Error(1)
}

func (m *MockAnalyticsService) RentalsByStatus(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.StatusCount, error) {
	args := m.Called(ctx, p, from, to)
	counts, _ := args.Get(0).([]domain.StatusCount)
	return counts, args.Error(1)
}

func (m *MockAnalyticsService) TopItems(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopItem, error) {
	args := m.Called(ctx, p, from, to, limit)
	items, _ := args.Get(0).([]domain.TopItem)
	return items, args.Error(1)
}

func (m *MockAnalyticsService) TopCustomers(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopCustomer, error) {
	args := m.Called(ctx, p, from, to, limit)
	customers, _ := args.Get(0).([]domain.TopCustomer)
	return customers, args.Error(1)
}
