package service

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
)

type RentalService interface {
	CreateRental(ctx context.Context, p domain.Principal, in CreateRentalInput) (*domain.Rental, error)
	UpdateRental(ctx context.Context, p domain.Principal, rentalID int64, in UpdateRentalInput) (*domain.Rental, error)
	ProcessReturn(ctx context.Context, p domain.Principal, rentalID int64, in ReturnInput) (*domain.Rental, error)
	ChangeStatus(ctx context.Context, p domain.Principal, rentalID int64, status domain.RentalStatus) (*domain.Rental, error)
	DeleteRental(ctx context.Context, p domain.Principal, rentalID int64) error
	GetRental(ctx context.Context, p domain.Principal, rentalID int64) (*domain.Rental, error)
	ListRentals(ctx context.Context, p domain.Principal, filter domain.RentalFilter) ([]domain.Rental, int32, error)
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, p domain.Principal, itemID int64, start, end time.Time, excludeRentalID *int64) (*domain.Availability, error)
}

type InventoryService interface {
	CreateItem(ctx context.Context, p domain.Principal, in InventoryItemInput) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, p domain.Principal, itemID int64) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, p domain.Principal, itemID int64, in InventoryItemInput) (*domain.InventoryItem, error)
	// DeleteItem removes an item, or retires it when rentals still reference it.
	// The returned bool reports whether the item was retired instead of deleted.
	DeleteItem(ctx context.Context, p domain.Principal, itemID int64) (bool, error)
	ListItems(ctx context.Context, p domain.Principal, filter domain.InventoryFilter) ([]domain.InventoryItem, int32, error)

	CreateCategory(ctx context.Context, p domain.Principal, name string) (*domain.Category, error)
	ListCategories(ctx context.Context, p domain.Principal) ([]domain.Category, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, p domain.Principal, in CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, p domain.Principal, customerID int64) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, p domain.Principal, customerID int64, in CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, p domain.Principal, customerID int64) error
	ListCustomers(ctx context.Context, p domain.Principal, filter domain.CustomerFilter) ([]domain.Customer, int32, error)
	RentalHistory(ctx context.Context, p domain.Principal, customerID int64, page, pageSize int32) ([]domain.Rental, int32, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, p domain.Principal, in PaymentInput) (*domain.Payment, error)
	DeletePayment(ctx context.Context, p domain.Principal, paymentID int64) error
	ListPayments(ctx context.Context, p domain.Principal, filter domain.PaymentFilter) ([]domain.Payment, error)
	GetSummary(ctx context.Context, p domain.Principal, rentalID int64) (*domain.PaymentSummary, error)
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, p domain.Principal, from, to time.Time) (*domain.DashboardStats, error)
	RevenueByDate(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.RevenuePoint, error)
	RentalsByStatus(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.StatusCount, error)
	TopItems(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopItem, error)
	TopCustomers(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopCustomer, error)
}

// Notifier delivers customer-facing messages.
type Notifier interface {
	SendOverdueReminder(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error
}
