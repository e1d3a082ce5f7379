package repository

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error)
	// GetForUpdate is GetByID holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	List(ctx context.Context, userID uuid.UUID, filter domain.InventoryFilter) ([]domain.InventoryItem, int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	List(ctx context.Context, userID uuid.UUID, filter domain.CustomerFilter) ([]domain.Customer, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	List(ctx context.Context, userID uuid.UUID, filter domain.RentalFilter) ([]domain.Rental, int32, error)

	// NextRentalNumber calls the generate_rental_number() database function.
	NextRentalNumber(ctx context.Context) (string, error)

	// MarkOverdue moves every active rental whose end date is before asOf to overdue
	// and returns the rentals it changed. Runs across all tenants.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type RentalItemRepository interface {
	CreateBatch(ctx context.Context, items []domain.RentalItem) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalItem, error)
	ListByRentals(ctx context.Context, rentalIDs []int64) ([]domain.RentalItem, error)
	Update(ctx context.Context, item *domain.RentalItem) error
	UpdateReturn(ctx context.Context, rentalID, itemID int64, conditionAfter domain.ItemCondition, notes string) error
	DeleteByIDs(ctx context.Context, rentalID int64, ids []int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Payment, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
	List(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error)
	SumByRental(ctx context.Context, userID uuid.UUID, rentalID int64) (decimal.Decimal, error)
}

type AvailabilityRepository interface {
	// Check calls the check_item_availability() database function.
	Check(ctx context.Context, itemID int64, start, end time.Time, excludeRentalID *int64) (*domain.Availability, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Category     CategoryRepository
	Inventory    InventoryRepository
	Customer     CustomerRepository
	Rental       RentalRepository
	RentalItem   RentalItemRepository
	Payment      PaymentRepository
	Availability AvailabilityRepository
}

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
