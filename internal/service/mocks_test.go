package service_test

import (
	"context"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCategoryRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Category), args.Error(1)
}

// MockInventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockInventoryRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Copy so callers mutating the result do not leak into later calls.
	item := *args.Get(0).(*domain.InventoryItem)
	return &item, args.Error(1)
}
func (m *MockInventoryRepo) GetForUpdate(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	item := *args.Get(0).(*domain.InventoryItem)
	return &item, args.Error(1)
}
func (m *MockInventoryRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockInventoryRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
func (m *MockInventoryRepo) List(ctx context.Context, userID uuid.UUID, filter domain.InventoryFilter) ([]domain.InventoryItem, int32, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.InventoryItem), args.Get(1).(int32), args.Error(2)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
func (m *MockCustomerRepo) List(ctx context.Context, userID uuid.UUID, filter domain.CustomerFilter) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	r := *args.Get(0).(*domain.Rental)
	return &r, args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, r *domain.Rental) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
func (m *MockRentalRepo) List(ctx context.Context, userID uuid.UUID, filter domain.RentalFilter) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) NextRentalNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockRentalRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockRentalItemRepo
type MockRentalItemRepo struct {
	mock.Mock
}

func (m *MockRentalItemRepo) CreateBatch(ctx context.Context, items []domain.RentalItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
func (m *MockRentalItemRepo) ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalItem, error) {
	args := m.Called(ctx, rentalID)
	items := args.Get(0).([]domain.RentalItem)
	return append([]domain.RentalItem(nil), items...), args.Error(1)
}
func (m *MockRentalItemRepo) ListByRentals(ctx context.Context, rentalIDs []int64) ([]domain.RentalItem, error) {
	args := m.Called(ctx, rentalIDs)
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockRentalItemRepo) Update(ctx context.Context, item *domain.RentalItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockRentalItemRepo) UpdateReturn(ctx context.Context, rentalID, itemID int64, cond domain.ItemCondition, notes string) error {
	args := m.Called(ctx, rentalID, itemID, cond, notes)
	return args.Error(0)
}
func (m *MockRentalItemRepo) DeleteByIDs(ctx context.Context, rentalID int64, ids []int64) error {
	args := m.Called(ctx, rentalID, ids)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
func (m *MockPaymentRepo) List(ctx context.Context, userID uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) SumByRental(ctx context.Context, userID uuid.UUID, rentalID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, rentalID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockAvailabilityRepo
type MockAvailabilityRepo struct {
	mock.Mock
}

func (m *MockAvailabilityRepo) Check(ctx context.Context, itemID int64, start, end time.Time, excludeRentalID *int64) (*domain.Availability, error) {
	args := m.Called(ctx, itemID, start, end, excludeRentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

type mockRepos struct {
	category     *MockCategoryRepo
	inventory    *MockInventoryRepo
	customer     *MockCustomerRepo
	rental       *MockRentalRepo
	rentalItem   *MockRentalItemRepo
	payment      *MockPaymentRepo
	availability *MockAvailabilityRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		category:     new(MockCategoryRepo),
		inventory:    new(MockInventoryRepo),
		customer:     new(MockCustomerRepo),
		rental:       new(MockRentalRepo),
		rentalItem:   new(MockRentalItemRepo),
		payment:      new(MockPaymentRepo),
		availability: new(MockAvailabilityRepo),
	}
}

func (m *mockRepos) Repositories() repository.Repositories {
	return repository.Repositories{
		Category:     m.category,
		Inventory:    m.inventory,
		Customer:     m.customer,
		Rental:       m.rental,
		RentalItem:   m.rentalItem,
		Payment:      m.payment,
		Availability: m.availability,
	}
}

func (m *mockRepos) AssertExpectations(t mock.TestingT) {
	m.category.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.customer.AssertExpectations(t)
	m.rental.AssertExpectations(t)
	m.rentalItem.AssertExpectations(t)
	m.payment.AssertExpectations(t)
	m.availability.AssertExpectations(t)
}

// fakeTx runs the callback against the mock repositories and records the outcome.
type fakeTx struct {
	repos      repository.Repositories
	calls      int
	rolledBack int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	f.calls++
	if err := fn(ctx, f.repos); err != nil {
		f.rolledBack++
		return err
	}
	return nil
}
