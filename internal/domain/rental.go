package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusDraft     RentalStatus = "draft"
	RentalStatusUpcoming  RentalStatus = "upcoming"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusOverdue   RentalStatus = "overdue"
)

var rentalTransitions = map[RentalStatus]map[RentalStatus]struct{}{
	RentalStatusDraft: {
		RentalStatusUpcoming:  {},
		RentalStatusActive:    {},
		RentalStatusCancelled: {},
	},
	RentalStatusUpcoming: {
		RentalStatusActive:    {},
		RentalStatusCancelled: {},
	},
	RentalStatusActive: {
		RentalStatusCompleted: {},
		RentalStatusOverdue:   {},
		RentalStatusCancelled: {},
	},
	RentalStatusOverdue: {
		RentalStatusCompleted: {},
	},
	RentalStatusCompleted: {},
	RentalStatusCancelled: {},
}

func (s RentalStatus) Valid() bool {
	_, ok := rentalTransitions[s]
	return ok
}

// CanTransitionTo reports whether a rental in status s may move to next.
// Writing the current status again is always allowed.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	if s == next {
		return s.Valid()
	}
	allowed, ok := rentalTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

// IsInitial reports whether a rental may be created in status s.
func (s RentalStatus) IsInitial() bool {
	return s == RentalStatusDraft || s == RentalStatusUpcoming || s == RentalStatusActive
}

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

type Rental struct {
	ID            int64           `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	RentalNumber  string          `json:"rental_number"`
	CustomerID    int64           `json:"customer_id"`
	Customer      *Customer       `json:"customer,omitempty"` // Populated by GetRental
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Status        RentalStatus    `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Notes         string          `json:"notes"`
	Items         []RentalItem    `json:"items,omitempty"`
	Payments      []Payment       `json:"payments,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type RentalItem struct {
	ID              int64           `json:"id"`
	RentalID        int64           `json:"rental_id"`
	InventoryItemID int64           `json:"inventory_item_id"`
	ItemName        string          `json:"item_name,omitempty"` // Joined from inventory_items on read
	Quantity        int32           `json:"quantity"`
	RateType        RateType        `json:"rate_type"`
	RateAmount      decimal.Decimal `json:"rate_amount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ConditionBefore ItemCondition   `json:"condition_before"`
	ConditionAfter  *ItemCondition  `json:"condition_after,omitempty"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

type RentalSortField string

const (
	RentalSortStartDate   RentalSortField = "start_date"
	RentalSortEndDate     RentalSortField = "end_date"
	RentalSortCreatedAt   RentalSortField = "created_at"
	RentalSortTotalAmount RentalSortField = "total_amount"
)

func (f RentalSortField) Valid() bool {
	switch f {
	case RentalSortStartDate, RentalSortEndDate, RentalSortCreatedAt, RentalSortTotalAmount:
		return true
	}
	return false
}

// RentalFilter narrows rental listings. Zero values are ignored.
// From/To select rentals whose date range overlaps [From, To].
type RentalFilter struct {
	Statuses   []RentalStatus
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Search     string
	SortBy     RentalSortField
	SortDesc   bool
	Page       int32
	PageSize   int32
}
