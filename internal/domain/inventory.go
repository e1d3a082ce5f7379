package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemCondition string

const (
	ItemConditionNew         ItemCondition = "new"
	ItemConditionGood        ItemCondition = "good"
	ItemConditionFair        ItemCondition = "fair"
	ItemConditionNeedsRepair ItemCondition = "needs_repair"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ItemConditionNew, ItemConditionGood, ItemConditionFair, ItemConditionNeedsRepair:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "available"
	ItemStatusRented      ItemStatus = "rented"
	ItemStatusMaintenance ItemStatus = "maintenance"
	ItemStatusRetired     ItemStatus = "retired"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusRented, ItemStatusMaintenance, ItemStatusRetired:
		return true
	}
	return false
}

type RateType string

const (
	RateTypeHourly  RateType = "hourly"
	RateTypeDaily   RateType = "daily"
	RateTypeWeekly  RateType = "weekly"
	RateTypeMonthly RateType = "monthly"
)

// RateTypes lists the rate units in ascending length.
var RateTypes = []RateType{RateTypeHourly, RateTypeDaily, RateTypeWeekly, RateTypeMonthly}

func (r RateType) Valid() bool {
	switch r {
	case RateTypeHourly, RateTypeDaily, RateTypeWeekly, RateTypeMonthly:
		return true
	}
	return false
}

// Pricing maps a rate unit to its amount. A nil amount means the unit is not offered.
// Stored as a JSONB column.
type Pricing map[RateType]*decimal.Decimal

// Rate returns the amount for the given unit, or false when the unit is not priced.
func (p Pricing) Rate(rt RateType) (decimal.Decimal, bool) {
	amount, ok := p[rt]
	if !ok || amount == nil {
		return decimal.Zero, false
	}
	return *amount, true
}

// Validate requires at least one priced unit and every present amount to be positive.
func (p Pricing) Validate() error {
	priced := 0
	for rt, amount := range p {
		if !rt.Valid() {
			return fmt.Errorf("%w: unknown rate type %q", ErrValidation, rt)
		}
		if amount == nil {
			continue
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s rate must be positive", ErrValidation, rt)
		}
		priced++
	}
	if priced == 0 {
		return fmt.Errorf("%w: at least one rate must be set", ErrValidation)
	}
	return nil
}

func (p Pricing) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *Pricing) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = Pricing{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Pricing", src)
	}
	out := Pricing{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to decode pricing: %w", err)
	}
	*p = out
	return nil
}

type Category struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type InventoryItem struct {
	ID             int64           `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	CategoryID     *int64          `json:"category_id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	SKU            string          `json:"sku"`
	QuantityTotal  int32           `json:"quantity_total"`
	Condition      ItemCondition   `json:"condition"`
	Pricing        Pricing         `json:"pricing"`
	DepositAmount  decimal.Decimal `json:"deposit_amount"`
	MinRentalHours int32           `json:"min_rental_hours"`
	Status         ItemStatus      `json:"status"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// InventoryFilter narrows inventory listings. Zero values are ignored.
type InventoryFilter struct {
	CategoryID *int64
	Statuses   []ItemStatus
	Condition  ItemCondition
	Search     string
	Page       int32
	PageSize   int32
}

// Availability is the result of an availability check for one item over a date range.
type Availability struct {
	ItemID            int64 `json:"item_id"`
	QuantityTotal     int32 `json:"quantity_total"`
	BookedQuantity    int32 `json:"booked_quantity"`
	AvailableQuantity int32 `json:"available_quantity"`
}
