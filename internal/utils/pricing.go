package utils

import (
	"fmt"
	"strings"
	"time"

	"rentdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	hour  = time.Hour
	day   = 24 * hour
	week  = 7 * day
	month = 30 * day
)

// dateLayouts are tried in order by ParseDate
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	RateType   domain.RateType `json:"rate_type"`
	RateAmount decimal.Decimal `json:"rate_amount"`
	UnitLength time.Duration   `json:"unit_length"`
	Elapsed    time.Duration   `json:"elapsed"`
	Units      int64           `json:"units"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// ParseDate converts a date or date-time string into a UTC time.
// Accepts yyyy-mm-dd, yyyy-mm-ddThh:mm, yyyy-mm-ddThh:mm:ss and RFC3339.
func ParseDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid date format: empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q, expected yyyy-mm-dd or RFC3339", dateStr)
}

// UnitLength returns the length of one billing unit for the rate type
func UnitLength(rateType domain.RateType) (time.Duration, error) {
	switch rateType {
	case domain.RateTypeHourly:
		return hour, nil
	case domain.RateTypeDaily:
		return day, nil
	case domain.RateTypeWeekly:
		return week, nil
	case domain.RateTypeMonthly:
		return month, nil
	default:
		return 0, fmt.Errorf("%w: unknown rate type %q", domain.ErrValidation, rateType)
	}
}

// RentalUnits returns the number of billed units between start and end.
// Any started unit is billed in full and at least one unit is always billed.
func RentalUnits(rateType domain.RateType, startDate, endDate time.Time) (int64, error) {
	unit, err := UnitLength(rateType)
	if err != nil {
		return 0, err
	}
	elapsed := endDate.Sub(startDate)
	if elapsed <= 0 {
		return 1, nil
	}
	units := int64(elapsed / unit)
	if elapsed%unit > 0 {
		units++
	}
	if units < 1 {
		units = 1
	}
	return units, nil
}

// CalculateRentalCost returns rateAmount multiplied by the billed units for
// the range. The caller rejects end < start before pricing.
func CalculateRentalCost(rateAmount decimal.Decimal, rateType domain.RateType, startDate, endDate time.Time) (decimal.Decimal, error) {
	breakdown, err := CalculateRentalCostWithBreakdown(rateAmount, rateType, startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	return breakdown.TotalCost, nil
}

// CalculateRentalCostWithBreakdown provides detailed breakdown of rental cost
func CalculateRentalCostWithBreakdown(rateAmount decimal.Decimal, rateType domain.RateType, startDate, endDate time.Time) (RentalCostBreakdown, error) {
	if !rateAmount.IsPositive() {
		return RentalCostBreakdown{}, fmt.Errorf("%w: rate amount must be positive", domain.ErrValidation)
	}
	unit, err := UnitLength(rateType)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	units, err := RentalUnits(rateType, startDate, endDate)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	return RentalCostBreakdown{
		RateType:   rateType,
		RateAmount: rateAmount,
		UnitLength: unit,
		Elapsed:    endDate.Sub(startDate),
		Units:      units,
		TotalCost:  rateAmount.Mul(decimal.NewFromInt(units)),
	}, nil
}

// LineSubtotal prices one rental line: the unit cost for the range times quantity.
func LineSubtotal(rateAmount decimal.Decimal, rateType domain.RateType, quantity int32, startDate, endDate time.Time) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	cost, err := CalculateRentalCost(rateAmount, rateType, startDate, endDate)
	if err != nil {
		return decimal.Zero, err
	}
	return cost.Mul(decimal.NewFromInt32(quantity)), nil
}

// ValidateDateRange enforces end >= start
func ValidateDateRange(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end date must be >= start date", domain.ErrValidation)
	}
	return nil
}
