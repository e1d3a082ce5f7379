package utils

import (
	"testing"
	"time"

	"rentdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	t.Run("Date only", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Date and minutes", func(t *testing.T) {
		d, err := ParseDate("2024-01-01T10:00")
		assert.NoError(t, err)
		assert.Equal(t, 10, d.Hour())
	})

	t.Run("RFC3339 is normalized to UTC", func(t *testing.T) {
		d, err := ParseDate("2024-01-01T10:00:00+02:00")
		assert.NoError(t, err)
		assert.Equal(t, 8, d.Hour())
		assert.Equal(t, time.UTC, d.Location())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParseDate("  ")
		assert.Error(t, err)
	})
}

func TestRentalUnits(t *testing.T) {
	tests := []struct {
		name     string
		rateType domain.RateType
		start    string
		end      string
		expected int64
	}{
		{"two whole days", domain.RateTypeDaily, "2024-01-01", "2024-01-03", 2},
		{"partial day rounds up", domain.RateTypeDaily, "2024-01-01T10:00", "2024-01-01T14:00", 1},
		{"one minute over a day", domain.RateTypeDaily, "2024-01-01T00:00", "2024-01-02T00:01", 2},
		{"same instant", domain.RateTypeHourly, "2024-01-01T10:00", "2024-01-01T10:00", 1},
		{"end before start", domain.RateTypeHourly, "2024-01-02", "2024-01-01", 1},
		{"hours", domain.RateTypeHourly, "2024-01-01T10:00", "2024-01-01T13:30", 4},
		{"exact week", domain.RateTypeWeekly, "2024-01-01", "2024-01-08", 1},
		{"eight days is two weeks", domain.RateTypeWeekly, "2024-01-01", "2024-01-09", 2},
		{"thirty days is one month", domain.RateTypeMonthly, "2024-01-01", "2024-01-31", 1},
		{"thirty one days is two months", domain.RateTypeMonthly, "2024-01-01", "2024-02-01", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := RentalUnits(tt.rateType, mustParse(t, tt.start), mustParse(t, tt.end))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, units)
		})
	}
}

func TestCalculateRentalCost(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	t.Run("Two full days", func(t *testing.T) {
		cost, err := CalculateRentalCost(hundred, domain.RateTypeDaily, mustParse(t, "2024-01-01"), mustParse(t, "2024-01-03"))
		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(200).Equal(cost), "got %s", cost)
	})

	t.Run("Partial day rounds up to one", func(t *testing.T) {
		cost, err := CalculateRentalCost(hundred, domain.RateTypeDaily, mustParse(t, "2024-01-01T10:00"), mustParse(t, "2024-01-01T14:00"))
		assert.NoError(t, err)
		assert.True(t, hundred.Equal(cost), "got %s", cost)
	})

	t.Run("Within one unit always costs the rate", func(t *testing.T) {
		start := mustParse(t, "2024-03-10T08:00")
		rate := decimal.RequireFromString("12.75")
		for _, rt := range domain.RateTypes {
			unit, err := UnitLength(rt)
			require.NoError(t, err)
			for _, span := range []time.Duration{0, time.Minute, unit / 2, unit} {
				cost, err := CalculateRentalCost(rate, rt, start, start.Add(span))
				assert.NoError(t, err)
				assert.True(t, rate.Equal(cost), "%s span %s got %s", rt, span, cost)
			}
		}
	})

	t.Run("Never below one unit", func(t *testing.T) {
		rate := decimal.NewFromInt(5)
		start := mustParse(t, "2024-01-01")
		for _, rt := range domain.RateTypes {
			for _, span := range []time.Duration{-time.Hour, 0, 90 * time.Minute, 40 * 24 * time.Hour} {
				cost, err := CalculateRentalCost(rate, rt, start, start.Add(span))
				assert.NoError(t, err)
				assert.True(t, cost.GreaterThanOrEqual(rate))
			}
		}
	})

	t.Run("Unknown rate type", func(t *testing.T) {
		_, err := CalculateRentalCost(hundred, domain.RateType("yearly"), mustParse(t, "2024-01-01"), mustParse(t, "2024-01-03"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Non-positive rate", func(t *testing.T) {
		_, err := CalculateRentalCost(decimal.Zero, domain.RateTypeDaily, mustParse(t, "2024-01-01"), mustParse(t, "2024-01-03"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCalculateRentalCostWithBreakdown(t *testing.T) {
	b, err := CalculateRentalCostWithBreakdown(decimal.NewFromInt(40), domain.RateTypeHourly, mustParse(t, "2024-01-01T09:00"), mustParse(t, "2024-01-01T11:15"))
	assert.NoError(t, err)
	assert.Equal(t, int64(3), b.Units)
	assert.Equal(t, time.Hour, b.UnitLength)
	assert.Equal(t, 135*time.Minute, b.Elapsed)
	assert.True(t, decimal.NewFromInt(120).Equal(b.TotalCost))
}

func TestLineSubtotal(t *testing.T) {
	t.Run("Multiplies by quantity", func(t *testing.T) {
		sub, err := LineSubtotal(decimal.NewFromInt(100), domain.RateTypeDaily, 3, mustParse(t, "2024-01-01"), mustParse(t, "2024-01-03"))
		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(600).Equal(sub))
	})

	t.Run("Zero quantity", func(t *testing.T) {
		_, err := LineSubtotal(decimal.NewFromInt(100), domain.RateTypeDaily, 0, mustParse(t, "2024-01-01"), mustParse(t, "2024-01-03"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestValidateDateRange(t *testing.T) {
	pairs := [][2]string{
		{"2024-01-03", "2024-01-01"},
		{"2024-01-01T10:00", "2024-01-01T09:59"},
		{"2025-01-01", "2024-12-31"},
	}
	for _, p := range pairs {
		err := ValidateDateRange(mustParse(t, p[0]), mustParse(t, p[1]))
		assert.ErrorIs(t, err, domain.ErrValidation, "%s -> %s", p[0], p[1])
		assert.Contains(t, err.Error(), "end date must be >= start date")
	}

	assert.NoError(t, ValidateDateRange(mustParse(t, "2024-01-01"), mustParse(t, "2024-01-01")))
	assert.Error(t, ValidateDateRange(time.Time{}, mustParse(t, "2024-01-01")))
}
