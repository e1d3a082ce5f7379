package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	RentalCount        int             `json:"rental_count"`
	ActiveRentals      int             `json:"active_rentals"`
	OverdueRentals     int             `json:"overdue_rentals"`
	TotalCustomers     int32           `json:"total_customers"`
	InventoryUnits     int32           `json:"inventory_units"`
	UnitsOut           int32           `json:"units_out"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
}

type RevenuePoint struct {
	Date   string          `json:"date"` // yyyy-mm-dd
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

type StatusCount struct {
	Status RentalStatus `json:"status"`
	Count  int          `json:"count"`
}

type TopItem struct {
	InventoryItemID int64           `json:"inventory_item_id"`
	Name            string          `json:"name"`
	RentalCount     int             `json:"rental_count"`
	QuantityBooked  int32           `json:"quantity_booked"`
	Revenue         decimal.Decimal `json:"revenue"`
}

type TopCustomer struct {
	CustomerID  int64           `json:"customer_id"`
	Name        string          `json:"name"`
	RentalCount int             `json:"rental_count"`
	Revenue     decimal.Decimal `json:"revenue"`
}
