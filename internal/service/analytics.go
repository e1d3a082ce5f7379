package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// Statuses in display order for RentalsByStatus.
var reportStatuses = []domain.RentalStatus{
	domain.RentalStatusDraft,
	domain.RentalStatusUpcoming,
	domain.RentalStatusActive,
	domain.RentalStatusOverdue,
	domain.RentalStatusCompleted,
	domain.RentalStatusCancelled,
}

type analyticsService struct {
	repos repository.Repositories
}

// NewAnalyticsService builds reports by fetching rows and aggregating them in memory.
func NewAnalyticsService(repos repository.Repositories) AnalyticsService {
	return &analyticsService{repos: repos}
}

func checkRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: report range requires both from and to", domain.ErrValidation)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: to must be >= from", domain.ErrValidation)
	}
	return nil
}

// rentalsInRange returns every rental overlapping [from, to], skipping the given statuses.
func (s *analyticsService) rentalsInRange(ctx context.Context, p domain.Principal, from, to time.Time, skip ...domain.RentalStatus) ([]domain.Rental, error) {
	rentals, _, err := s.repos.Rental.List(ctx, p.UserID, domain.RentalFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	if len(skip) == 0 {
		return rentals, nil
	}
	out := make([]domain.Rental, 0, len(rentals))
	for _, r := range rentals {
		keep := true
		for _, st := range skip {
			if r.Status == st {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *analyticsService) Dashboard(ctx context.Context, p domain.Principal, from, to time.Time) (*domain.DashboardStats, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{From: from, To: to, TotalRevenue: decimal.Zero, UtilizationPercent: decimal.Zero}

	payments, err := s.repos.Payment.List(ctx, p.UserID, domain.PaymentFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	for _, pay := range payments {
		stats.TotalRevenue = stats.TotalRevenue.Add(pay.Amount)
	}

	rentals, err := s.rentalsInRange(ctx, p, from, to, domain.RentalStatusCancelled)
	if err != nil {
		return nil, err
	}
	stats.RentalCount = len(rentals)

	out, _, err := s.repos.Rental.List(ctx, p.UserID, domain.RentalFilter{
		Statuses: []domain.RentalStatus{domain.RentalStatusActive, domain.RentalStatusOverdue},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(out))
	for _, r := range out {
		if r.Status == domain.RentalStatusOverdue {
			stats.OverdueRentals++
		} else {
			stats.ActiveRentals++
		}
		ids = append(ids, r.ID)
	}
	items, err := s.repos.RentalItem.ListByRentals(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		stats.UnitsOut += it.Quantity
	}

	_, stats.TotalCustomers, err = s.repos.Customer.List(ctx, p.UserID, domain.CustomerFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	inventory, _, err := s.repos.Inventory.List(ctx, p.UserID, domain.InventoryFilter{
		Statuses: []domain.ItemStatus{domain.ItemStatusAvailable, domain.ItemStatusRented, domain.ItemStatusMaintenance},
	})
	if err != nil {
		return nil, err
	}
	for _, it := range inventory {
		stats.InventoryUnits += it.QuantityTotal
	}
	if stats.InventoryUnits > 0 {
		stats.UtilizationPercent = decimal.NewFromInt32(stats.UnitsOut).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt32(stats.InventoryUnits)).
			Round(1)
	}

	return stats, nil
}

// RevenueByDate groups payments by UTC calendar day. Days without payments are omitted.
func (s *analyticsService) RevenueByDate(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.RevenuePoint, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	payments, err := s.repos.Payment.List(ctx, p.UserID, domain.PaymentFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domain.RevenuePoint)
	for _, pay := range payments {
		day := pay.PaymentDate.UTC().Format("2006-01-02")
		pt, ok := byDay[day]
		if !ok {
			pt = &domain.RevenuePoint{Date: day, Amount: decimal.Zero}
			byDay[day] = pt
		}
		pt.Amount = pt.Amount.Add(pay.Amount)
		pt.Count++
	}

	points := make([]domain.RevenuePoint, 0, len(byDay))
	for _, pt := range byDay {
		points = append(points, *pt)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func (s *analyticsService) RentalsByStatus(ctx context.Context, p domain.Principal, from, to time.Time) ([]domain.StatusCount, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rentals, err := s.rentalsInRange(ctx, p, from, to)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.RentalStatus]int, len(reportStatuses))
	for _, r := range rentals {
		counts[r.Status]++
	}
	out := make([]domain.StatusCount, len(reportStatuses))
	for i, st := range reportStatuses {
		out[i] = domain.StatusCount{Status: st, Count: counts[st]}
	}
	return out, nil
}

// TopItems ranks inventory items by units booked in non-cancelled rentals overlapping the range.
func (s *analyticsService) TopItems(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopItem, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rentals, err := s.rentalsInRange(ctx, p, from, to, domain.RentalStatusCancelled)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rentals))
	for i, r := range rentals {
		ids[i] = r.ID
	}
	items, err := s.repos.RentalItem.ListByRentals(ctx, ids)
	if err != nil {
		return nil, err
	}

	type key struct{ item, rental int64 }
	seen := make(map[key]struct{})
	byItem := make(map[int64]*domain.TopItem)
	for _, it := range items {
		top, ok := byItem[it.InventoryItemID]
		if !ok {
			top = &domain.TopItem{InventoryItemID: it.InventoryItemID, Name: it.ItemName, Revenue: decimal.Zero}
			byItem[it.InventoryItemID] = top
		}
		top.QuantityBooked += it.Quantity
		top.Revenue = top.Revenue.Add(it.Subtotal)
		k := key{it.InventoryItemID, it.RentalID}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			top.RentalCount++
		}
	}

	out := make([]domain.TopItem, 0, len(byItem))
	for _, top := range byItem {
		out = append(out, *top)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantityBooked != out[j].QuantityBooked {
			return out[i].QuantityBooked > out[j].QuantityBooked
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].InventoryItemID < out[j].InventoryItemID
	})
	return truncate(out, limit), nil
}

// TopCustomers ranks customers by the total amount of their non-cancelled rentals overlapping the range.
func (s *analyticsService) TopCustomers(ctx context.Context, p domain.Principal, from, to time.Time, limit int) ([]domain.TopCustomer, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	rentals, err := s.rentalsInRange(ctx, p, from, to, domain.RentalStatusCancelled)
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[int64]*domain.TopCustomer)
	for _, r := range rentals {
		top, ok := byCustomer[r.CustomerID]
		if !ok {
			top = &domain.TopCustomer{CustomerID: r.CustomerID, Revenue: decimal.Zero}
			if r.Customer != nil {
				top.Name = r.Customer.Name
			}
			byCustomer[r.CustomerID] = top
		}
		top.RentalCount++
		top.Revenue = top.Revenue.Add(r.TotalAmount)
	}

	out := make([]domain.TopCustomer, 0, len(byCustomer))
	for _, top := range byCustomer {
		out = append(out, *top)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		if out[i].RentalCount != out[j].RentalCount {
			return out[i].RentalCount > out[j].RentalCount
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return truncate(out, limit), nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
