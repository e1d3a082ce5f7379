package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const rentalColumns = `r.id, r.user_id, r.rental_number, r.customer_id, r.start_date, r.end_date, r.return_date, r.status, r.total_amount, r.deposit_amount, r.notes, r.created_at, r.updated_at`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(s rowScanner, rt *domain.Rental, extra ...any) error {
	dest := []any{&rt.ID, &rt.UserID, &rt.RentalNumber, &rt.CustomerID, &rt.StartDate, &rt.EndDate, &rt.ReturnDate, &rt.Status, &rt.TotalAmount, &rt.DepositAmount, &rt.Notes, &rt.CreatedAt, &rt.UpdatedAt}
	return s.Scan(append(dest, extra...)...)
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	logger.EnterMethod("rentalRepository.Create", "rentalNumber", rt.RentalNumber, "customerID", rt.CustomerID)
	query := `INSERT INTO rentals (user_id, rental_number, customer_id, start_date, end_date, return_date, status, total_amount, deposit_amount, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "rentals", "rentalNumber", rt.RentalNumber)
	err := r.db.QueryRowContext(ctx, query, rt.UserID, rt.RentalNumber, rt.CustomerID, rt.StartDate, rt.EndDate, rt.ReturnDate, rt.Status, rt.TotalAmount, rt.DepositAmount, rt.Notes, now).Scan(&rt.ID)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	if err != nil {
		logger.ExitMethodWithError("rentalRepository.Create", err)
		return err
	}
	rt.CreatedAt, rt.UpdatedAt = now, now
	logger.ExitMethod("rentalRepository.Create", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.id = $1 AND r.user_id = $2`
	rt := &domain.Rental{}
	if err := scanRental(r.db.QueryRowContext(ctx, query, id, userID), rt); err != nil {
		return nil, notFound(err, "rental")
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET customer_id=$1, start_date=$2, end_date=$3, return_date=$4, status=$5, total_amount=$6, deposit_amount=$7, notes=$8, updated_at=$9
	          WHERE id=$10 AND user_id=$11`
	now := time.Now().UTC()
	logger.DatabaseCall("UPDATE", "rentals", "rentalID", rt.ID, "status", rt.Status)
	res, err := r.db.ExecContext(ctx, query, rt.CustomerID, rt.StartDate, rt.EndDate, rt.ReturnDate, rt.Status, rt.TotalAmount, rt.DepositAmount, rt.Notes, now, rt.ID, rt.UserID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	rt.UpdatedAt = now
	return requireAffected(res, "rental")
}

// Delete removes the rental header. Line items and payments go with it
// through ON DELETE CASCADE.
func (r *rentalRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	logger.DatabaseCall("DELETE", "rentals", "rentalID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return requireAffected(res, "rental")
}

func (r *rentalRepository) List(ctx context.Context, userID uuid.UUID, f domain.RentalFilter) ([]domain.Rental, int32, error) {
	sql := `SELECT ` + rentalColumns + `, COALESCE(c.name, '')
	        FROM rentals r LEFT JOIN customers c ON c.id = r.customer_id
	        WHERE r.user_id = $1`
	args := []any{userID}
	argIdx := 2

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		sql += fmt.Sprintf(" AND r.status = ANY($%d)", argIdx)
		args = append(args, pq.Array(statuses))
		argIdx++
	}
	if f.CustomerID != nil {
		sql += fmt.Sprintf(" AND r.customer_id = $%d", argIdx)
		args = append(args, *f.CustomerID)
		argIdx++
	}
	// overlap with [From, To]
	if f.To != nil {
		sql += fmt.Sprintf(" AND r.start_date <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}
	if f.From != nil {
		sql += fmt.Sprintf(" AND r.end_date >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.Search != "" {
		sql += fmt.Sprintf(" AND (r.rental_number ILIKE $%d OR c.name ILIKE $%d OR r.notes ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sql + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sortBy := domain.RentalSortCreatedAt
	if f.SortBy.Valid() {
		sortBy = f.SortBy
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	sql += fmt.Sprintf(" ORDER BY r.%s %s, r.id %s", sortBy, dir, dir)

	if limit, offset, ok := pageArgs(f.Page, f.PageSize); ok {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, limit, offset)
	}

	logger.DatabaseCall("SELECT", "rentals", "userID", userID)
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		var customerName string
		if err := scanRental(rows, &rt, &customerName); err != nil {
			return nil, 0, err
		}
		rt.Customer = &domain.Customer{ID: rt.CustomerID, UserID: rt.UserID, Name: customerName}
		rentals = append(rentals, rt)
	}
	return rentals, count, rows.Err()
}

func (r *rentalRepository) NextRentalNumber(ctx context.Context) (string, error) {
	var number string
	logger.DatabaseCall("RPC", "generate_rental_number")
	err := r.db.QueryRowContext(ctx, `SELECT generate_rental_number()`).Scan(&number)
	logger.DatabaseResult("RPC", 1, err, "rentalNumber", number)
	return number, err
}

func (r *rentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `UPDATE rentals r SET status = $1, updated_at = NOW()
	          WHERE r.status = $2 AND r.end_date < $3
	          RETURNING ` + rentalColumns
	logger.DatabaseCall("UPDATE", "rentals", "asOf", asOf)
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusOverdue, domain.RentalStatusActive, asOf)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := scanRental(rows, &rt); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
