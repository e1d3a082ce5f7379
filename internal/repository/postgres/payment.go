package postgres

import (
	"context"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, user_id, rental_id, amount, method, payment_date, notes, created_at`

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(s rowScanner, p *domain.Payment) error {
	return s.Scan(&p.ID, &p.UserID, &p.RentalID, &p.Amount, &p.Method, &p.PaymentDate, &p.Notes, &p.CreatedAt)
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (user_id, rental_id, amount, method, payment_date, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "payments", "rentalID", p.RentalID, "amount", p.Amount.String())
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.RentalID, p.Amount, p.Method, p.PaymentDate, p.Notes, now).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "paymentID", p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = now
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND user_id = $2`
	p := &domain.Payment{}
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id, userID), p); err != nil {
		return nil, notFound(err, "payment")
	}
	return p, nil
}

func (r *paymentRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	logger.DatabaseCall("DELETE", "payments", "paymentID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return requireAffected(res, "payment")
}

func (r *paymentRepository) List(ctx context.Context, userID uuid.UUID, f domain.PaymentFilter) ([]domain.Payment, error) {
	sql := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2

	if f.RentalID != nil {
		sql += fmt.Sprintf(" AND rental_id = $%d", argIdx)
		args = append(args, *f.RentalID)
		argIdx++
	}
	if f.From != nil {
		sql += fmt.Sprintf(" AND payment_date >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		sql += fmt.Sprintf(" AND payment_date <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}
	if f.Method != "" {
		sql += fmt.Sprintf(" AND method = $%d", argIdx)
		args = append(args, f.Method)
	}
	sql += " ORDER BY payment_date DESC, id DESC"

	logger.DatabaseCall("SELECT", "payments", "userID", userID)
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) SumByRental(ctx context.Context, userID uuid.UUID, rentalID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE rental_id = $1 AND user_id = $2`
	if err := r.db.QueryRowContext(ctx, query, rentalID, userID).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
