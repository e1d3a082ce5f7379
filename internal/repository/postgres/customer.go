package postgres

import (
	"context"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const customerColumns = `id, user_id, name, email, phone, address, id_number, tags, notes, created_at, updated_at`

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(s rowScanner, c *domain.Customer) error {
	return s.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.IDNumber, pq.Array(&c.Tags), &c.Notes, &c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (user_id, name, email, phone, address, id_number, tags, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	if c.Tags == nil {
		c.Tags = []string{}
	}
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "customers", "name", c.Name)
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Email, c.Phone, c.Address, c.IDNumber, pq.Array(c.Tags), c.Notes, now).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "customerID", c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND user_id = $2`
	c := &domain.Customer{}
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, id, userID), c); err != nil {
		return nil, notFound(err, "customer")
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, email=$2, phone=$3, address=$4, id_number=$5, tags=$6, notes=$7, updated_at=$8 WHERE id=$9 AND user_id=$10`
	if c.Tags == nil {
		c.Tags = []string{}
	}
	now := time.Now().UTC()
	logger.DatabaseCall("UPDATE", "customers", "customerID", c.ID)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.IDNumber, pq.Array(c.Tags), c.Notes, now, c.ID, c.UserID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	c.UpdatedAt = now
	return requireAffected(res, "customer")
}

func (r *customerRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	logger.DatabaseCall("DELETE", "customers", "customerID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return requireAffected(res, "customer")
}

func (r *customerRepository) List(ctx context.Context, userID uuid.UUID, f domain.CustomerFilter) ([]domain.Customer, int32, error) {
	sql := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2

	if f.Search != "" {
		sql += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if len(f.Tags) > 0 {
		sql += fmt.Sprintf(" AND tags && $%d", argIdx)
		args = append(args, pq.Array(f.Tags))
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sql + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sql += " ORDER BY name ASC, id ASC"
	if limit, offset, ok := pageArgs(f.Page, f.PageSize); ok {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, limit, offset)
	}

	logger.DatabaseCall("SELECT", "customers", "userID", userID)
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, count, rows.Err()
}
