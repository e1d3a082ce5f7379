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

const inventoryColumns = `id, user_id, category_id, name, description, sku, quantity_total, condition, pricing, deposit_amount, min_rental_hours, status, notes, created_at, updated_at`

type inventoryRepository struct {
	db DBTX
}

func NewInventoryRepository(db DBTX) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryItem(s rowScanner, it *domain.InventoryItem) error {
	return s.Scan(&it.ID, &it.UserID, &it.CategoryID, &it.Name, &it.Description, &it.SKU, &it.QuantityTotal, &it.Condition, &it.Pricing, &it.DepositAmount, &it.MinRentalHours, &it.Status, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
}

func (r *inventoryRepository) Create(ctx context.Context, it *domain.InventoryItem) error {
	logger.EnterMethod("inventoryRepository.Create", "name", it.Name)
	query := `INSERT INTO inventory_items (user_id, category_id, name, description, sku, quantity_total, condition, pricing, deposit_amount, min_rental_hours, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", "inventory_items", "name", it.Name)
	err := r.db.QueryRowContext(ctx, query, it.UserID, it.CategoryID, it.Name, it.Description, it.SKU, it.QuantityTotal, it.Condition, it.Pricing, it.DepositAmount, it.MinRentalHours, it.Status, it.Notes, now).Scan(&it.ID)
	logger.DatabaseResult("INSERT", 1, err, "itemID", it.ID)
	if err != nil {
		logger.ExitMethodWithError("inventoryRepository.Create", err)
		return err
	}
	it.CreatedAt, it.UpdatedAt = now, now
	logger.ExitMethod("inventoryRepository.Create", "itemID", it.ID)
	return nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 AND user_id = $2`
	it := &domain.InventoryItem{}
	if err := scanInventoryItem(r.db.QueryRowContext(ctx, query, id, userID), it); err != nil {
		return nil, notFound(err, "inventory item")
	}
	return it, nil
}

func (r *inventoryRepository) GetForUpdate(ctx context.Context, userID uuid.UUID, id int64) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 AND user_id = $2 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "inventory_items", "itemID", id)
	it := &domain.InventoryItem{}
	if err := scanInventoryItem(r.db.QueryRowContext(ctx, query, id, userID), it); err != nil {
		return nil, notFound(err, "inventory item")
	}
	return it, nil
}

func (r *inventoryRepository) Update(ctx context.Context, it *domain.InventoryItem) error {
	query := `UPDATE inventory_items SET category_id=$1, name=$2, description=$3, sku=$4, quantity_total=$5, condition=$6, pricing=$7, deposit_amount=$8, min_rental_hours=$9, status=$10, notes=$11, updated_at=$12
	          WHERE id=$13 AND user_id=$14`
	now := time.Now().UTC()
	logger.DatabaseCall("UPDATE", "inventory_items", "itemID", it.ID)
	res, err := r.db.ExecContext(ctx, query, it.CategoryID, it.Name, it.Description, it.SKU, it.QuantityTotal, it.Condition, it.Pricing, it.DepositAmount, it.MinRentalHours, it.Status, it.Notes, now, it.ID, it.UserID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	it.UpdatedAt = now
	return requireAffected(res, "inventory item")
}

func (r *inventoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	logger.DatabaseCall("DELETE", "inventory_items", "itemID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return requireAffected(res, "inventory item")
}

func (r *inventoryRepository) List(ctx context.Context, userID uuid.UUID, f domain.InventoryFilter) ([]domain.InventoryItem, int32, error) {
	sql := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2

	if f.CategoryID != nil {
		sql += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, *f.CategoryID)
		argIdx++
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		sql += fmt.Sprintf(" AND status = ANY($%d)", argIdx)
		args = append(args, pq.Array(statuses))
		argIdx++
	}
	if f.Condition != "" {
		sql += fmt.Sprintf(" AND condition = $%d", argIdx)
		args = append(args, f.Condition)
		argIdx++
	}
	if f.Search != "" {
		sql += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
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

	logger.DatabaseCall("SELECT", "inventory_items", "userID", userID)
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := scanInventoryItem(rows, &it); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, count, rows.Err()
}
