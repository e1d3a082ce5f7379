package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/lib/pq"
)

const rentalItemColumns = `ri.id, ri.rental_id, ri.inventory_item_id, COALESCE(i.name, ''), ri.quantity, ri.rate_type, ri.rate_amount, ri.subtotal, ri.condition_before, ri.condition_after, ri.notes, ri.created_at`

type rentalItemRepository struct {
	db DBTX
}

func NewRentalItemRepository(db DBTX) repository.RentalItemRepository {
	return &rentalItemRepository{db: db}
}

// CreateBatch inserts all items in one statement and fills in their IDs
func (r *rentalItemRepository) CreateBatch(ctx context.Context, items []domain.RentalItem) error {
	if len(items) == 0 {
		return nil
	}
	logger.EnterMethod("rentalItemRepository.CreateBatch", "count", len(items))

	const cols = 9
	now := time.Now().UTC()
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*cols)
	for i, it := range items {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args, it.RentalID, it.InventoryItemID, it.Quantity, it.RateType, it.RateAmount, it.Subtotal, it.ConditionBefore, it.Notes, now)
	}
	query := `INSERT INTO rental_items (rental_id, inventory_item_id, quantity, rate_type, rate_amount, subtotal, condition_before, notes, created_at)
	          VALUES ` + strings.Join(placeholders, ", ") + ` RETURNING id`

	logger.DatabaseCall("INSERT", "rental_items", "count", len(items))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		logger.ExitMethodWithError("rentalItemRepository.CreateBatch", err)
		return err
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(items) {
			return fmt.Errorf("insert returned more rows than items")
		}
		if err := rows.Scan(&items[i].ID); err != nil {
			return err
		}
		items[i].CreatedAt = now
		i++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if i != len(items) {
		return fmt.Errorf("inserted %d of %d rental items", i, len(items))
	}
	logger.DatabaseResult("INSERT", int64(i), nil)
	logger.ExitMethod("rentalItemRepository.CreateBatch", "count", i)
	return nil
}

func (r *rentalItemRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalItem, error) {
	query := `SELECT ` + rentalItemColumns + ` FROM rental_items ri
	          LEFT JOIN inventory_items i ON i.id = ri.inventory_item_id
	          WHERE ri.rental_id = $1 ORDER BY ri.id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentalItems(rows)
}

func (r *rentalItemRepository) ListByRentals(ctx context.Context, rentalIDs []int64) ([]domain.RentalItem, error) {
	if len(rentalIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + rentalItemColumns + ` FROM rental_items ri
	          LEFT JOIN inventory_items i ON i.id = ri.inventory_item_id
	          WHERE ri.rental_id = ANY($1) ORDER BY ri.rental_id, ri.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(rentalIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentalItems(rows)
}

func (r *rentalItemRepository) Update(ctx context.Context, it *domain.RentalItem) error {
	query := `UPDATE rental_items SET inventory_item_id=$1, quantity=$2, rate_type=$3, rate_amount=$4, subtotal=$5, notes=$6 WHERE id=$7 AND rental_id=$8`
	logger.DatabaseCall("UPDATE", "rental_items", "itemID", it.ID)
	res, err := r.db.ExecContext(ctx, query, it.InventoryItemID, it.Quantity, it.RateType, it.RateAmount, it.Subtotal, it.Notes, it.ID, it.RentalID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return requireAffected(res, "rental item")
}

func (r *rentalItemRepository) UpdateReturn(ctx context.Context, rentalID, itemID int64, conditionAfter domain.ItemCondition, notes string) error {
	query := `UPDATE rental_items SET condition_after=$1, notes=$2 WHERE id=$3 AND rental_id=$4`
	logger.DatabaseCall("UPDATE", "rental_items", "itemID", itemID, "conditionAfter", conditionAfter)
	res, err := r.db.ExecContext(ctx, query, conditionAfter, notes, itemID, rentalID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return requireAffected(res, "rental item")
}

func (r *rentalItemRepository) DeleteByIDs(ctx context.Context, rentalID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	logger.DatabaseCall("DELETE", "rental_items", "rentalID", rentalID, "count", len(ids))
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_items WHERE rental_id = $1 AND id = ANY($2)`, rentalID, pq.Array(ids))
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, nil)
	return nil
}

func collectRentalItems(rows *sql.Rows) ([]domain.RentalItem, error) {
	var items []domain.RentalItem
	for rows.Next() {
		var it domain.RentalItem
		var after sql.NullString
		if err := rows.Scan(&it.ID, &it.RentalID, &it.InventoryItemID, &it.ItemName, &it.Quantity, &it.RateType, &it.RateAmount, &it.Subtotal, &it.ConditionBefore, &after, &it.Notes, &it.CreatedAt); err != nil {
			return nil, err
		}
		if after.Valid {
			c := domain.ItemCondition(after.String)
			it.ConditionAfter = &c
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
