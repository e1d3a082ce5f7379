package postgres

import (
	"context"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	"github.com/google/uuid"
)

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (user_id, name) VALUES ($1, $2) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "categories", "name", c.Name)
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.Name).Scan(&c.ID, &c.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "categoryID", c.ID)
	return err
}

func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	query := `SELECT id, user_id, name, created_at FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
