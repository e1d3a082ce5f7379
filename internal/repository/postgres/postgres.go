package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Category:     NewCategoryRepository(db),
		Inventory:    NewInventoryRepository(db),
		Customer:     NewCustomerRepository(db),
		Rental:       NewRentalRepository(db),
		RentalItem:   NewRentalItemRepository(db),
		Payment:      NewPaymentRepository(db),
		Availability: NewAvailabilityRepository(db),
	}
}

// WithTx runs fn inside a single transaction. Any error from fn, or a panic,
// rolls back every write fn made.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	logger.DatabaseCall("BEGIN", "transaction")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.DatabaseResult("BEGIN", 0, err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr, "cause", err)
		} else {
			logger.DatabaseResult("ROLLBACK", 0, nil, "cause", err.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.DatabaseResult("COMMIT", 0, err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.DatabaseResult("COMMIT", 0, nil)
	return nil
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// requireAffected turns a zero-row write into domain.ErrNotFound
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

// pageArgs returns LIMIT and OFFSET for a 1-based page. A non-positive
// pageSize reads every row; only internal aggregations ask for that.
func pageArgs(page, pageSize int32) (limit, offset int64, ok bool) {
	if pageSize <= 0 {
		return 0, 0, false
	}
	if page < 1 {
		page = 1
	}
	return int64(pageSize), int64(page-1) * int64(pageSize), true
}
