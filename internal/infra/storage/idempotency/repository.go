package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const table = "booking_idempotency_keys"

// Repository Idempotency-Key storage
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get loads a stored key; inside a transaction the row is locked
func (r *Repository) Get(ctx context.Context, businessID int64, key string) (*domain.IdempotencyRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("business_id", "key", "request_hash", "booking_id", "created_at").
		From(table).
		Where(squirrel.Eq{"business_id": businessID, "key": key})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var rec domain.IdempotencyRecord
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.BusinessID, &rec.Key, &rec.RequestHash, &rec.BookingID, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan key: %w", ErrScanRow, err)
	}
	return &rec, nil
}

func (r *Repository) Save(ctx context.Context, rec *domain.IdempotencyRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("business_id", "key", "request_hash", "booking_id").
		Values(rec.BusinessID, rec.Key, rec.RequestHash, rec.BookingID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rec.CreatedAt); err != nil {
		return fmt.Errorf("%w: Save - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}
