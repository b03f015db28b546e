package page

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const table = "page_blocks"

var columns = []string{"id", "business_id", "type", "position", "content", "created_at", "updated_at"}

// Repository landing page blocks storage
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBlocks returns the blocks of a business ordered by position
func (r *Repository) ListBlocks(ctx context.Context, businessID int64) ([]domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.Block, 0)
	for rows.Next() {
		var (
			b         domain.Block
			blockType string
			raw       []byte
		)
		if err := rows.Scan(&b.ID, &b.BusinessID, &blockType, &b.Order, &raw, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - scan row: %w", ErrScanRow, err)
		}
		b.Type = domain.BlockType(blockType)
		if b.Content, err = domain.DecodeBlockContent(b.Type, raw); err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - decode block %d: %w", ErrScanRow, b.ID, err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - rows error: %w", ErrScanRow, err)
	}
	return blocks, nil
}

// ReplaceBlocks makes the stored page equal to blocks.
// Blocks with an ID are updated, blocks without one are inserted, the rest are removed.
func (r *Repository) ReplaceBlocks(ctx context.Context, businessID int64, blocks []domain.Block) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	keep := make([]int64, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		content, err := json.Marshal(b.Content)
		if err != nil {
			return fmt.Errorf("%w: ReplaceBlocks - marshal content: %v", ErrBuildQuery, err)
		}

		if b.ID > 0 {
			query, args, err := psqlbuilder.Update(table).
				Set("type", string(b.Type)).
				Set("position", b.Order).
				Set("content", content).
				Set("updated_at", squirrel.Expr("NOW()")).
				Where(squirrel.Eq{"id": b.ID, "business_id": businessID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: ReplaceBlocks - build update query: %v", ErrBuildQuery, err)
			}
			result, err := executor.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("%w: ReplaceBlocks - execute update: %w", ErrExecQuery, err)
			}
			if affected, err := result.RowsAffected(); err != nil {
				return fmt.Errorf("%w: ReplaceBlocks - rows affected: %w", ErrExecQuery, err)
			} else if affected == 0 {
				return ErrBlockNotFound
			}
			keep = append(keep, b.ID)
			continue
		}

		query, args, err := psqlbuilder.Insert(table).
			Columns("business_id", "type", "position", "content").
			Values(businessID, string(b.Type), b.Order, content).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceBlocks - build insert query: %v", ErrBuildQuery, err)
		}
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
			return fmt.Errorf("%w: ReplaceBlocks - execute insert: %w", ErrExecQuery, err)
		}
		b.BusinessID = businessID
		keep = append(keep, b.ID)
	}

	deleteBuilder := psqlbuilder.Delete(table).Where(squirrel.Eq{"business_id": businessID})
	if len(keep) > 0 {
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"id": keep})
	}
	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBlocks - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBlocks - execute delete: %w", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) DeleteBlock(ctx context.Context, businessID, blockID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": blockID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - execute delete: %w", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBlockNotFound
	}
	return nil
}
