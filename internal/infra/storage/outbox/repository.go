package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const (
	table = "outbox_events"

	// maxErrorLength cap for last_error
	maxErrorLength = 1000
)

// Repository transactional outbox storage
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Add persists an event in the caller's transaction
func (r *Repository) Add(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("event_id", "aggregate_type", "aggregate_id", "event_type", "payload").
		Values(event.EventID, event.AggregateType, event.AggregateID, event.EventType, []byte(event.Payload)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return fmt.Errorf("%w: Add - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// FetchUnpublished locks up to limit pending events that are due, oldest first.
// Rows locked by another relay are skipped.
func (r *Repository) FetchUnpublished(ctx context.Context, limit uint64, maxAttempts int) ([]*domain.OutboxEvent, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "event_id", "aggregate_type", "aggregate_id", "event_type", "payload", "attempts", "created_at",
	).
		From(table).
		Where(squirrel.Eq{"published_at": nil}).
		Where(squirrel.Lt{"attempts": maxAttempts}).
		Where(squirrel.Expr("next_attempt_at <= NOW()")).
		OrderBy("id ASC").
		Limit(limit).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		var (
			e       domain.OutboxEvent
			payload []byte
		)
		if err := rows.Scan(
			&e.ID, &e.EventID, &e.AggregateType, &e.AggregateID, &e.EventType, &payload, &e.Attempts, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: FetchUnpublished - scan row: %w", ErrScanRow, err)
		}
		e.Payload = payload
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - rows error: %w", ErrScanRow, err)
	}
	return events, nil
}

func (r *Repository) MarkPublished(ctx context.Context, id int64) error {
	return r.update(ctx, "MarkPublished", id, map[string]interface{}{
		"published_at": squirrel.Expr("NOW()"),
		"attempts":     squirrel.Expr("attempts + 1"),
		"last_error":   nil,
	})
}

// MarkFailed counts a failed delivery attempt and postpones the next one until retryAt
func (r *Repository) MarkFailed(ctx context.Context, id int64, cause error, retryAt time.Time) error {
	msg := cause.Error()
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	return r.update(ctx, "MarkFailed", id, map[string]interface{}{
		"attempts":        squirrel.Expr("attempts + 1"),
		"last_error":      msg,
		"next_attempt_at": retryAt,
	})
}

func (r *Repository) update(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}
