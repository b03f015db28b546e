package settings

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

const table = "booking_settings"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"slot_step_minutes",
	"min_booking_notice_minutes",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository booking settings storage
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get loads the row of exactly one level: business-wide when serviceID is nil
func (r *Repository) Get(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID})

	// service_id NULL or a concrete value
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BusinessID,
		&s.ServiceID,
		&s.SlotStepMinutes,
		&s.MinBookingNoticeMinutes,
		&s.AdvanceBookingDays,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	return &s, nil
}

// GetWithHierarchy resolves settings by priority:
// 1. The service row (business_id, service_id)
// 2. The business-wide row (business_id, NULL)
//
// Returns ErrSettingsNotFound when neither exists
func (r *Repository) GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error) {
	// 1. Service level
	if serviceID != nil {
		s, err := r.Get(ctx, businessID, serviceID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, fmt.Errorf("GetWithHierarchy - service level: %w", err)
		}
	}

	// 2. Business level
	s, err := r.Get(ctx, businessID, nil)
	if err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("GetWithHierarchy - business level: %w", err)
	}
	return s, err
}

// Upsert creates or replaces the row of the level given by s.ServiceID
func (r *Repository) Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	conflictTarget := "ON CONFLICT (business_id) WHERE service_id IS NULL"
	if s.ServiceID != nil {
		conflictTarget = "ON CONFLICT (business_id, service_id) WHERE service_id IS NOT NULL"
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"service_id",
			"slot_step_minutes",
			"min_booking_notice_minutes",
			"advance_booking_days",
		).
		Values(
			s.BusinessID,
			s.ServiceID,
			s.SlotStepMinutes,
			s.MinBookingNoticeMinutes,
			s.AdvanceBookingDays,
		).
		Suffix(conflictTarget + ` DO UPDATE SET
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// Delete removes the row of one level
func (r *Repository) Delete(ctx context.Context, businessID int64, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"business_id": businessID})

	if serviceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
