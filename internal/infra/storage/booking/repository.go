package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingEngine/pkg/pgerrors"
	"github.com/m04kA/SMC-BookingEngine/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"employee_id",
	"customer_name",
	"customer_email",
	"start_at",
	"end_at",
	"status",
	"service_name",
	"service_duration_minutes",
	"service_price",
	"employee_name",
	"created_at",
	"updated_at",
}

// Repository bookings storage
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking.
// An overlap with another non-cancelled booking of the same business and employee
// is rejected by the bookings_no_overlap constraint and reported as ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"service_id",
			"employee_id",
			"customer_name",
			"customer_email",
			"start_at",
			"end_at",
			"status",
			"service_name",
			"service_duration_minutes",
			"service_price",
			"employee_name",
		).
		Values(
			booking.BusinessID,
			booking.ServiceID,
			booking.EmployeeID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.StartAt,
			booking.EndAt,
			string(booking.Status),
			booking.ServiceName,
			booking.ServiceDurationMinutes,
			booking.ServicePrice,
			booking.EmployeeName,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if pgerrors.IsExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		if pgerrors.IsForeignKeyViolation(err) {
			return nil, ErrReferenceGone
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID loads a booking of a business
func (r *Repository) GetByID(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": bookingID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// LockDay takes a transaction-scoped advisory lock on (business, calendar day).
// Every booking writer of the same day queues behind it until commit or rollback.
func (r *Repository) LockDay(ctx context.Context, businessID int64, day time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("booking-day:%d:%s", businessID, day.Format(domain.DateFormat))
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockDay - advisory lock: %w", ErrExecQuery, err)
	}
	return nil
}

// ListActiveInRange returns non-cancelled bookings whose [start_at, end_at) intersects [from, to).
// Inside a transaction the rows are locked FOR UPDATE.
func (r *Repository) ListActiveInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveInRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List admin listing.
// Without a status filter cancelled bookings are hidden unless IncludeCancelled is set.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := selectBuilder.OrderBy("start_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus sets a new status
func (r *Repository) UpdateStatus(ctx context.Context, businessID, bookingID int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": bookingID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsExclusionViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return requireAffected(result, "UpdateStatus")
}

// Delete removes a booking
func (r *Repository) Delete(ctx context.Context, businessID, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": bookingID, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	return requireAffected(result, "Delete")
}

// HasUpcomingForService reports whether a non-cancelled booking of the service ends after from
func (r *Repository) HasUpcomingForService(ctx context.Context, businessID, serviceID int64, from time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub, args, err := psqlbuilder.Select("1").
		From(table).
		Where(squirrel.Eq{"business_id": businessID, "service_id": serviceID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.Gt{"end_at": from}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasUpcomingForService - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasUpcomingForService - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		serviceID sql.NullInt64
		status    string
	)

	err := row.Scan(
		&booking.ID,
		&booking.BusinessID,
		&serviceID,
		&booking.EmployeeID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.StartAt,
		&booking.EndAt,
		&status,
		&booking.ServiceName,
		&booking.ServiceDurationMinutes,
		&booking.ServicePrice,
		&booking.EmployeeName,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ServiceID = serviceID.Int64
	booking.Status = domain.BookingStatus(status)
	return &booking, nil
}

// scanBookings reads every row of a bookings query
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
