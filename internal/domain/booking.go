package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus validates a raw status value
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, raw)
}

// IsActive returns true while the booking occupies its interval
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// CanTransitionTo reports whether an admin may move a booking from s to next.
// Re-applying the current status is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Booking a reserved [StartAt, EndAt) interval of a service
type Booking struct {
	ID            int64
	BusinessID    int64
	ServiceID     int64
	EmployeeID    *int64
	CustomerName  string
	CustomerEmail string
	StartAt       time.Time
	EndAt         time.Time
	Status        BookingStatus

	// Denormalized data for history
	ServiceName            string
	ServiceDurationMinutes int
	ServicePrice           decimal.Decimal
	EmployeeName           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its slot
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// Overlaps half-open interval intersection; touching intervals do not overlap
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartAt, b.EndAt, start, end)
}

// IsGeneral returns true for bookings made without an employee
func (b *Booking) IsGeneral() bool {
	return b.EmployeeID == nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// BookingsFilter admin listing filter
type BookingsFilter struct {
	BusinessID       int64
	EmployeeID       *int64
	From             *time.Time // inclusive lower bound on start_at
	To               *time.Time // exclusive upper bound on start_at
	Status           *BookingStatus
	IncludeCancelled bool
}

// IdempotencyRecord remembers which booking a client-supplied key produced
type IdempotencyRecord struct {
	BusinessID  int64
	Key         string
	RequestHash string
	BookingID   int64
	CreatedAt   time.Time
}
