package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Request public booking submission
type Request struct {
	BusinessID     int64
	ServiceID      int64
	EmployeeID     *int64
	Date           time.Time        // calendar date, time part ignored
	StartTime      types.TimeString // HH:MM
	CustomerName   string
	CustomerEmail  string
	IdempotencyKey string // optional
}

// Response committed booking with denormalized service and employee data
type Response struct {
	Booking  *domain.Booking
	Replayed bool // true when an earlier request with the same idempotency key produced the booking
}

// Policy server-wide booking rules
type Policy struct {
	Location              *time.Location
	Scope                 conflict.Scope
	DefaultStatus         domain.BookingStatus
	Defaults              availability.Defaults
	TransientRetryBackoff time.Duration
}
