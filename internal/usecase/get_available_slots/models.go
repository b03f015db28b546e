package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
)

// Request free slots of one service on one date
type Request struct {
	BusinessID int64
	ServiceID  int64
	EmployeeID *int64    // nil = general availability
	Date       time.Time // calendar date, time part ignored
}

// Response sorted, unique HH:MM slot starts
type Response struct {
	Date       time.Time
	BusinessID int64
	ServiceID  int64
	EmployeeID *int64
	Slots      []string
}

// Policy server-wide availability rules
type Policy struct {
	Location              *time.Location
	Scope                 conflict.Scope
	Defaults              availability.Defaults
	TransientRetryBackoff time.Duration // pause before the single retry of a transient read failure
}
