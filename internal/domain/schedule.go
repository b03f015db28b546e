package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Schedule weekly working interval of a business, optionally scoped to one employee.
// Several rows per weekday express split shifts.
type Schedule struct {
	ID         int64
	BusinessID int64
	EmployeeID *int64 // nil = general business hours
	Weekday    time.Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	CreatedAt  time.Time
}

// IsGeneral returns true for business-wide hours
func (s *Schedule) IsGeneral() bool {
	return s.EmployeeID == nil
}
