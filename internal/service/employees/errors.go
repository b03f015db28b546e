package employees

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrEmployeeNotFound = fmt.Errorf("employees: employee %w", domain.ErrNotFound)

	// ErrEmployeeHasBookings bookings reference the employee, deactivate instead
	ErrEmployeeHasBookings = fmt.Errorf("employees: employee has bookings, deactivate instead: %w", domain.ErrConflict)

	ErrInternal = errors.New("employees: internal error")
)
