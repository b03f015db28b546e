package employee

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrEmployeeNotFound = fmt.Errorf("employee.repository: employee %w", domain.ErrNotFound)
	// ErrHasBookings bookings reference the employee; deactivate instead
	ErrHasBookings = fmt.Errorf("employee.repository: employee has bookings %w", domain.ErrConflict)
	ErrBuildQuery  = errors.New("employee.repository: failed to build query")
	ErrExecQuery   = errors.New("employee.repository: failed to execute query")
	ErrScanRow     = errors.New("employee.repository: failed to scan row")
)
