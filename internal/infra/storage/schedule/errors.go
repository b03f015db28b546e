package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrScheduleNotFound = fmt.Errorf("schedule.repository: schedule %w", domain.ErrNotFound)
	ErrBuildQuery       = errors.New("schedule.repository: failed to build query")
	ErrExecQuery        = errors.New("schedule.repository: failed to execute query")
	ErrScanRow          = errors.New("schedule.repository: failed to scan row")
)
