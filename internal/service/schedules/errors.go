package schedules

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrScheduleNotFound = fmt.Errorf("schedules: schedule %w", domain.ErrNotFound)
	ErrInternal         = errors.New("schedules: internal error")
)
