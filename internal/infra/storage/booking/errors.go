package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrBookingNotFound booking does not exist in the business
	ErrBookingNotFound = fmt.Errorf("booking.repository: booking %w", domain.ErrNotFound)

	// ErrSlotTaken the exclusion constraint rejected an overlapping booking
	ErrSlotTaken = fmt.Errorf("booking.repository: overlapping booking exists: %w", domain.ErrConflict)

	// ErrReferenceGone the service or employee was deleted before the insert committed
	ErrReferenceGone = fmt.Errorf("booking.repository: referenced row %w", domain.ErrNotFound)

	// ErrNotInTransaction the day lock only makes sense inside a transaction
	ErrNotInTransaction = errors.New("booking.repository: day lock requires a transaction")

	// ErrBuildQuery failed to build SQL
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery failed to execute SQL
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow failed to scan a result row
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
