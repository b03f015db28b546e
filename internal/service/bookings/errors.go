package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrBookingNotFound no booking with this id in the business
	ErrBookingNotFound = fmt.Errorf("bookings: booking %w", domain.ErrNotFound)

	// ErrInvalidFilter malformed list filter
	ErrInvalidFilter = fmt.Errorf("bookings: filter %w", domain.ErrInvalidInput)

	// ErrInternal storage or rendering failure
	ErrInternal = errors.New("bookings: internal error")
)
