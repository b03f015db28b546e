package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrServiceNotFound no such service in the business
	ErrServiceNotFound = fmt.Errorf("catalog: service %w", domain.ErrNotFound)

	// ErrServiceInUse the service has bookings that have not ended yet
	ErrServiceInUse = fmt.Errorf("catalog: service has upcoming bookings: %w", domain.ErrConflict)

	// ErrInternal internal service error
	ErrInternal = errors.New("catalog: internal error")
)
