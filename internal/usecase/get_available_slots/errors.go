package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrBusinessNotFound business does not exist
	ErrBusinessNotFound = fmt.Errorf("get_available_slots: business %w", domain.ErrNotFound)

	// ErrServiceNotFound service does not exist or belongs to another business
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service %w", domain.ErrNotFound)

	// ErrEmployeeNotFound employee does not exist, is inactive or belongs to another business
	ErrEmployeeNotFound = fmt.Errorf("get_available_slots: employee %w", domain.ErrNotFound)

	// ErrInvalidInput malformed request
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrInvalidInput)

	// ErrUnavailable storage timed out, the request can be repeated
	ErrUnavailable = fmt.Errorf("get_available_slots: %w", domain.ErrTransient)

	// ErrInternal unexpected failure
	ErrInternal = errors.New("get_available_slots: internal error")
)
