package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrBusinessNotFound business does not exist
	ErrBusinessNotFound = fmt.Errorf("create_booking: business %w", domain.ErrNotFound)

	// ErrServiceNotFound service does not exist or belongs to another business
	ErrServiceNotFound = fmt.Errorf("create_booking: service %w", domain.ErrNotFound)

	// ErrEmployeeNotFound employee does not exist, is inactive or belongs to another business
	ErrEmployeeNotFound = fmt.Errorf("create_booking: employee %w", domain.ErrNotFound)

	// ErrInvalidInput malformed request
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrInvalidInput)

	// ErrSlotTaken another booking holds an overlapping interval
	ErrSlotTaken = fmt.Errorf("create_booking: slot is not available: %w", domain.ErrConflict)

	// ErrIdempotencyKeyReused the key was already used for a different request
	ErrIdempotencyKeyReused = fmt.Errorf("create_booking: idempotency key reused with a different request: %w", domain.ErrConflict)

	// ErrUnavailable storage timed out twice, the client may resubmit
	ErrUnavailable = fmt.Errorf("create_booking: %w", domain.ErrTransient)

	// ErrInternal unexpected failure
	ErrInternal = errors.New("create_booking: internal error")
)

// Outcome labels for the booking metric
const (
	outcomeCommitted = "committed"
	outcomeReplayed  = "replayed"
	outcomeConflict  = "conflict"
	outcomeInvalid   = "invalid"
	outcomeNotFound  = "not_found"
	outcomeTransient = "transient"
	outcomeError     = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeCommitted
	case errors.Is(err, domain.ErrConflict):
		return outcomeConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return outcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrTransient):
		return outcomeTransient
	default:
		return outcomeError
	}
}
