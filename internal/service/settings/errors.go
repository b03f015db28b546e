package settings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrSettingsNotFound no row on the requested level
	ErrSettingsNotFound = fmt.Errorf("settings: booking settings %w", domain.ErrNotFound)

	// ErrServiceNotFound the service does not belong to the business
	ErrServiceNotFound = fmt.Errorf("settings: service %w", domain.ErrNotFound)

	// ErrInternal internal service error
	ErrInternal = errors.New("settings: internal error")
)
