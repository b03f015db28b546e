package settings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrSettingsNotFound no settings row on any level of the hierarchy
	ErrSettingsNotFound = fmt.Errorf("settings.repository: booking settings %w", domain.ErrNotFound)

	// ErrBuildQuery failed to build SQL
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery failed to execute SQL
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow failed to scan a result row
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
