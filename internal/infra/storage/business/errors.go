package business

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrBusinessNotFound = fmt.Errorf("business.repository: business %w", domain.ErrNotFound)
	ErrSlugTaken        = fmt.Errorf("business.repository: slug %w", domain.ErrConflict)
	ErrBuildQuery       = errors.New("business.repository: failed to build query")
	ErrExecQuery        = errors.New("business.repository: failed to execute query")
	ErrScanRow          = errors.New("business.repository: failed to scan row")
)
