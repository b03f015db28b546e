package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrServiceNotFound  = fmt.Errorf("catalog.repository: service %w", domain.ErrNotFound)
	ErrNotInTransaction = errors.New("catalog.repository: row lock requires a transaction")
	ErrBuildQuery       = errors.New("catalog.repository: failed to build query")
	ErrExecQuery        = errors.New("catalog.repository: failed to execute query")
	ErrScanRow          = errors.New("catalog.repository: failed to scan row")
)
