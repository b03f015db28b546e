package page

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrBlockNotFound    = fmt.Errorf("page.repository: block %w", domain.ErrNotFound)
	ErrNotInTransaction = errors.New("page.repository: ReplaceBlocks requires a transaction")
	ErrBuildQuery       = errors.New("page.repository: failed to build query")
	ErrExecQuery        = errors.New("page.repository: failed to execute query")
	ErrScanRow          = errors.New("page.repository: failed to scan row")
)
