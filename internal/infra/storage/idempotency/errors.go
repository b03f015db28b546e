package idempotency

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrKeyNotFound = fmt.Errorf("idempotency.repository: key %w", domain.ErrNotFound)
	ErrBuildQuery  = errors.New("idempotency.repository: failed to build query")
	ErrExecQuery   = errors.New("idempotency.repository: failed to execute query")
	ErrScanRow     = errors.New("idempotency.repository: failed to scan row")
)
