package outbox

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrEventNotFound    = fmt.Errorf("outbox.repository: event %w", domain.ErrNotFound)
	ErrNotInTransaction = errors.New("outbox.repository: FetchUnpublished requires a transaction")
	ErrBuildQuery       = errors.New("outbox.repository: failed to build query")
	ErrExecQuery        = errors.New("outbox.repository: failed to execute query")
	ErrScanRow          = errors.New("outbox.repository: failed to scan row")
)
