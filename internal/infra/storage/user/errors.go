package user

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrUserNotFound = fmt.Errorf("user.repository: user %w", domain.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("user.repository: email %w", domain.ErrConflict)
	ErrBuildQuery   = errors.New("user.repository: failed to build query")
	ErrExecQuery    = errors.New("user.repository: failed to execute query")
	ErrScanRow      = errors.New("user.repository: failed to scan row")
)
