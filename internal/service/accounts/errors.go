package accounts

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrInvalidCredentials unknown email or wrong password; the two are not distinguished
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")

	ErrUserNotFound = fmt.Errorf("accounts: user %w", domain.ErrNotFound)
	ErrInternal     = errors.New("accounts: internal error")
)
