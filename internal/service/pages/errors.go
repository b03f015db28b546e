package pages

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrBlockNotFound = fmt.Errorf("pages: block %w", domain.ErrNotFound)
	ErrInternal      = errors.New("pages: internal error")
)
