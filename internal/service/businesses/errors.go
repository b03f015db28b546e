package businesses

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	// ErrBusinessNotFound no business with this id or slug
	ErrBusinessNotFound = fmt.Errorf("businesses: business %w", domain.ErrNotFound)

	// ErrSlugExhausted every slug candidate derived from the name is taken
	ErrSlugExhausted = fmt.Errorf("businesses: no free slug for this name: %w", domain.ErrConflict)

	// ErrInternal internal service error
	ErrInternal = errors.New("businesses: internal error")
)
