package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrBusinessNotFound = fmt.Errorf("access: business %w", domain.ErrNotFound)
	ErrAccessDenied     = fmt.Errorf("access: %w", domain.ErrForbidden)
	ErrInternal         = errors.New("access: internal error")
)

// BusinessReader loads a business by id
type BusinessReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Guard resolves a business and checks that the actor may administer it
type Guard struct {
	businesses BusinessReader
	logger     Logger
}

func NewGuard(businesses BusinessReader, logger Logger) *Guard {
	return &Guard{businesses: businesses, logger: logger}
}

// Business loads a business without an ownership check
func (g *Guard) Business(ctx context.Context, businessID int64) (*domain.Business, error) {
	business, err := g.businesses.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		g.logger.Error("Guard: failed to load business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: load business: %w", ErrInternal, err)
	}
	return business, nil
}

// Authorize returns the business when actor owns it or is a superadmin
func (g *Guard) Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	business, err := g.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(business) {
		g.logger.Warn("Guard: user=%d may not manage business id=%d", actor.UserID, businessID)
		return nil, ErrAccessDenied
	}
	return business, nil
}
