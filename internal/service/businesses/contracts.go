package businesses

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BusinessRepository businesses storage
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	List(ctx context.Context, ownerID *int64) ([]*domain.Business, error)
	Update(ctx context.Context, b *domain.Business) (*domain.Business, error)
	Delete(ctx context.Context, id int64) error
}

// AccessGuard checks business ownership
type AccessGuard interface {
	Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error)
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
