package catalog

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// ServiceRepository services storage
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, businessID, serviceID int64) error
	LockByID(ctx context.Context, businessID, serviceID int64) error
}

// TransactionManager runs fn in one transaction
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookingChecker guards deletion of services with upcoming bookings
type BookingChecker interface {
	HasUpcomingForService(ctx context.Context, businessID, serviceID int64, from time.Time) (bool, error)
}

// AccessGuard resolves businesses and checks ownership
type AccessGuard interface {
	Business(ctx context.Context, businessID int64) (*domain.Business, error)
	Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error)
}

// TimeProvider source of the current time
type TimeProvider interface {
	Now() time.Time
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
