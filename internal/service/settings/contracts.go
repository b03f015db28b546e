package settings

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// SettingsRepository booking settings storage
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error)
	Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error)
	Delete(ctx context.Context, businessID int64, serviceID *int64) error
}

// CatalogRepository checks that a service belongs to the business
type CatalogRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
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
