package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BusinessRepository reads businesses
type BusinessRepository interface {
	GetByID(ctx context.Context, businessID int64) (*domain.Business, error)
}

// CatalogRepository reads services
type CatalogRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// EmployeeRepository reads employees
type EmployeeRepository interface {
	GetByID(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error)
}

// ScheduleRepository reads weekly schedules
type ScheduleRepository interface {
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Schedule, error)
}

// SettingsRepository resolves booking settings
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error)
}

// BookingRepository reads bookings
type BookingRepository interface {
	ListActiveInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Booking, error)
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

// RealTimeProvider wall clock
type RealTimeProvider struct{}

// Now returns time.Now()
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
