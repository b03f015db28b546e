package create_booking

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

// BookingRepository booking storage used inside the commit transaction
type BookingRepository interface {
	// LockDay serializes writers of one business day until the transaction ends
	LockDay(ctx context.Context, businessID int64, day time.Time) error
	ListActiveInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error)
}

// IdempotencyRepository remembers Idempotency-Key headers
type IdempotencyRepository interface {
	Get(ctx context.Context, businessID int64, key string) (*domain.IdempotencyRecord, error)
	Save(ctx context.Context, record *domain.IdempotencyRecord) error
}

// OutboxRepository queues notifications in the booking transaction
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// TransactionManager runs the critical section
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics booking outcome counter
type Metrics interface {
	ObserveBooking(outcome string)
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
