package schedules

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// ScheduleRepository weekly schedules storage
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.Schedule) (*domain.Schedule, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Schedule, error)
	Delete(ctx context.Context, businessID, scheduleID int64) error
}

// EmployeeRepository checks that an employee belongs to the business
type EmployeeRepository interface {
	GetByID(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error)
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
