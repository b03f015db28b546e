package employees

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// EmployeeRepository employees storage
type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	GetByID(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error)
	List(ctx context.Context, businessID int64, onlyActive bool) ([]*domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, businessID, employeeID int64) error
}

// AccessGuard resolves businesses and checks ownership
type AccessGuard interface {
	Business(ctx context.Context, businessID int64) (*domain.Business, error)
	Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error)
}

// Logger logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
