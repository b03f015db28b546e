package employees

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/employees/models"
)

type EmployeeService interface {
	ListPublic(ctx context.Context, businessID int64) ([]models.PublicEmployeeResponse, error)
	List(ctx context.Context, actor domain.Actor, businessID int64) ([]models.EmployeeResponse, error)
	Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error)
	Update(ctx context.Context, actor domain.Actor, businessID, employeeID int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error)
	Delete(ctx context.Context, actor domain.Actor, businessID, employeeID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
