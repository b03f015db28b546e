package services

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/catalog/models"
)

type CatalogService interface {
	List(ctx context.Context, businessID int64) ([]models.ServiceResponse, error)
	Get(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error)
	Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.ServiceRequest) (*models.ServiceResponse, error)
	Update(ctx context.Context, actor domain.Actor, businessID, serviceID int64, req *models.ServiceRequest) (*models.ServiceResponse, error)
	Delete(ctx context.Context, actor domain.Actor, businessID, serviceID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
