package businesses

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/businesses/models"
)

type BusinessService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateBusinessRequest) (*models.BusinessResponse, error)
	List(ctx context.Context, actor domain.Actor) (*models.BusinessListResponse, error)
	Get(ctx context.Context, actor domain.Actor, businessID int64) (*models.BusinessResponse, error)
	GetBySlug(ctx context.Context, slug string) (*models.BusinessResponse, error)
	Update(ctx context.Context, actor domain.Actor, businessID int64, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error)
	Delete(ctx context.Context, actor domain.Actor, businessID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
