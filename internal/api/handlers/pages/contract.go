package pages

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages/models"
)

type PageService interface {
	Get(ctx context.Context, businessID int64) (*models.PageResponse, error)
	Save(ctx context.Context, actor domain.Actor, businessID int64, req *models.SavePageRequest) (*models.PageResponse, error)
	DeleteBlock(ctx context.Context, actor domain.Actor, businessID, blockID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
