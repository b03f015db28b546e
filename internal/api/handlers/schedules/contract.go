package schedules

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules/models"
)

type ScheduleService interface {
	List(ctx context.Context, actor domain.Actor, businessID int64) ([]models.ScheduleResponse, error)
	Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error)
	Delete(ctx context.Context, actor domain.Actor, businessID, scheduleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
