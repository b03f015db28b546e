package update_booking_settings

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings/models"
)

type SettingsService interface {
	Upsert(ctx context.Context, actor domain.Actor, businessID int64, req *models.UpsertSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
