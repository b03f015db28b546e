package delete_booking_settings

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

type SettingsService interface {
	Delete(ctx context.Context, actor domain.Actor, businessID int64, serviceID *int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
