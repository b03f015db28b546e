package export_bookings

import (
	"context"
	"io"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

type BookingService interface {
	Export(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest, w io.Writer) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
