package bookings

import (
	"context"
	"io"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// BookingRepository admin side of the bookings storage
type BookingRepository interface {
	GetByID(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, businessID, bookingID int64, status domain.BookingStatus) error
	Delete(ctx context.Context, businessID, bookingID int64) error
}

// AccessGuard ownership check for admin operations
type AccessGuard interface {
	Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error)
}

// Exporter renders bookings as a spreadsheet
type Exporter interface {
	WriteBookings(w io.Writer, business *domain.Business, bookings []*domain.Booking) error
}

// Logger printf-style logger
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
