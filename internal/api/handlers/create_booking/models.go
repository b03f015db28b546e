package create_booking

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	bookingModels "github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID    int64  `json:"business_id"`
	ServiceID     int64  `json:"service_id"`
	EmployeeID    *int64 `json:"employee_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date"` // "2026-03-02"
	Time          string `json:"time"` // "10:00"
}

// CreateBookingResponse body of 201
type CreateBookingResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// ToUseCaseRequest converts the HTTP request, reporting an unparseable date per field.
// The time string is validated by the use case together with the other fields.
func (r *CreateBookingRequest) ToUseCaseRequest(idempotencyKey string) (*createBooking.Request, error) {
	req := &createBooking.Request{
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		EmployeeID:     r.EmployeeID,
		StartTime:      types.TimeString(strings.TrimSpace(r.Time)),
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}

	if raw := strings.TrimSpace(r.Date); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			v := domain.NewValidationError()
			v.Add("date", "must be a date in YYYY-MM-DD format")
			return nil, v
		}
		req.Date = date
	}

	return req, nil
}

// FromUseCaseResponse converts the committed booking to the HTTP response
func FromUseCaseResponse(resp *createBooking.Response, loc *time.Location) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking: bookingModels.FromDomainBooking(resp.Booking, loc),
	}
}
