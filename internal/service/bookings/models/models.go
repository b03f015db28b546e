package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Requests

// ListBookingsRequest admin listing filters, all optional
type ListBookingsRequest struct {
	BusinessID       int64
	EmployeeID       *int64
	DateFrom         *time.Time // inclusive calendar date
	DateTo           *time.Time // inclusive calendar date
	Status           *string
	IncludeCancelled bool
}

// UpdateStatusRequest body of PUT /businesses/{id}/bookings/{bookingId}
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Responses

// ServiceSummary service data captured at booking time
type ServiceSummary struct {
	ID              *int64          `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
}

// EmployeeSummary assigned employee
type EmployeeSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse booking as returned by the API
type BookingResponse struct {
	ID            int64            `json:"id"`
	BusinessID    int64            `json:"business_id"`
	ServiceID     *int64           `json:"service_id"`
	EmployeeID    *int64           `json:"employee_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	StartAt       time.Time        `json:"start_at"`
	EndAt         time.Time        `json:"end_at"`
	Status        string           `json:"status"`
	Service       ServiceSummary   `json:"service"`
	Employee      *EmployeeSummary `json:"employee"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Conversions

// FromDomainBooking converts a booking; times are rendered in loc
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	var serviceID *int64
	if b.ServiceID > 0 {
		id := b.ServiceID
		serviceID = &id
	}

	resp := &BookingResponse{
		ID:            b.ID,
		BusinessID:    b.BusinessID,
		ServiceID:     serviceID,
		EmployeeID:    b.EmployeeID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		StartAt:       b.StartAt.In(loc),
		EndAt:         b.EndAt.In(loc),
		Status:        string(b.Status),
		Service: ServiceSummary{
			ID:              serviceID,
			Name:            b.ServiceName,
			DurationMinutes: b.ServiceDurationMinutes,
			Price:           b.ServicePrice,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.EmployeeID != nil {
		resp.Employee = &EmployeeSummary{ID: *b.EmployeeID}
		if b.EmployeeName != nil {
			resp.Employee.Name = *b.EmployeeName
		}
	}

	return resp
}

// FromDomainBookingList never returns nil so the JSON is always an array
func FromDomainBookingList(bookings []*domain.Booking, loc *time.Location) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if r := FromDomainBooking(b, loc); r != nil {
			resp = append(resp, *r)
		}
	}
	return resp
}
