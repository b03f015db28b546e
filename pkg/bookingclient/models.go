package bookingclient

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session bearer token of a logged-in owner
type Session struct {
	Token string
}

// User account returned by login
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult token and account
type LoginResult struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	User      User   `json:"user"`
}

// AvailabilityQuery GET /businesses/{id}/availability parameters
type AvailabilityQuery struct {
	BusinessID int64
	ServiceID  int64
	Date       time.Time
	EmployeeID *int64
}

// Availability free slot starts in HH:MM
type Availability struct {
	Date           string   `json:"date"`
	BusinessID     int64    `json:"business_id"`
	ServiceID      int64    `json:"service_id"`
	EmployeeID     *int64   `json:"employee_id"`
	AvailableSlots []string `json:"available_slots"`
}

// CreateBookingRequest POST /bookings body
type CreateBookingRequest struct {
	BusinessID    int64  `json:"business_id"`
	ServiceID     int64  `json:"service_id"`
	EmployeeID    *int64 `json:"employee_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

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

// Booking as returned by the server
type Booking struct {
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

// BookingFilter admin listing filters, all optional
type BookingFilter struct {
	Status           string
	DateFrom         *time.Time
	DateTo           *time.Time
	EmployeeID       *int64
	IncludeCancelled bool
}

type createBookingResponse struct {
	Booking Booking `json:"booking"`
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
