package domain

import (
	"encoding/json"
	"time"
)

// OutboxEvent notification persisted in the same transaction as the state change
type OutboxEvent struct {
	ID            int64
	EventID       string // uuid, used by consumers for de-duplication
	AggregateType string
	AggregateID   int64
	EventType     string
	Payload       json.RawMessage
	Attempts      int
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// BookingConfirmationPayload body of booking.confirmation.requested
type BookingConfirmationPayload struct {
	BookingID     int64     `json:"booking_id"`
	BusinessID    int64     `json:"business_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	EmployeeName  *string   `json:"employee_name,omitempty"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Status        string    `json:"status"`
}

// NewBookingConfirmationPayload builds the payload for a committed booking
func NewBookingConfirmationPayload(b *Booking) BookingConfirmationPayload {
	return BookingConfirmationPayload{
		BookingID:     b.ID,
		BusinessID:    b.BusinessID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		ServiceName:   b.ServiceName,
		EmployeeName:  b.EmployeeName,
		StartAt:       b.StartAt,
		EndAt:         b.EndAt,
		Status:        string(b.Status),
	}
}
