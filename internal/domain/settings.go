package domain

import "time"

// BookingSettings per-business booking rules.
// Supports a two-level hierarchy:
// 1. Service specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
// Without a row the server-wide defaults apply.
type BookingSettings struct {
	ID                      int64
	BusinessID              int64
	ServiceID               *int64 // NULL = settings for all services
	SlotStepMinutes         *int   // NULL = step equals the service duration
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = unlimited
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsBusinessWide returns true if the settings apply to every service
func (s *BookingSettings) IsBusinessWide() bool {
	return s.ServiceID == nil
}

// IsServiceSpecific returns true if the settings target one service
func (s *BookingSettings) IsServiceSpecific() bool {
	return s.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far ahead bookings can be made
func (s *BookingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// StepFor slot step for a service of the given duration
func (s *BookingSettings) StepFor(durationMinutes int) time.Duration {
	if s.SlotStepMinutes != nil && *s.SlotStepMinutes > 0 {
		return time.Duration(*s.SlotStepMinutes) * time.Minute
	}
	return time.Duration(durationMinutes) * time.Minute
}
