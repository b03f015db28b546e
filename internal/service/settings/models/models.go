package models

import (
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Settings levels reported in SettingsResponse.Source
const (
	SourceService  = "service"
	SourceBusiness = "business"
	SourceDefault  = "default"
)

// UpsertSettingsRequest replaces the settings of one level.
// Without service_id the business-wide row is written.
type UpsertSettingsRequest struct {
	ServiceID               *int64 `json:"service_id,omitempty"`
	SlotStepMinutes         *int   `json:"slot_step_minutes"`
	MinBookingNoticeMinutes int    `json:"min_booking_notice_minutes"`
	AdvanceBookingDays      int    `json:"advance_booking_days"`
}

// SettingsResponse effective settings after the hierarchy is resolved
type SettingsResponse struct {
	BusinessID              int64  `json:"business_id"`
	ServiceID               *int64 `json:"service_id"`
	SlotStepMinutes         *int   `json:"slot_step_minutes"`
	MinBookingNoticeMinutes int    `json:"min_booking_notice_minutes"`
	AdvanceBookingDays      int    `json:"advance_booking_days"`
	Source                  string `json:"source"`
}

// FromDomainSettings converts effective settings; source names the level they came from
func FromDomainSettings(s *domain.BookingSettings, source string) *SettingsResponse {
	return &SettingsResponse{
		BusinessID:              s.BusinessID,
		ServiceID:               s.ServiceID,
		SlotStepMinutes:         s.SlotStepMinutes,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		Source:                  source,
	}
}

// ToDomainSettings builds the row to store
func (r *UpsertSettingsRequest) ToDomainSettings(businessID int64) *domain.BookingSettings {
	return &domain.BookingSettings{
		BusinessID:              businessID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
	}
}
