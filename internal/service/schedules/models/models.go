package models

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// CreateScheduleRequest one working interval; weekday 0 is Sunday
type CreateScheduleRequest struct {
	EmployeeID *int64 `json:"employee_id"`
	Weekday    int    `json:"weekday"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type ScheduleResponse struct {
	ID         int64            `json:"id"`
	BusinessID int64            `json:"business_id"`
	EmployeeID *int64           `json:"employee_id"`
	Weekday    int              `json:"weekday"`
	StartTime  types.TimeString `json:"start_time"`
	EndTime    types.TimeString `json:"end_time"`
	CreatedAt  time.Time        `json:"created_at"`
}

func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		EmployeeID: s.EmployeeID,
		Weekday:    int(s.Weekday),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		CreatedAt:  s.CreatedAt,
	}
}

func FromDomainScheduleList(list []*domain.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *FromDomainSchedule(s))
	}
	return out
}
