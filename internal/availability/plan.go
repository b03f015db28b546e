// Package availability combines working hours, booking rules and existing bookings
// into the set of bookable start times for one day.
package availability

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

var (
	ErrDateInPast          = fmt.Errorf("%w: date is in the past", domain.ErrInvalidInput)
	ErrBeyondHorizon       = fmt.Errorf("%w: date is too far in the future", domain.ErrInvalidInput)
	ErrTooSoon             = fmt.Errorf("%w: start time is earlier than the minimum booking notice", domain.ErrInvalidInput)
	ErrOutsideWorkingHours = fmt.Errorf("%w: start time is outside working hours", domain.ErrInvalidInput)
	ErrNotOnGrid           = fmt.Errorf("%w: start time is not a valid slot", domain.ErrInvalidInput)
	ErrSkippedLocalTime    = fmt.Errorf("%w: start time does not exist on this date", domain.ErrInvalidInput)
)

// Defaults server-wide rules for businesses without a settings row
type Defaults struct {
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int
}

// Effective returns s, or settings built from the defaults when s is nil
func Effective(s *domain.BookingSettings, businessID int64, serviceID *int64, d Defaults) *domain.BookingSettings {
	if s != nil {
		return s
	}
	return &domain.BookingSettings{
		BusinessID:              businessID,
		ServiceID:               serviceID,
		MinBookingNoticeMinutes: d.MinBookingNoticeMinutes,
		AdvanceBookingDays:      d.AdvanceBookingDays,
	}
}

// WorkingIntervals picks the schedule rows that apply on weekday.
// Without an employee the general rows apply. An employee with rows of their own
// works only those hours; an employee without any rows follows the general hours.
func WorkingIntervals(schedules []*domain.Schedule, weekday time.Weekday, employeeID *int64) []calendar.Interval {
	useOwn := false
	if employeeID != nil {
		for _, s := range schedules {
			if s.EmployeeID != nil && *s.EmployeeID == *employeeID {
				useOwn = true
				break
			}
		}
	}

	intervals := make([]calendar.Interval, 0, len(schedules))
	for _, s := range schedules {
		if s.Weekday != weekday {
			continue
		}
		switch {
		case useOwn && (s.EmployeeID == nil || *s.EmployeeID != *employeeID):
			continue
		case !useOwn && s.EmployeeID != nil:
			continue
		}
		iv, err := calendar.NewInterval(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, iv)
	}
	return calendar.Merge(intervals)
}

// Input everything needed to plan one day
type Input struct {
	Date       time.Time
	Now        time.Time
	Location   *time.Location
	Service    *domain.Service
	Settings   *domain.BookingSettings
	Schedules  []*domain.Schedule
	EmployeeID *int64
}

// Plan bookable geometry of one day for one service
type Plan struct {
	Day       time.Time
	Location  *time.Location
	Intervals []calendar.Interval
	Grid      calendar.Grid
	Earliest  time.Time
	duration  time.Duration
}

// NewPlan validates the date against today and the advance horizon
func NewPlan(in Input) (*Plan, error) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	if in.Service == nil || in.Settings == nil {
		return nil, errors.New("availability: service and settings are required")
	}

	day, _ := calendar.DayBounds(in.Date, loc)
	today := calendar.StartOfDay(in.Now, loc)

	if day.Before(today) {
		return nil, ErrDateInPast
	}
	if in.Settings.HasAdvanceBookingLimit() && day.After(today.AddDate(0, 0, in.Settings.AdvanceBookingDays)) {
		return nil, ErrBeyondHorizon
	}

	duration := in.Service.Duration()
	return &Plan{
		Day:       day,
		Location:  loc,
		Intervals: WorkingIntervals(in.Schedules, day.Weekday(), in.EmployeeID),
		Grid: calendar.Grid{
			Duration: duration,
			Step:     in.Settings.StepFor(in.Service.DurationMinutes),
		},
		Earliest: in.Now.Add(time.Duration(in.Settings.MinBookingNoticeMinutes) * time.Minute),
		duration: duration,
	}, nil
}

// Candidates slot starts not earlier than the notice cutoff
func (p *Plan) Candidates() iter.Seq[time.Time] {
	all := calendar.Slots(p.Day, p.Location, p.Intervals, p.Grid)
	return func(yield func(time.Time) bool) {
		for s := range all {
			if s.Before(p.Earliest) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// FreeSlots candidate starts the detector reports free, as sorted unique HH:MM labels
func (p *Plan) FreeSlots(d *conflict.Detector) []string {
	out := make([]string, 0)
	for s := range p.Candidates() {
		if d != nil && !d.IsFree(s, s.Add(p.duration)) {
			continue
		}
		out = append(out, s.In(p.Location).Format(domain.TimeFormat))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// End booking end for a start
func (p *Plan) End(start time.Time) time.Time {
	return start.Add(p.duration)
}

// At anchors an HH:MM minute offset to the planned day
func (p *Plan) At(minute int) (time.Time, error) {
	t, ok := calendar.At(p.Day, p.Location, minute)
	if !ok {
		return time.Time{}, ErrSkippedLocalTime
	}
	return t, nil
}

// CheckStart verifies that start is a slot Candidates would offer
func (p *Plan) CheckStart(start time.Time) error {
	local := start.In(p.Location)
	minute := local.Hour()*60 + local.Minute()

	inside := false
	for _, iv := range p.Intervals {
		if minute >= iv.Start && minute+int(p.duration/time.Minute) <= iv.End {
			inside = true
			break
		}
	}
	if !inside {
		return ErrOutsideWorkingHours
	}
	if !calendar.IsSlotStart(p.Intervals, p.Grid, minute) {
		return ErrNotOnGrid
	}
	if start.Before(p.Earliest) {
		return ErrTooSoon
	}
	return nil
}
