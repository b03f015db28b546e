// Package calendar turns weekly working hours into candidate slot start times.
// Everything here is pure: no I/O, no clock.
package calendar

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

const minutesPerDay = 24 * 60

// Interval half-open [Start, End) time-of-day range in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// NewInterval builds an interval from two HH:MM values, end must be after start
func NewInterval(start, end types.TimeString) (Interval, error) {
	start, err := types.NewTimeStringFromString(string(start))
	if err != nil {
		return Interval{}, err
	}
	end, err = types.NewTimeStringFromString(string(end))
	if err != nil {
		return Interval{}, err
	}
	iv := Interval{Start: start.Minutes(), End: end.Minutes()}
	if !iv.Valid() {
		return Interval{}, fmt.Errorf("%w: end %s must be after start %s", types.ErrInvalidTimeString, end, start)
	}
	return iv, nil
}

// Valid reports whether the interval is non-empty and inside one day
func (i Interval) Valid() bool {
	return i.Start >= 0 && i.End <= minutesPerDay && i.Start < i.End
}

// Merge unions overlapping and touching intervals. Invalid intervals are dropped.
// The input slice is not modified.
func Merge(intervals []Interval) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Valid() {
			sorted = append(sorted, iv)
		}
	}
	slices.SortFunc(sorted, func(a, b Interval) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	merged := make([]Interval, 0, len(sorted))
	for _, iv := range sorted {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, iv.End)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Grid slot geometry: service duration and distance between consecutive starts
type Grid struct {
	Duration time.Duration
	Step     time.Duration // zero means Step = Duration
}

func (g Grid) minutes() (duration, step int) {
	duration = int(g.Duration / time.Minute)
	step = int(g.Step / time.Minute)
	if step <= 0 {
		step = duration
	}
	return duration, step
}

// StartMinutes yields slot starts, in minutes since midnight, for the given intervals.
// Every start s satisfies interval.Start <= s and s+duration <= interval.End.
// The sequence is finite, ascending and restartable.
func StartMinutes(intervals []Interval, grid Grid) iter.Seq[int] {
	merged := Merge(intervals)
	duration, step := grid.minutes()

	return func(yield func(int) bool) {
		if duration <= 0 {
			return
		}
		for _, iv := range merged {
			for s := iv.Start; s+duration <= iv.End; s += step {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// At anchors a minute offset to date in loc.
// ok is false when that wall time is skipped on date, as in a daylight saving gap.
func At(date time.Time, loc *time.Location, minute int) (t time.Time, ok bool) {
	y, m, d := date.Date()
	t = time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
	return t, t.Day() == d && t.Hour()*60+t.Minute() == minute
}

// Slots yields slot start instants on date, anchored in loc.
// Starts that do not exist on the local clock are skipped.
func Slots(date time.Time, loc *time.Location, intervals []Interval, grid Grid) iter.Seq[time.Time] {
	starts := StartMinutes(intervals, grid)

	return func(yield func(time.Time) bool) {
		for s := range starts {
			t, ok := At(date, loc, s)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// IsSlotStart reports whether minute is one of the starts StartMinutes would produce
func IsSlotStart(intervals []Interval, grid Grid, minute int) bool {
	duration, step := grid.minutes()
	if duration <= 0 {
		return false
	}
	for _, iv := range Merge(intervals) {
		if minute < iv.Start || minute+duration > iv.End {
			continue
		}
		if (minute-iv.Start)%step == 0 {
			return true
		}
	}
	return false
}

// DayBounds returns [00:00, next day 00:00) of date in loc
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	start, _ := DayBounds(t.In(loc), loc)
	return start
}
