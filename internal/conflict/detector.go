// Package conflict decides whether a candidate interval collides with existing bookings.
package conflict

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// Scope policy for bookings made without an employee
type Scope string

const (
	// ScopeIsolated general bookings compete only with general bookings,
	// employee bookings only with bookings of the same employee
	ScopeIsolated Scope = "isolated"
	// ScopeShared a general booking occupies the whole business
	ScopeShared Scope = "shared"
)

// ParseScope validates a configured scope, empty means isolated
func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case "", ScopeIsolated:
		return ScopeIsolated, nil
	case ScopeShared:
		return ScopeShared, nil
	}
	return "", fmt.Errorf("unknown conflict scope %q", raw)
}

// ResourceKey resource a booking consumes
type ResourceKey struct {
	BusinessID int64
	EmployeeID *int64
}

// Competes reports whether an active booking b holds capacity of key under scope
func (s Scope) Competes(key ResourceKey, b *domain.Booking) bool {
	if b.BusinessID != key.BusinessID || !b.IsActive() {
		return false
	}

	switch {
	case key.EmployeeID == nil && b.EmployeeID == nil:
		return true
	case key.EmployeeID != nil && b.EmployeeID != nil:
		return *key.EmployeeID == *b.EmployeeID
	default:
		return s == ScopeShared
	}
}

type busy struct {
	start time.Time
	end   time.Time
	id    int64
}

// Detector snapshot of the bookings that compete with one resource key
type Detector struct {
	key   ResourceKey
	scope Scope
	busy  []busy
}

// NewDetector keeps only the bookings relevant to key; the caller loads the day's bookings
func NewDetector(key ResourceKey, scope Scope, bookings []*domain.Booking) *Detector {
	d := &Detector{key: key, scope: scope}
	for _, b := range bookings {
		if b == nil || !scope.Competes(key, b) {
			continue
		}
		d.busy = append(d.busy, busy{start: b.StartAt, end: b.EndAt, id: b.ID})
	}
	return d
}

// IsFree reports whether [start, end) intersects no competing booking
func (d *Detector) IsFree(start, end time.Time) bool {
	_, taken := d.firstOverlap(start, end)
	return !taken
}

// ConflictingID returns the id of a booking overlapping [start, end)
func (d *Detector) ConflictingID(start, end time.Time) (int64, bool) {
	return d.firstOverlap(start, end)
}

// Len number of competing bookings
func (d *Detector) Len() int {
	return len(d.busy)
}

func (d *Detector) firstOverlap(start, end time.Time) (int64, bool) {
	for _, b := range d.busy {
		if domain.Overlaps(b.start, b.end, start, end) {
			return b.id, true
		}
	}
	return 0, false
}
