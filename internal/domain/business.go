package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business tenant owning services, employees, schedules, bookings and a page
type Business struct {
	ID          int64
	OwnerID     int64
	Name        string
	Slug        string // globally unique, immutable after creation
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Service bookable offering of a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           decimal.Decimal
	ImageURL        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration service length as a time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Employee staff member a booking may be assigned to
type Employee struct {
	ID           int64
	BusinessID   int64
	Name         string
	Email        *string
	Phone        *string
	IsActive     bool
	DisplayOrder int // sort key only, may be negative
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleClient     Role = "client"
	RoleOwner      Role = "owner"
	RoleSuperadmin Role = "superadmin"
)

// User account that owns businesses
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor authenticated caller of an admin operation
type Actor struct {
	UserID int64
	Role   Role
}

// CanManage reports whether the actor may administer b
func (a Actor) CanManage(b *Business) bool {
	return a.Role == RoleSuperadmin || (b != nil && b.OwnerID == a.UserID)
}
