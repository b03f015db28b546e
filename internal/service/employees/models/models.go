package models

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// EmployeeRequest body of create and full update.
// IsActive defaults to true when omitted.
type EmployeeRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder int     `json:"display_order"`
}

// EmployeeResponse admin view of an employee
type EmployeeResponse struct {
	ID           int64     `json:"id"`
	BusinessID   int64     `json:"business_id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicEmployeeResponse what the booking page shows; contact data stays private
type PublicEmployeeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromDomainEmployee(e *domain.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:           e.ID,
		BusinessID:   e.BusinessID,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		IsActive:     e.IsActive,
		DisplayOrder: e.DisplayOrder,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDomainEmployeeList(list []*domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *FromDomainEmployee(e))
	}
	return out
}

func FromDomainPublicList(list []*domain.Employee) []PublicEmployeeResponse {
	out := make([]PublicEmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, PublicEmployeeResponse{ID: e.ID, Name: e.Name})
	}
	return out
}

// ApplyTo copies the request onto e
func (r *EmployeeRequest) ApplyTo(e *domain.Employee) {
	e.Name = r.Name
	e.Email = r.Email
	e.Phone = r.Phone
	e.DisplayOrder = r.DisplayOrder
	e.IsActive = r.IsActive == nil || *r.IsActive
}
