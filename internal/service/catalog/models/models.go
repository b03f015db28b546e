package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// ServiceRequest body of create and full update
type ServiceRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        *string         `json:"image_url"`
}

// ServiceResponse service DTO
type ServiceResponse struct {
	ID              int64           `json:"id"`
	BusinessID      int64           `json:"business_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        *string         `json:"image_url"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func FromDomainService(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		ImageURL:        s.ImageURL,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func FromDomainServiceList(list []*domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *FromDomainService(s))
	}
	return out
}

// ApplyTo copies the request onto s
func (r *ServiceRequest) ApplyTo(s *domain.Service) {
	s.Name = r.Name
	s.Description = r.Description
	s.DurationMinutes = r.DurationMinutes
	s.Price = r.Price
	s.ImageURL = r.ImageURL
}
