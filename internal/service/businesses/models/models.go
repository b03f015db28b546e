package models

import (
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// CreateBusinessRequest new business of the caller
type CreateBusinessRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateBusinessRequest only present fields change; the slug never does
type UpdateBusinessRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// BusinessResponse business DTO
type BusinessResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessListResponse list envelope read by the dashboard
type BusinessListResponse struct {
	Data []BusinessResponse `json:"data"`
}

func FromDomainBusiness(b *domain.Business) *BusinessResponse {
	return &BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDomainBusinessList(list []*domain.Business) *BusinessListResponse {
	resp := &BusinessListResponse{Data: make([]BusinessResponse, 0, len(list))}
	for _, b := range list {
		resp.Data = append(resp.Data, *FromDomainBusiness(b))
	}
	return resp
}

// ApplyTo copies present fields onto b
func (r *UpdateBusinessRequest) ApplyTo(b *domain.Business) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Description != nil {
		b.Description = r.Description
	}
}
