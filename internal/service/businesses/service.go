package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	businessRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/business"
	"github.com/m04kA/SMC-BookingEngine/internal/service/businesses/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

// Service manages businesses of their owners
type Service struct {
	businessRepo BusinessRepository
	guard        AccessGuard
	logger       Logger
}

func NewService(businessRepo BusinessRepository, guard AccessGuard, logger Logger) *Service {
	return &Service{
		businessRepo: businessRepo,
		guard:        guard,
		logger:       logger,
	}
}

// Create registers a business owned by the actor.
// The slug is derived from the name; a taken slug gets a numeric suffix.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Create: creating business %q for user=%d", req.Name, actor.UserID)

	// 1. Validate
	req.Name = strings.TrimSpace(req.Name)
	if err := validateBusiness(req.Name, req.Description); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Try slug candidates until one is free
	base := Slugify(req.Name)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		business := &domain.Business{
			OwnerID:     actor.UserID,
			Name:        req.Name,
			Slug:        slugCandidate(base, attempt),
			Description: req.Description,
		}

		created, err := s.businessRepo.Create(ctx, business)
		if errors.Is(err, businessRepo.ErrSlugTaken) {
			continue
		}
		if err != nil {
			s.logger.Error("Create: repository error: %v", err)
			return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Create: successfully created business id=%d slug=%s", created.ID, created.Slug)
		return models.FromDomainBusiness(created), nil
	}

	s.logger.Warn("Create: no free slug for base %q", base)
	return nil, ErrSlugExhausted
}

// List returns the actor's businesses, or every business for a superadmin
func (s *Service) List(ctx context.Context, actor domain.Actor) (*models.BusinessListResponse, error) {
	var ownerID *int64
	if actor.Role != domain.RoleSuperadmin {
		ownerID = ptr.Ptr(actor.UserID)
	}

	list, err := s.businessRepo.List(ctx, ownerID)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBusinessList(list), nil
}

// Get returns one business of the actor
func (s *Service) Get(ctx context.Context, actor domain.Actor, businessID int64) (*models.BusinessResponse, error) {
	business, err := s.guard.Authorize(ctx, actor, businessID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBusiness(business), nil
}

// GetBySlug public lookup used by the booking page
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.BusinessResponse, error) {
	business, err := s.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetBySlug: repository error for slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: GetBySlug - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBusiness(business), nil
}

// Update changes name and description
func (s *Service) Update(ctx context.Context, actor domain.Actor, businessID int64, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Update: updating business id=%d by user=%d", businessID, actor.UserID)

	// 1. Access check
	business, err := s.guard.Authorize(ctx, actor, businessID)
	if err != nil {
		return nil, err
	}

	// 2. Apply and validate
	if req.Name != nil {
		req.Name = ptr.Ptr(strings.TrimSpace(*req.Name))
	}
	req.ApplyTo(business)
	if err := validateBusiness(business.Name, business.Description); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Save
	updated, err := s.businessRepo.Update(ctx, business)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBusiness(updated), nil
}

// Delete removes a business with everything it owns
func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID int64) error {
	s.logger.Info("Delete: deleting business id=%d by user=%d", businessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.businessRepo.Delete(ctx, businessID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrBusinessNotFound
		}
		s.logger.Error("Delete: repository error for business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	return nil
}

func validateBusiness(name string, description *string) error {
	v := domain.NewValidationError()

	n := utf8.RuneCountInString(name)
	if n < domain.MinBusinessNameLength || n > domain.MaxBusinessNameLength {
		v.Add("name", fmt.Sprintf("must be between %d and %d characters",
			domain.MinBusinessNameLength, domain.MaxBusinessNameLength))
	}
	if description != nil && utf8.RuneCountInString(*description) > domain.MaxDescriptionLength {
		v.Add("description", fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength))
	}

	return v.OrNil()
}
