package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings/models"
)

// Service manages per-business booking settings
type Service struct {
	settingsRepo SettingsRepository
	catalogRepo  CatalogRepository
	guard        AccessGuard
	defaults     availability.Defaults
	logger       Logger
}

// NewService creates the booking settings service
func NewService(
	settingsRepo SettingsRepository,
	catalogRepo CatalogRepository,
	guard AccessGuard,
	defaults availability.Defaults,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		guard:        guard,
		defaults:     defaults,
		logger:       logger,
	}
}

// Get returns the settings that availability and booking would apply.
// Priority: service row > business row > server defaults.
func (s *Service) Get(ctx context.Context, actor domain.Actor, businessID int64, serviceID *int64) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching booking settings for business=%d, service=%v", businessID, serviceID)

	// 1. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 2. The service must belong to the business
	if serviceID != nil {
		if err := s.checkService(ctx, businessID, *serviceID); err != nil {
			return nil, err
		}
	}

	// 3. Resolve the hierarchy
	found, err := s.settingsRepo.GetWithHierarchy(ctx, businessID, serviceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	source := SourceOf(found)
	effective := availability.Effective(found, businessID, serviceID, s.defaults)
	return models.FromDomainSettings(effective, source), nil
}

// Upsert validates and stores the settings of one level
func (s *Service) Upsert(ctx context.Context, actor domain.Actor, businessID int64, req *models.UpsertSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Upsert: saving booking settings for business=%d, service=%v by user=%d",
		businessID, req.ServiceID, actor.UserID)

	// 1. Validate the values
	if err := validateSettings(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 3. The service must belong to the business
	if req.ServiceID != nil {
		if err := s.checkService(ctx, businessID, *req.ServiceID); err != nil {
			return nil, err
		}
	}

	// 4. Save
	saved, err := s.settingsRepo.Upsert(ctx, req.ToDomainSettings(businessID))
	if err != nil {
		s.logger.Error("Upsert: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved booking settings id=%d", saved.ID)
	return models.FromDomainSettings(saved, SourceOf(saved)), nil
}

// Delete removes the row of one level so the next level applies again
func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID int64, serviceID *int64) error {
	s.logger.Info("Delete: removing booking settings for business=%d, service=%v by user=%d",
		businessID, serviceID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.settingsRepo.Delete(ctx, businessID, serviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrSettingsNotFound
		}
		s.logger.Error("Delete: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	return nil
}

// SourceOf names the level a stored row belongs to
func SourceOf(found *domain.BookingSettings) string {
	switch {
	case found == nil:
		return models.SourceDefault
	case found.IsServiceSpecific():
		return models.SourceService
	default:
		return models.SourceBusiness
	}
}

func (s *Service) checkService(ctx context.Context, businessID, serviceID int64) error {
	if _, err := s.catalogRepo.GetByID(ctx, businessID, serviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("checkService: service id=%d not found in business=%d", serviceID, businessID)
			return ErrServiceNotFound
		}
		s.logger.Error("checkService: failed to get service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return nil
}

func validateSettings(req *models.UpsertSettingsRequest) error {
	v := domain.NewValidationError()

	if req.SlotStepMinutes != nil {
		step := *req.SlotStepMinutes
		if step < domain.MinSlotStepMinutes || step > domain.MaxSlotStepMinutes {
			v.Add("slot_step_minutes", fmt.Sprintf("must be between %d and %d",
				domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes))
		}
	}
	if req.MinBookingNoticeMinutes < 0 || req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		v.Add("min_booking_notice_minutes", fmt.Sprintf("must be between 0 and %d", domain.MaxBookingNoticeMinutes))
	}
	if req.AdvanceBookingDays < 0 || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		v.Add("advance_booking_days", fmt.Sprintf("must be between 0 and %d", domain.MaxAdvanceBookingDays))
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		v.Add("service_id", "must be a positive id")
	}

	return v.OrNil()
}
