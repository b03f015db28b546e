package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/catalog/models"
)

// maxPrice upper bound of NUMERIC(10, 2)
var maxPrice = decimal.New(1, 8)

// Service manages the services a business offers
type Service struct {
	serviceRepo    ServiceRepository
	bookingChecker BookingChecker
	txManager      TransactionManager
	guard          AccessGuard
	timeProvider   TimeProvider
	logger         Logger
}

func NewService(
	serviceRepo ServiceRepository,
	bookingChecker BookingChecker,
	txManager TransactionManager,
	guard AccessGuard,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		serviceRepo:    serviceRepo,
		bookingChecker: bookingChecker,
		txManager:      txManager,
		guard:          guard,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// List public catalog of a business
func (s *Service) List(ctx context.Context, businessID int64) ([]models.ServiceResponse, error) {
	if _, err := s.guard.Business(ctx, businessID); err != nil {
		return nil, err
	}

	list, err := s.serviceRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(list), nil
}

// Get public lookup of one service
func (s *Service) Get(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, businessID, serviceID)
	if err != nil {
		return nil, s.repoError("Get", err)
	}
	return models.FromDomainService(service), nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for business=%d by user=%d", req.Name, businessID, actor.UserID)

	// 1. Validate
	if err := validateService(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 3. Save
	service := &domain.Service{BusinessID: businessID}
	req.ApplyTo(service)
	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		return nil, s.repoError("Create", err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// Update replaces every field of a service.
// Existing bookings keep the name, duration and price they were made with.
func (s *Service) Update(ctx context.Context, actor domain.Actor, businessID, serviceID int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d of business=%d by user=%d", serviceID, businessID, actor.UserID)

	if err := validateService(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.GetByID(ctx, businessID, serviceID)
	if err != nil {
		return nil, s.repoError("Update", err)
	}

	req.ApplyTo(service)
	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		return nil, s.repoError("Update", err)
	}
	return models.FromDomainService(updated), nil
}

// Delete removes a service unless a non-cancelled booking of it has not ended yet.
// Past bookings keep their snapshot and lose the reference.
// The service row stays locked from the booking check to the delete, so a
// concurrent booking insert either commits first and is seen, or waits and fails.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID, serviceID int64) error {
	s.logger.Info("Delete: deleting service id=%d of business=%d by user=%d", serviceID, businessID, actor.UserID)

	// 1. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Lock the service row
		if err := s.serviceRepo.LockByID(txCtx, businessID, serviceID); err != nil {
			return s.repoError("Delete", err)
		}

		// 3. Upcoming bookings block deletion
		busy, err := s.bookingChecker.HasUpcomingForService(txCtx, businessID, serviceID, s.timeProvider.Now())
		if err != nil {
			s.logger.Error("Delete: failed to check bookings of service id=%d: %v", serviceID, err)
			return fmt.Errorf("%w: Delete - check bookings: %v", ErrInternal, err)
		}
		if busy {
			s.logger.Warn("Delete: service id=%d has upcoming bookings", serviceID)
			return ErrServiceInUse
		}

		// 4. Delete
		if err := s.serviceRepo.Delete(txCtx, businessID, serviceID); err != nil {
			return s.repoError("Delete", err)
		}
		return nil
	})
}

func (s *Service) repoError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrServiceNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateService(req *models.ServiceRequest) error {
	v := domain.NewValidationError()

	req.Name = strings.TrimSpace(req.Name)
	n := utf8.RuneCountInString(req.Name)
	if n < domain.MinServiceNameLength || n > domain.MaxServiceNameLength {
		v.Add("name", fmt.Sprintf("must be between %d and %d characters",
			domain.MinServiceNameLength, domain.MaxServiceNameLength))
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > domain.MaxDescriptionLength {
		v.Add("description", fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength))
	}
	if req.DurationMinutes < domain.MinServiceDuration || req.DurationMinutes > domain.MaxServiceDuration {
		v.Add("duration_minutes", fmt.Sprintf("must be between %d and %d",
			domain.MinServiceDuration, domain.MaxServiceDuration))
	}
	switch {
	case req.Price.IsNegative():
		v.Add("price", "must not be negative")
	case !req.Price.Equal(req.Price.Round(domain.MaxServicePriceDigits)):
		v.Add("price", fmt.Sprintf("must have at most %d decimal places", domain.MaxServicePriceDigits))
	case req.Price.GreaterThanOrEqual(maxPrice):
		v.Add("price", "is too large")
	}
	if req.ImageURL != nil && *req.ImageURL != "" && !domain.IsHTTPURL(*req.ImageURL) {
		v.Add("image_url", "must be an http(s) URL")
	}
	if req.ImageURL != nil && *req.ImageURL == "" {
		req.ImageURL = nil
	}

	return v.OrNil()
}
