package employees

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/employees/models"
)

const maxPhoneLength = 40

// Service manages the staff of a business
type Service struct {
	employeeRepo EmployeeRepository
	guard        AccessGuard
	logger       Logger
}

func NewService(employeeRepo EmployeeRepository, guard AccessGuard, logger Logger) *Service {
	return &Service{
		employeeRepo: employeeRepo,
		guard:        guard,
		logger:       logger,
	}
}

// ListPublic active employees for the booking page
func (s *Service) ListPublic(ctx context.Context, businessID int64) ([]models.PublicEmployeeResponse, error) {
	if _, err := s.guard.Business(ctx, businessID); err != nil {
		return nil, err
	}

	list, err := s.employeeRepo.List(ctx, businessID, true)
	if err != nil {
		return nil, s.repoError("ListPublic", err)
	}
	return models.FromDomainPublicList(list), nil
}

// List every employee including inactive ones
func (s *Service) List(ctx context.Context, actor domain.Actor, businessID int64) ([]models.EmployeeResponse, error) {
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	list, err := s.employeeRepo.List(ctx, businessID, false)
	if err != nil {
		return nil, s.repoError("List", err)
	}
	return models.FromDomainEmployeeList(list), nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error) {
	s.logger.Info("Create: creating employee %q for business=%d by user=%d", req.Name, businessID, actor.UserID)

	if err := validateEmployee(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	employee := &domain.Employee{BusinessID: businessID}
	req.ApplyTo(employee)
	created, err := s.employeeRepo.Create(ctx, employee)
	if err != nil {
		return nil, s.repoError("Create", err)
	}

	s.logger.Info("Create: successfully created employee id=%d", created.ID)
	return models.FromDomainEmployee(created), nil
}

// Update replaces every field; deactivation hides the employee from new bookings only
func (s *Service) Update(ctx context.Context, actor domain.Actor, businessID, employeeID int64, req *models.EmployeeRequest) (*models.EmployeeResponse, error) {
	s.logger.Info("Update: updating employee id=%d of business=%d by user=%d", employeeID, businessID, actor.UserID)

	if err := validateEmployee(req); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByID(ctx, businessID, employeeID)
	if err != nil {
		return nil, s.repoError("Update", err)
	}

	req.ApplyTo(employee)
	updated, err := s.employeeRepo.Update(ctx, employee)
	if err != nil {
		return nil, s.repoError("Update", err)
	}
	return models.FromDomainEmployee(updated), nil
}

// Delete removes an employee that no booking references
func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID, employeeID int64) error {
	s.logger.Info("Delete: deleting employee id=%d of business=%d by user=%d", employeeID, businessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.employeeRepo.Delete(ctx, businessID, employeeID); err != nil {
		return s.repoError("Delete", err)
	}
	return nil
}

func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, domain.ErrConflict):
		s.logger.Warn("%s: %v", op, err)
		return ErrEmployeeHasBookings
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateEmployee(req *models.EmployeeRequest) error {
	v := domain.NewValidationError()

	req.Name = strings.TrimSpace(req.Name)
	n := utf8.RuneCountInString(req.Name)
	if n < domain.MinEmployeeNameLength || n > domain.MaxEmployeeNameLength {
		v.Add("name", fmt.Sprintf("must be between %d and %d characters",
			domain.MinEmployeeNameLength, domain.MaxEmployeeNameLength))
	}

	req.Email = blankToNil(req.Email)
	if req.Email != nil {
		if len(*req.Email) > domain.MaxCustomerEmailLength {
			v.Add("email", "is too long")
		} else if addr, err := mail.ParseAddress(*req.Email); err != nil || addr.Address != *req.Email {
			v.Add("email", "must be a valid email address")
		}
	}

	req.Phone = blankToNil(req.Phone)
	if req.Phone != nil && utf8.RuneCountInString(*req.Phone) > maxPhoneLength {
		v.Add("phone", fmt.Sprintf("must be at most %d characters", maxPhoneLength))
	}

	return v.OrNil()
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
