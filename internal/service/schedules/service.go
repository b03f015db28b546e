package schedules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

// Service manages weekly working hours
type Service struct {
	scheduleRepo ScheduleRepository
	employeeRepo EmployeeRepository
	guard        AccessGuard
	logger       Logger
}

func NewService(
	scheduleRepo ScheduleRepository,
	employeeRepo EmployeeRepository,
	guard AccessGuard,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		guard:        guard,
		logger:       logger,
	}
}

// List every interval of the business ordered by weekday and start time
func (s *Service) List(ctx context.Context, actor domain.Actor, businessID int64) ([]models.ScheduleResponse, error) {
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	list, err := s.scheduleRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainScheduleList(list), nil
}

// Create adds a working interval for the business or one of its employees.
// Overlapping intervals are allowed; availability merges them.
func (s *Service) Create(ctx context.Context, actor domain.Actor, businessID int64, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Create: adding schedule weekday=%d %s-%s employee=%v to business=%d by user=%d",
		req.Weekday, req.StartTime, req.EndTime, req.EmployeeID, businessID, actor.UserID)

	// 1. Validate
	schedule, err := parseSchedule(businessID, req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Access check
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 3. The employee must belong to the business
	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, businessID, *req.EmployeeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				v := domain.NewValidationError()
				v.Add("employee_id", "employee not found in this business")
				return nil, v
			}
			s.logger.Error("Create: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: Create - get employee: %v", ErrInternal, err)
		}
	}

	// 4. Save
	created, err := s.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSchedule(created), nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID, scheduleID int64) error {
	s.logger.Info("Delete: deleting schedule id=%d of business=%d by user=%d", scheduleID, businessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, businessID, scheduleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error for schedule id=%d: %v", scheduleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	return nil
}

func parseSchedule(businessID int64, req *models.CreateScheduleRequest) (*domain.Schedule, error) {
	v := domain.NewValidationError()

	if req.Weekday < int(time.Sunday) || req.Weekday > int(time.Saturday) {
		v.Add("weekday", "must be between 0 (Sunday) and 6 (Saturday)")
	}

	start, startErr := types.NewTimeStringFromString(req.StartTime)
	if startErr != nil {
		v.Add("start_time", "must be a time in HH:MM format")
	}
	end, endErr := types.NewTimeStringFromString(req.EndTime)
	if endErr != nil {
		v.Add("end_time", "must be a time in HH:MM format")
	}
	if startErr == nil && endErr == nil && !end.IsAfter(start) {
		v.Add("end_time", "must be after start_time")
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &domain.Schedule{
		BusinessID: businessID,
		EmployeeID: req.EmployeeID,
		Weekday:    time.Weekday(req.Weekday),
		StartTime:  start,
		EndTime:    end,
	}, nil
}
