package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/pgerrors"
)

// UseCase computes free slots for a service on a date.
// Reads are advisory and take no locks; CreateBooking re-checks under lock.
type UseCase struct {
	businessRepo BusinessRepository
	catalogRepo  CatalogRepository
	employeeRepo EmployeeRepository
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	bookingRepo  BookingRepository
	policy       Policy
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	employeeRepo EmployeeRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	bookingRepo BookingRepository,
	policy Policy,
	logger Logger,
) *UseCase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &UseCase{
		businessRepo: businessRepo,
		catalogRepo:  catalogRepo,
		employeeRepo: employeeRepo,
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		bookingRepo:  bookingRepo,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute returns the free slots; an empty list is a valid answer
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, employee=%s, date=%s",
		req.BusinessID, req.ServiceID, formatEmployee(req.EmployeeID), req.Date.Format(domain.DateFormat))

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Current time
	now := uc.timeProvider.Now()

	// 3. Read and compute, retrying once after a transient storage failure
	resp, err := uc.compute(ctx, req, now)
	if errors.Is(err, ErrUnavailable) {
		uc.logger.Warn("GetAvailableSlots: transient failure, retrying in %s: %v", uc.policy.TransientRetryBackoff, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(uc.policy.TransientRetryBackoff):
		}
		resp, err = uc.compute(ctx, req, now)
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// compute performs every read and builds the slot list
func (uc *UseCase) compute(ctx context.Context, req *Request, now time.Time) (*Response, error) {
	// 3.1. Business
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		return nil, uc.storageError("get business", err)
	}

	// 3.2. Service of this business
	service, err := uc.catalogRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		return nil, uc.storageError("get service", err)
	}

	// 3.3. Employee, when requested, must be active
	if req.EmployeeID != nil {
		employee, err := uc.employeeRepo.GetByID(ctx, req.BusinessID, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("GetAvailableSlots: employee id=%d not found in business id=%d", *req.EmployeeID, req.BusinessID)
				return nil, ErrEmployeeNotFound
			}
			return nil, uc.storageError("get employee", err)
		}
		if !employee.IsActive {
			uc.logger.Warn("GetAvailableSlots: employee id=%d is inactive", employee.ID)
			return nil, ErrEmployeeNotFound
		}
	}

	// 3.4. Booking settings with hierarchy: service -> business -> defaults
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, req.BusinessID, &req.ServiceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, uc.storageError("get booking settings", err)
	}
	settings = availability.Effective(settings, req.BusinessID, &req.ServiceID, uc.policy.Defaults)

	// 3.5. Weekly schedules
	schedules, err := uc.scheduleRepo.ListByBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, uc.storageError("list schedules", err)
	}

	// 3.6. Plan the day: date checks, working intervals, slot grid
	plan, err := availability.NewPlan(availability.Input{
		Date:       req.Date,
		Now:        now,
		Location:   uc.policy.Location,
		Service:    service,
		Settings:   settings,
		Schedules:  schedules,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s rejected: %v", req.Date.Format(domain.DateFormat), err)
		return nil, err
	}

	response := &Response{
		Date:       plan.Day,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Slots:      []string{},
	}

	if len(plan.Intervals) == 0 {
		uc.logger.Info("GetAvailableSlots: business id=%d is closed on %s", req.BusinessID, plan.Day.Format(domain.DateFormat))
		return response, nil
	}

	// 3.7. Existing bookings of the day
	dayStart, dayEnd := calendar.DayBounds(plan.Day, plan.Location)
	bookings, err := uc.bookingRepo.ListActiveInRange(ctx, req.BusinessID, dayStart, dayEnd)
	if err != nil {
		return nil, uc.storageError("list bookings", err)
	}

	// 3.8. Filter candidates through the conflict detector
	detector := conflict.NewDetector(
		conflict.ResourceKey{BusinessID: req.BusinessID, EmployeeID: req.EmployeeID},
		uc.policy.Scope,
		bookings,
	)
	response.Slots = plan.FreeSlots(detector)

	uc.logger.Info("GetAvailableSlots: %d free slots for business=%d, service=%d, date=%s (%d bookings considered)",
		len(response.Slots), req.BusinessID, req.ServiceID, plan.Day.Format(domain.DateFormat), detector.Len())

	return response, nil
}

func (uc *UseCase) storageError(op string, err error) error {
	if pgerrors.IsTransient(err) {
		uc.logger.Warn("GetAvailableSlots: %s: transient storage error: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	uc.logger.Error("GetAvailableSlots: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}

func formatEmployee(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
