package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/calendar"
	"github.com/m04kA/SMC-BookingEngine/internal/conflict"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/pgerrors"
	"github.com/m04kA/SMC-BookingEngine/pkg/txmanager"
)

const defaultTransientRetryBackoff = 200 * time.Millisecond

// UseCase atomically re-checks and reserves a slot.
// The check and the insert run in one serializable transaction holding an advisory
// lock on the business day; the exclusion constraint on bookings is the backstop.
type UseCase struct {
	businessRepo    BusinessRepository
	catalogRepo     CatalogRepository
	employeeRepo    EmployeeRepository
	scheduleRepo    ScheduleRepository
	settingsRepo    SettingsRepository
	bookingRepo     BookingRepository
	idempotencyRepo IdempotencyRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	metrics         Metrics
	policy          Policy
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	employeeRepo EmployeeRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	bookingRepo BookingRepository,
	idempotencyRepo IdempotencyRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics Metrics,
	policy Policy,
	logger Logger,
) *UseCase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if policy.DefaultStatus == "" {
		policy.DefaultStatus = domain.StatusConfirmed
	}
	if policy.TransientRetryBackoff <= 0 {
		policy.TransientRetryBackoff = defaultTransientRetryBackoff
	}
	return &UseCase{
		businessRepo:    businessRepo,
		catalogRepo:     catalogRepo,
		employeeRepo:    employeeRepo,
		scheduleRepo:    scheduleRepo,
		settingsRepo:    settingsRepo,
		bookingRepo:     bookingRepo,
		idempotencyRepo: idempotencyRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		metrics:         metrics,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// reservation everything the commit step needs, computed before the transaction
type reservation struct {
	req      *Request
	hash     string
	service  *domain.Service
	employee *domain.Employee
	plan     *availability.Plan
	startAt  time.Time
	endAt    time.Time
}

// Execute runs Requested -> Validating -> {Committed | Rejected}
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	resp, err := uc.execute(ctx, req)

	outcome := outcomeOf(err)
	if err == nil && resp.Replayed {
		outcome = outcomeReplayed
	}
	if uc.metrics != nil {
		uc.metrics.ObserveBooking(outcome)
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate and normalize input
	in, err := normalizeRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Current time
	now := uc.timeProvider.Now()

	// 3. Business
	if _, err := uc.businessRepo.GetByID(ctx, in.BusinessID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", in.BusinessID)
			return nil, ErrBusinessNotFound
		}
		return nil, uc.storageError("get business", err)
	}

	// 4. Service of this business
	service, err := uc.catalogRepo.GetByID(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found in business id=%d", in.ServiceID, in.BusinessID)
			return nil, ErrServiceNotFound
		}
		return nil, uc.storageError("get service", err)
	}

	// 5. Employee, when chosen, must be active
	var employee *domain.Employee
	if in.EmployeeID != nil {
		employee, err = uc.employeeRepo.GetByID(ctx, in.BusinessID, *in.EmployeeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("CreateBooking: employee id=%d not found in business id=%d", *in.EmployeeID, in.BusinessID)
				return nil, ErrEmployeeNotFound
			}
			return nil, uc.storageError("get employee", err)
		}
		if !employee.IsActive {
			uc.logger.Warn("CreateBooking: employee id=%d is inactive", employee.ID)
			return nil, ErrEmployeeNotFound
		}
	}

	// 6. Booking settings with hierarchy: service -> business -> defaults
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, in.BusinessID, &in.ServiceID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, uc.storageError("get booking settings", err)
	}
	settings = availability.Effective(settings, in.BusinessID, &in.ServiceID, uc.policy.Defaults)

	// 7. Weekly schedules
	schedules, err := uc.scheduleRepo.ListByBusiness(ctx, in.BusinessID)
	if err != nil {
		return nil, uc.storageError("list schedules", err)
	}

	// 8. Recompute start_at/end_at and check the start against the slot grid
	plan, err := availability.NewPlan(availability.Input{
		Date:       in.Date,
		Now:        now,
		Location:   uc.policy.Location,
		Service:    service,
		Settings:   settings,
		Schedules:  schedules,
		EmployeeID: in.EmployeeID,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: date %s rejected: %v", in.Date.Format(domain.DateFormat), err)
		return nil, planError(err)
	}

	startAt, err := plan.At(in.StartTime.Minutes())
	if err == nil {
		err = plan.CheckStart(startAt)
	}
	if err != nil {
		uc.logger.Warn("CreateBooking: start %s on %s rejected: %v", in.StartTime, in.Date.Format(domain.DateFormat), err)
		return nil, planError(err)
	}

	r := &reservation{
		req:      in,
		hash:     requestHash(in),
		service:  service,
		employee: employee,
		plan:     plan,
		startAt:  startAt,
		endAt:    plan.End(startAt),
	}

	// 9. Commit, retrying once after a transient storage failure
	resp, err := uc.commit(ctx, r)
	if errors.Is(err, ErrUnavailable) {
		uc.logger.Warn("CreateBooking: transient failure, retrying in %s: %v", uc.policy.TransientRetryBackoff, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(uc.policy.TransientRetryBackoff):
		}
		resp, err = uc.commit(ctx, r)
	}
	if err != nil {
		return nil, err
	}

	if resp.Replayed {
		uc.logger.Info("CreateBooking: replayed booking id=%d for idempotency key", resp.Booking.ID)
	} else {
		uc.logger.Info("CreateBooking: successfully created booking id=%d (%s)", resp.Booking.ID, resp.Booking.Status)
	}
	return resp, nil
}

// commit is the critical section
func (uc *UseCase) commit(ctx context.Context, r *reservation) (*Response, error) {
	in := r.req
	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result = nil

		// 9.1. A known idempotency key replays the original booking
		if in.IdempotencyKey != "" {
			record, err := uc.idempotencyRepo.Get(txCtx, in.BusinessID, in.IdempotencyKey)
			switch {
			case err == nil:
				if record.RequestHash != r.hash {
					return ErrIdempotencyKeyReused
				}
				original, err := uc.bookingRepo.GetByID(txCtx, in.BusinessID, record.BookingID)
				if err != nil {
					return fmt.Errorf("failed to load replayed booking id=%d: %w", record.BookingID, err)
				}
				result = &Response{Booking: original, Replayed: true}
				return nil
			case !errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("failed to read idempotency key: %w", err)
			}
		}

		// 9.2. Serialize writers of this business day
		if err := uc.bookingRepo.LockDay(txCtx, in.BusinessID, r.plan.Day); err != nil {
			return fmt.Errorf("failed to lock business day: %w", err)
		}

		// 9.3. Current committed state of the day
		dayStart, dayEnd := calendar.DayBounds(r.plan.Day, r.plan.Location)
		bookings, err := uc.bookingRepo.ListActiveInRange(txCtx, in.BusinessID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}

		// 9.4. Re-check the slot
		detector := conflict.NewDetector(
			conflict.ResourceKey{BusinessID: in.BusinessID, EmployeeID: in.EmployeeID},
			uc.policy.Scope,
			bookings,
		)
		if id, taken := detector.ConflictingID(r.startAt, r.endAt); taken {
			uc.logger.Warn("CreateBooking: slot %s overlaps booking id=%d", r.startAt.Format(time.RFC3339), id)
			return ErrSlotTaken
		}

		// 9.5. Insert with denormalized service and employee data
		created, err := uc.bookingRepo.Create(txCtx, uc.newBooking(r))
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot %s", r.startAt.Format(time.RFC3339))
				return ErrSlotTaken
			}
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d was deleted concurrently", in.ServiceID)
				return ErrServiceNotFound
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// 9.6. Remember the idempotency key
		if in.IdempotencyKey != "" {
			if err := uc.idempotencyRepo.Save(txCtx, &domain.IdempotencyRecord{
				BusinessID:  in.BusinessID,
				Key:         in.IdempotencyKey,
				RequestHash: r.hash,
				BookingID:   created.ID,
			}); err != nil {
				return fmt.Errorf("failed to save idempotency key: %w", err)
			}
		}

		// 9.7. Queue the confirmation notification
		if err := uc.enqueueConfirmation(txCtx, created); err != nil {
			return err
		}

		result = &Response{Booking: created}
		return nil
	})

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrIdempotencyKeyReused):
		return nil, err
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("CreateBooking: serialization retries exhausted: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
	case errors.Is(err, txmanager.ErrTransient), pgerrors.IsTransient(err):
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) newBooking(r *reservation) *domain.Booking {
	b := &domain.Booking{
		BusinessID:    r.req.BusinessID,
		ServiceID:     r.service.ID,
		EmployeeID:    r.req.EmployeeID,
		CustomerName:  r.req.CustomerName,
		CustomerEmail: r.req.CustomerEmail,
		StartAt:       r.startAt,
		EndAt:         r.endAt,
		Status:        uc.policy.DefaultStatus,
		// Denormalized service data
		ServiceName:            r.service.Name,
		ServiceDurationMinutes: r.service.DurationMinutes,
		ServicePrice:           r.service.Price,
	}
	if r.employee != nil {
		name := r.employee.Name
		b.EmployeeName = &name
	}
	return b
}

func (uc *UseCase) enqueueConfirmation(ctx context.Context, b *domain.Booking) error {
	payload, err := json.Marshal(domain.NewBookingConfirmationPayload(b))
	if err != nil {
		return fmt.Errorf("failed to encode confirmation payload: %w", err)
	}

	event := &domain.OutboxEvent{
		EventID:       uuid.NewString(),
		AggregateType: domain.AggregateBooking,
		AggregateID:   b.ID,
		EventType:     domain.EventBookingConfirmationRequested,
		Payload:       payload,
	}
	if err := uc.outboxRepo.Add(ctx, event); err != nil {
		return fmt.Errorf("failed to enqueue confirmation: %w", err)
	}
	return nil
}

func (uc *UseCase) storageError(op string, err error) error {
	if pgerrors.IsTransient(err) {
		uc.logger.Warn("CreateBooking: %s: transient storage error: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	uc.logger.Error("CreateBooking: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}
