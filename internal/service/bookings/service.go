package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

// Service admin operations on committed bookings
type Service struct {
	bookingRepo BookingRepository
	guard       AccessGuard
	exporter    Exporter
	location    *time.Location
	logger      Logger
}

// NewService creates the bookings admin service; dates are interpreted in location
func NewService(
	bookingRepo BookingRepository,
	guard AccessGuard,
	exporter Exporter,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo: bookingRepo,
		guard:       guard,
		exporter:    exporter,
		location:    location,
		logger:      logger,
	}
}

// List returns the bookings of a business matching the filter.
// Cancelled bookings are hidden unless requested by status or IncludeCancelled.
func (s *Service) List(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	s.logger.Info("List: fetching bookings for business=%d by user=%d", req.BusinessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, req.BusinessID); err != nil {
		return nil, err
	}

	filter, err := s.toFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings, s.location), nil
}

// Get returns a single booking of a business
func (s *Service) Get(ctx context.Context, actor domain.Actor, businessID, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Get: booking id=%d of business=%d by user=%d", bookingID, businessID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, businessID, bookingID)
	if err != nil {
		return nil, s.repoError("Get", bookingID, err)
	}

	return models.FromDomainBooking(booking, s.location), nil
}

// UpdateStatus moves a booking along its lifecycle.
// Completed and cancelled bookings are terminal; no conflict re-check is needed.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, businessID, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d to status=%s by user=%d", bookingID, req.Status, actor.UserID)

	// 1. Ownership
	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return nil, err
	}

	// 2. Status value
	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		v := domain.NewValidationError()
		v.Add("status", "must be one of pending, confirmed, completed, cancelled")
		return nil, v
	}

	// 3. Current booking
	booking, err := s.bookingRepo.GetByID(ctx, businessID, bookingID)
	if err != nil {
		return nil, s.repoError("UpdateStatus", bookingID, err)
	}

	// 4. Transition
	if !booking.Status.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s", bookingID, booking.Status, next)
		v := domain.NewValidationError()
		v.Add("status", fmt.Sprintf("cannot change from %s to %s", booking.Status, next))
		return nil, v
	}

	if booking.Status != next {
		if err := s.bookingRepo.UpdateStatus(ctx, businessID, bookingID, next); err != nil {
			return nil, s.repoError("UpdateStatus", bookingID, err)
		}
		booking.Status = next
		booking.UpdatedAt = time.Now()
	}

	s.logger.Info("UpdateStatus: booking id=%d is %s", bookingID, next)
	return models.FromDomainBooking(booking, s.location), nil
}

// Delete removes a booking permanently
func (s *Service) Delete(ctx context.Context, actor domain.Actor, businessID, bookingID int64) error {
	s.logger.Info("Delete: booking id=%d by user=%d", bookingID, actor.UserID)

	if _, err := s.guard.Authorize(ctx, actor, businessID); err != nil {
		return err
	}

	if err := s.bookingRepo.Delete(ctx, businessID, bookingID); err != nil {
		return s.repoError("Delete", bookingID, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", bookingID)
	return nil
}

// Export writes the filtered bookings as an xlsx workbook to w
func (s *Service) Export(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest, w io.Writer) error {
	s.logger.Info("Export: bookings of business=%d by user=%d", req.BusinessID, actor.UserID)

	business, err := s.guard.Authorize(ctx, actor, req.BusinessID)
	if err != nil {
		return err
	}

	filter, err := s.toFilter(req)
	if err != nil {
		return err
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Export: repository error for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: Export - repository error: %w", ErrInternal, err)
	}

	for _, b := range bookings {
		b.StartAt = b.StartAt.In(s.location)
		b.EndAt = b.EndAt.In(s.location)
	}

	if err := s.exporter.WriteBookings(w, business, bookings); err != nil {
		s.logger.Error("Export: render failed for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: Export - render: %w", ErrInternal, err)
	}
	return nil
}

// toFilter converts inclusive calendar dates into a half-open instant range
func (s *Service) toFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		BusinessID:       req.BusinessID,
		EmployeeID:       req.EmployeeID,
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, *req.Status)
		}
		filter.Status = &status
	}

	if req.DateFrom != nil {
		from := time.Date(req.DateFrom.Year(), req.DateFrom.Month(), req.DateFrom.Day(), 0, 0, 0, 0, s.location)
		filter.From = &from
	}
	if req.DateTo != nil {
		to := time.Date(req.DateTo.Year(), req.DateTo.Month(), req.DateTo.Day()+1, 0, 0, 0, 0, s.location)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, fmt.Errorf("%w: date_from is after date_to", ErrInvalidFilter)
	}

	return filter, nil
}

func (s *Service) repoError(op string, bookingID int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
