package bookings

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

type repoFake struct {
	bookings   map[int64]*domain.Booking
	lastFilter domain.BookingsFilter
}

func (r *repoFake) GetByID(_ context.Context, businessID, bookingID int64) (*domain.Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok || b.BusinessID != businessID {
		return nil, fmt.Errorf("booking %w", domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (r *repoFake) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.lastFilter = filter
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.BusinessID == filter.BusinessID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *repoFake) UpdateStatus(_ context.Context, businessID, bookingID int64, status domain.BookingStatus) error {
	b, ok := r.bookings[bookingID]
	if !ok || b.BusinessID != businessID {
		return fmt.Errorf("booking %w", domain.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (r *repoFake) Delete(_ context.Context, businessID, bookingID int64) error {
	b, ok := r.bookings[bookingID]
	if !ok || b.BusinessID != businessID {
		return fmt.Errorf("booking %w", domain.ErrNotFound)
	}
	delete(r.bookings, bookingID)
	return nil
}

type guardFake struct{}

func (guardFake) Authorize(_ context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	if businessID != 1 {
		return nil, fmt.Errorf("business %w", domain.ErrNotFound)
	}
	b := &domain.Business{ID: 1, OwnerID: 10, Name: "Barber"}
	if !actor.CanManage(b) {
		return nil, fmt.Errorf("access %w", domain.ErrForbidden)
	}
	return b, nil
}

type exporterFake struct {
	rows int
}

func (e *exporterFake) WriteBookings(w io.Writer, _ *domain.Business, bookings []*domain.Booking) error {
	e.rows = len(bookings)
	_, err := w.Write([]byte("xlsx"))
	return err
}

var owner = domain.Actor{UserID: 10, Role: domain.RoleOwner}

func newService(t *testing.T) (*Service, *repoFake, *exporterFake) {
	t.Helper()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	repo := &repoFake{bookings: map[int64]*domain.Booking{
		1: {ID: 1, BusinessID: 1, ServiceID: 3, Status: domain.StatusPending, StartAt: start, EndAt: start.Add(30 * time.Minute)},
		2: {ID: 2, BusinessID: 1, ServiceID: 3, Status: domain.StatusCancelled, StartAt: start, EndAt: start.Add(30 * time.Minute)},
		3: {ID: 3, BusinessID: 2, ServiceID: 4, Status: domain.StatusConfirmed, StartAt: start, EndAt: start.Add(30 * time.Minute)},
	}}
	exporter := &exporterFake{}
	return NewService(repo, guardFake{}, exporter, time.UTC, logger.Nop()), repo, exporter
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		bookingID int64
		status    string
		wantErr   error
		want      domain.BookingStatus
	}{
		{name: "pending to confirmed", bookingID: 1, status: "confirmed", want: domain.StatusConfirmed},
		{name: "same status", bookingID: 1, status: "pending", want: domain.StatusPending},
		{name: "pending to completed", bookingID: 1, status: "completed", wantErr: domain.ErrInvalidInput},
		{name: "cancelled is terminal", bookingID: 2, status: "confirmed", wantErr: domain.ErrInvalidInput},
		{name: "unknown status", bookingID: 1, status: "archived", wantErr: domain.ErrInvalidInput},
		{name: "other business", bookingID: 3, status: "cancelled", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)

			resp, err := svc.UpdateStatus(context.Background(), owner, 1, tt.bookingID, &models.UpdateStatusRequest{Status: tt.status})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), resp.Status)
			assert.Equal(t, tt.want, repo.bookings[tt.bookingID].Status)
		})
	}
}

func TestUpdateStatus_FieldError(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.UpdateStatus(context.Background(), owner, 1, 2, &models.UpdateStatusRequest{Status: "pending"})
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"cannot change from cancelled to pending"}, fields["status"])
}

func TestAccessDenied(t *testing.T) {
	svc, repo, _ := newService(t)
	stranger := domain.Actor{UserID: 11, Role: domain.RoleOwner}

	_, err := svc.List(context.Background(), stranger, &models.ListBookingsRequest{BusinessID: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(context.Background(), stranger, 1, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, repo.bookings, int64(1))
}

func TestList_Filter(t *testing.T) {
	svc, repo, _ := newService(t)

	resp, err := svc.List(context.Background(), owner, &models.ListBookingsRequest{
		BusinessID: 1,
		EmployeeID: ptr.Ptr(int64(7)),
		DateFrom:   ptr.Ptr(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		DateTo:     ptr.Ptr(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
		Status:     ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Len(t, resp, 2)

	f := repo.lastFilter
	assert.Equal(t, int64(7), *f.EmployeeID)
	assert.Equal(t, domain.StatusPending, *f.Status)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), *f.To, "date_to is inclusive")
}

func TestList_InvalidFilter(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.List(context.Background(), owner, &models.ListBookingsRequest{BusinessID: 1, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.List(context.Background(), owner, &models.ListBookingsRequest{
		BusinessID: 1,
		DateFrom:   ptr.Ptr(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)),
		DateTo:     ptr.Ptr(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newService(t)

	require.NoError(t, svc.Delete(context.Background(), owner, 1, 1))
	assert.NotContains(t, repo.bookings, int64(1))

	err := svc.Delete(context.Background(), owner, 1, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.Get(context.Background(), owner, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.Get(context.Background(), owner, 1, 3)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExport(t *testing.T) {
	svc, _, exporter := newService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), owner, &models.ListBookingsRequest{BusinessID: 1}, &buf))
	assert.Equal(t, "xlsx", buf.String())
	assert.Equal(t, 2, exporter.rows)
}

func TestFromDomainBooking(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		ID:                     5,
		BusinessID:             1,
		EmployeeID:             ptr.Ptr(int64(7)),
		EmployeeName:           ptr.Ptr("Anna"),
		StartAt:                start,
		EndAt:                  start.Add(time.Hour),
		Status:                 domain.StatusConfirmed,
		ServiceName:            "Haircut",
		ServiceDurationMinutes: 60,
	}

	resp := models.FromDomainBooking(b, time.UTC)
	assert.Nil(t, resp.ServiceID, "deleted service is rendered as null")
	require.NotNil(t, resp.Employee)
	assert.Equal(t, "Anna", resp.Employee.Name)
	assert.Equal(t, "Haircut", resp.Service.Name)
	assert.Equal(t, 60, resp.Service.DurationMinutes)
}
