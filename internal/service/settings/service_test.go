package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

type settingsKey struct {
	business int64
	service  int64
}

type settingsRepoFake struct {
	rows map[settingsKey]*domain.BookingSettings
}

func keyOf(businessID int64, serviceID *int64) settingsKey {
	return settingsKey{business: businessID, service: ptr.Deref(serviceID)}
}

func (r *settingsRepoFake) GetWithHierarchy(_ context.Context, businessID int64, serviceID *int64) (*domain.BookingSettings, error) {
	if serviceID != nil {
		if s, ok := r.rows[keyOf(businessID, serviceID)]; ok {
			return s, nil
		}
	}
	if s, ok := r.rows[keyOf(businessID, nil)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("settings %w", domain.ErrNotFound)
}

func (r *settingsRepoFake) Upsert(_ context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	s.ID = int64(len(r.rows) + 1)
	r.rows[keyOf(s.BusinessID, s.ServiceID)] = s
	return s, nil
}

func (r *settingsRepoFake) Delete(_ context.Context, businessID int64, serviceID *int64) error {
	k := keyOf(businessID, serviceID)
	if _, ok := r.rows[k]; !ok {
		return fmt.Errorf("settings %w", domain.ErrNotFound)
	}
	delete(r.rows, k)
	return nil
}

type catalogFake struct{}

func (catalogFake) GetByID(_ context.Context, businessID, serviceID int64) (*domain.Service, error) {
	if businessID == 1 && serviceID == 3 {
		return &domain.Service{ID: 3, BusinessID: 1, DurationMinutes: 30}, nil
	}
	return nil, fmt.Errorf("service %w", domain.ErrNotFound)
}

type guardFake struct{}

func (guardFake) Authorize(_ context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	b := &domain.Business{ID: businessID, OwnerID: 10}
	if !actor.CanManage(b) {
		return nil, fmt.Errorf("access %w", domain.ErrForbidden)
	}
	return b, nil
}

var owner = domain.Actor{UserID: 10, Role: domain.RoleOwner}

func newService() (*Service, *settingsRepoFake) {
	repo := &settingsRepoFake{rows: map[settingsKey]*domain.BookingSettings{}}
	defaults := availability.Defaults{MinBookingNoticeMinutes: 60, AdvanceBookingDays: 30}
	return NewService(repo, catalogFake{}, guardFake{}, defaults, logger.Nop()), repo
}

func TestGet_Hierarchy(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	resp, err := svc.Get(ctx, owner, 1, ptr.Ptr(int64(3)))
	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, resp.Source)
	assert.Equal(t, 60, resp.MinBookingNoticeMinutes)
	assert.Equal(t, 30, resp.AdvanceBookingDays)
	assert.Nil(t, resp.SlotStepMinutes)

	repo.rows[keyOf(1, nil)] = &domain.BookingSettings{BusinessID: 1, MinBookingNoticeMinutes: 15, AdvanceBookingDays: 7}
	resp, err = svc.Get(ctx, owner, 1, ptr.Ptr(int64(3)))
	require.NoError(t, err)
	assert.Equal(t, models.SourceBusiness, resp.Source)
	assert.Equal(t, 15, resp.MinBookingNoticeMinutes)

	repo.rows[keyOf(1, ptr.Ptr(int64(3)))] = &domain.BookingSettings{
		BusinessID:      1,
		ServiceID:       ptr.Ptr(int64(3)),
		SlotStepMinutes: ptr.Ptr(10),
	}
	resp, err = svc.Get(ctx, owner, 1, ptr.Ptr(int64(3)))
	require.NoError(t, err)
	assert.Equal(t, models.SourceService, resp.Source)
	assert.Equal(t, 10, *resp.SlotStepMinutes)
	assert.Equal(t, 0, resp.MinBookingNoticeMinutes, "levels are not merged")
}

func TestGet_UnknownService(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), owner, 1, ptr.Ptr(int64(99)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsert_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.UpsertSettingsRequest
		field string
	}{
		{name: "step too small", req: models.UpsertSettingsRequest{SlotStepMinutes: ptr.Ptr(4)}, field: "slot_step_minutes"},
		{name: "step too large", req: models.UpsertSettingsRequest{SlotStepMinutes: ptr.Ptr(481)}, field: "slot_step_minutes"},
		{name: "negative notice", req: models.UpsertSettingsRequest{MinBookingNoticeMinutes: -1}, field: "min_booking_notice_minutes"},
		{name: "notice above a week", req: models.UpsertSettingsRequest{MinBookingNoticeMinutes: 10081}, field: "min_booking_notice_minutes"},
		{name: "advance above a year", req: models.UpsertSettingsRequest{AdvanceBookingDays: 366}, field: "advance_booking_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService()

			_, err := svc.Upsert(context.Background(), owner, 1, &tt.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			fields, ok := domain.FieldErrors(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, repo.rows)
		})
	}
}

func TestUpsert(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.Upsert(context.Background(), owner, 1, &models.UpsertSettingsRequest{
		ServiceID:               ptr.Ptr(int64(3)),
		SlotStepMinutes:         ptr.Ptr(15),
		MinBookingNoticeMinutes: 120,
		AdvanceBookingDays:      14,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceService, resp.Source)
	assert.Equal(t, 15, *resp.SlotStepMinutes)
	assert.Contains(t, repo.rows, keyOf(1, ptr.Ptr(int64(3))))
}

func TestUpsert_Forbidden(t *testing.T) {
	svc, repo := newService()
	stranger := domain.Actor{UserID: 11, Role: domain.RoleOwner}

	_, err := svc.Upsert(context.Background(), stranger, 1, &models.UpsertSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, repo.rows)
}

func TestDelete(t *testing.T) {
	svc, repo := newService()
	repo.rows[keyOf(1, nil)] = &domain.BookingSettings{BusinessID: 1}

	require.NoError(t, svc.Delete(context.Background(), owner, 1, nil))
	assert.Empty(t, repo.rows)

	err := svc.Delete(context.Background(), owner, 1, nil)
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}
