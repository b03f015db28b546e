package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/catalog/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

type txKey struct{}

type txManagerFake struct {
	calls int
}

func (m *txManagerFake) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type serviceRepoFake struct {
	services map[int64]*domain.Service
	nextID   int64
	steps    []string
}

func (r *serviceRepoFake) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	r.nextID++
	s.ID = r.nextID
	r.services[s.ID] = s
	return s, nil
}

func (r *serviceRepoFake) GetByID(_ context.Context, businessID, serviceID int64) (*domain.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.BusinessID != businessID {
		return nil, fmt.Errorf("service %w", domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *serviceRepoFake) ListByBusiness(_ context.Context, businessID int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0)
	for _, s := range r.services {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *serviceRepoFake) Update(_ context.Context, s *domain.Service) (*domain.Service, error) {
	r.services[s.ID] = s
	return s, nil
}

func (r *serviceRepoFake) Delete(ctx context.Context, businessID, serviceID int64) error {
	if _, err := r.GetByID(ctx, businessID, serviceID); err != nil {
		return err
	}
	r.steps = append(r.steps, "delete")
	delete(r.services, serviceID)
	return nil
}

func (r *serviceRepoFake) LockByID(ctx context.Context, businessID, serviceID int64) error {
	if !inTx(ctx) {
		return fmt.Errorf("lock outside transaction")
	}
	if _, err := r.GetByID(ctx, businessID, serviceID); err != nil {
		return err
	}
	r.steps = append(r.steps, "lock")
	return nil
}

type bookingCheckerMock struct {
	mock.Mock
}

func (m *bookingCheckerMock) HasUpcomingForService(ctx context.Context, businessID, serviceID int64, from time.Time) (bool, error) {
	args := m.MethodCalled("HasUpcomingForService", ctx, businessID, serviceID, from)
	return args.Bool(0), args.Error(1)
}

type guardFake struct{}

func (guardFake) Business(_ context.Context, businessID int64) (*domain.Business, error) {
	if businessID != 1 {
		return nil, fmt.Errorf("business %w", domain.ErrNotFound)
	}
	return &domain.Business{ID: 1, OwnerID: 10}, nil
}

func (g guardFake) Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	b, err := g.Business(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(b) {
		return nil, fmt.Errorf("access %w", domain.ErrForbidden)
	}
	return b, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var (
	owner = domain.Actor{UserID: 10, Role: domain.RoleOwner}
	now   = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
)

func newService() (*Service, *serviceRepoFake, *bookingCheckerMock) {
	repo := &serviceRepoFake{services: map[int64]*domain.Service{}}
	checker := &bookingCheckerMock{}
	return NewService(repo, checker, &txManagerFake{}, guardFake{}, fixedClock{now: now}, logger.Nop()), repo, checker
}

func validRequest() *models.ServiceRequest {
	return &models.ServiceRequest{
		Name:            "Haircut",
		DurationMinutes: 30,
		Price:           decimal.RequireFromString("15.50"),
	}
}

func TestCreate(t *testing.T) {
	svc, repo, _ := newService()

	resp, err := svc.Create(context.Background(), owner, 1, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.BusinessID)
	assert.True(t, decimal.RequireFromString("15.5").Equal(resp.Price))
	assert.Len(t, repo.services, 1)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *models.ServiceRequest)
		field  string
	}{
		{name: "short name", modify: func(r *models.ServiceRequest) { r.Name = " ab " }, field: "name"},
		{name: "zero duration", modify: func(r *models.ServiceRequest) { r.DurationMinutes = 0 }, field: "duration_minutes"},
		{name: "longer than a day", modify: func(r *models.ServiceRequest) { r.DurationMinutes = 1441 }, field: "duration_minutes"},
		{name: "negative price", modify: func(r *models.ServiceRequest) { r.Price = decimal.NewFromInt(-1) }, field: "price"},
		{name: "three decimals", modify: func(r *models.ServiceRequest) { r.Price = decimal.RequireFromString("10.005") }, field: "price"},
		{name: "price overflow", modify: func(r *models.ServiceRequest) { r.Price = decimal.NewFromInt(100000000) }, field: "price"},
		{name: "bad image url", modify: func(r *models.ServiceRequest) { r.ImageURL = ptr.Ptr("ftp://x/y.png") }, field: "image_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService()
			req := validRequest()
			tt.modify(req)

			_, err := svc.Create(context.Background(), owner, 1, req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			fields, ok := domain.FieldErrors(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, repo.services)
		})
	}
}

func TestServiceRequest_PriceFromJSON(t *testing.T) {
	var req models.ServiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Haircut","duration_minutes":30,"price":"12.30"}`), &req))
	assert.Equal(t, "12.3", req.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Haircut","duration_minutes":30,"price":12.3}`), &req))
	assert.Equal(t, "12.3", req.Price.String())
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newService()
	repo.services[1] = &domain.Service{ID: 1, BusinessID: 1, Name: "Haircut", DurationMinutes: 30}
	repo.nextID = 1

	req := validRequest()
	req.Name = "Long haircut"
	req.DurationMinutes = 60
	resp, err := svc.Update(context.Background(), owner, 1, 1, req)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)

	_, err = svc.Update(context.Background(), owner, 1, 2, req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDelete_BlockedByUpcomingBookings(t *testing.T) {
	svc, repo, checker := newService()
	repo.services[1] = &domain.Service{ID: 1, BusinessID: 1}
	checker.On("HasUpcomingForService", mock.Anything, int64(1), int64(1), now).Return(true, nil).Once()

	err := svc.Delete(context.Background(), owner, 1, 1)
	assert.ErrorIs(t, err, ErrServiceInUse)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, repo.services, int64(1))
	checker.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	svc, repo, checker := newService()
	repo.services[1] = &domain.Service{ID: 1, BusinessID: 1}
	checker.On("HasUpcomingForService", mock.Anything, int64(1), int64(1), now).Return(false, nil).Once()

	require.NoError(t, svc.Delete(context.Background(), owner, 1, 1))
	assert.Empty(t, repo.services)
	checker.AssertExpectations(t)
}

func TestDelete_ChecksBookingsUnderLock(t *testing.T) {
	svc, repo, checker := newService()
	repo.services[1] = &domain.Service{ID: 1, BusinessID: 1}
	checker.On("HasUpcomingForService", mock.MatchedBy(inTx), int64(1), int64(1), now).
		Run(func(mock.Arguments) { repo.steps = append(repo.steps, "check") }).
		Return(false, nil).Once()

	require.NoError(t, svc.Delete(context.Background(), owner, 1, 1))
	assert.Equal(t, []string{"lock", "check", "delete"}, repo.steps)
	assert.Equal(t, 1, svc.txManager.(*txManagerFake).calls)
	checker.AssertExpectations(t)
}

func TestDelete_UnknownService(t *testing.T) {
	svc, repo, checker := newService()

	err := svc.Delete(context.Background(), owner, 1, 7)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Empty(t, repo.steps)
	checker.AssertNotCalled(t, "HasUpcomingForService", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_CheckFailureKeepsService(t *testing.T) {
	svc, repo, checker := newService()
	repo.services[1] = &domain.Service{ID: 1, BusinessID: 1}
	checker.On("HasUpcomingForService", mock.Anything, int64(1), int64(1), now).Return(false, errors.New("timeout")).Once()

	err := svc.Delete(context.Background(), owner, 1, 1)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, repo.services, int64(1))
	assert.Equal(t, []string{"lock"}, repo.steps)
}

func TestList_UnknownBusiness(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.List(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
