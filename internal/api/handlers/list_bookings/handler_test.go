package list_bookings

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type serviceFake struct {
	got *models.ListBookingsRequest
	err error
}

func (f *serviceFake) List(_ context.Context, _ domain.Actor, req *models.ListBookingsRequest) ([]models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return []models.BookingResponse{{ID: 1, Status: "pending"}}, nil
}

func serve(t *testing.T, svc *serviceFake, target string, withActor bool) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{id}/bookings", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 10, Role: domain.RoleOwner}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	svc := &serviceFake{}

	rec := serve(t, svc, "/businesses/1/bookings?status=confirmed&date_from=2026-03-01&date_to=2026-03-07&employee_id=7&include_cancelled=true", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.got.BusinessID)
	assert.Equal(t, "confirmed", *svc.got.Status)
	assert.Equal(t, int64(7), *svc.got.EmployeeID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *svc.got.DateFrom)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), *svc.got.DateTo)
	assert.True(t, svc.got.IncludeCancelled)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		withActor  bool
		err        error
		wantStatus int
	}{
		{name: "no actor", target: "/businesses/1/bookings", wantStatus: http.StatusUnauthorized},
		{name: "bad date", target: "/businesses/1/bookings?date_from=March", withActor: true, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad flag", target: "/businesses/1/bookings?include_cancelled=maybe", withActor: true, wantStatus: http.StatusUnprocessableEntity},
		{name: "forbidden", target: "/businesses/1/bookings", withActor: true, err: fmt.Errorf("access %w", domain.ErrForbidden), wantStatus: http.StatusForbidden},
		{name: "missing business", target: "/businesses/1/bookings", withActor: true, err: fmt.Errorf("business %w", domain.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "internal", target: "/businesses/1/bookings", withActor: true, err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &serviceFake{err: tt.err}, tt.target, tt.withActor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
