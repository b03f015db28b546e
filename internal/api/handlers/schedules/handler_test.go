package schedules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type serviceFake struct {
	err error
}

func (f *serviceFake) List(_ context.Context, _ domain.Actor, businessID int64) ([]models.ScheduleResponse, error) {
	return []models.ScheduleResponse{{ID: 1, BusinessID: businessID, Weekday: 1, StartTime: "09:00", EndTime: "12:00"}}, f.err
}

func (f *serviceFake) Create(_ context.Context, _ domain.Actor, businessID int64, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{
		ID:         2,
		BusinessID: businessID,
		EmployeeID: req.EmployeeID,
		Weekday:    req.Weekday,
		StartTime:  types.TimeString(req.StartTime),
		EndTime:    types.TimeString(req.EndTime),
	}, nil
}

func (f *serviceFake) Delete(_ context.Context, _ domain.Actor, _, _ int64) error {
	return f.err
}

func do(svc *serviceFake, method, target, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{id}/schedules", h.List).Methods(http.MethodGet)
	router.HandleFunc("/businesses/{id}/schedules", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/businesses/{id}/schedules/{scheduleId}", h.Delete).Methods(http.MethodDelete)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 10, Role: domain.RoleOwner}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	rec := do(&serviceFake{}, http.MethodGet, "/businesses/1/schedules", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start_time":"09:00"`)
}

func TestCreate(t *testing.T) {
	rec := do(&serviceFake{}, http.MethodPost, "/businesses/1/schedules", `{"weekday":1,"start_time":"09:00","end_time":"12:00"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employee_id":null`)
}

func TestCreate_FieldErrors(t *testing.T) {
	v := domain.NewValidationError()
	v.Add("end_time", "must be after start_time")

	rec := do(&serviceFake{err: v}, http.MethodPost, "/businesses/1/schedules", `{"weekday":1,"start_time":"12:00","end_time":"09:00"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"end_time":["must be after start_time"]`)
}

func TestDelete(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, do(&serviceFake{}, http.MethodDelete, "/businesses/1/schedules/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(&serviceFake{err: schedules.ErrScheduleNotFound}, http.MethodDelete, "/businesses/1/schedules/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(&serviceFake{}, http.MethodDelete, "/businesses/1/schedules/-2", "").Code)
}
