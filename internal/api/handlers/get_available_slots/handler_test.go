package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type useCaseFake struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *useCaseFake) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(t *testing.T, uc *useCaseFake, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{id}/availability", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	uc := &useCaseFake{resp: &getAvailableSlots.Response{
		Date:       date,
		BusinessID: 1,
		ServiceID:  3,
		Slots:      []string{"09:00", "09:30"},
	}}

	rec := serve(t, uc, "/businesses/1/availability?service_id=3&date=2026-03-02&employee_id=7")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got.EmployeeID)
	assert.Equal(t, int64(7), *uc.got.EmployeeID)
	assert.Equal(t, date, uc.got.Date)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"09:00", "09:30"}, body["available_slots"])
	assert.Equal(t, "2026-03-02", body["date"])
}

func TestHandle_EmptySlotsIsArray(t *testing.T) {
	uc := &useCaseFake{resp: &getAvailableSlots.Response{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}}

	rec := serve(t, uc, "/businesses/1/availability?service_id=3&date=2026-03-02")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available_slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad business id", target: "/businesses/abc/availability?service_id=3&date=2026-03-02", wantStatus: http.StatusBadRequest},
		{name: "missing service", target: "/businesses/1/availability?date=2026-03-02", wantStatus: http.StatusUnprocessableEntity},
		{name: "bad date", target: "/businesses/1/availability?service_id=3&date=02.03.2026", wantStatus: http.StatusUnprocessableEntity},
		{name: "service not found", target: "/businesses/1/availability?service_id=3&date=2026-03-02", err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "past date", target: "/businesses/1/availability?service_id=3&date=2026-03-02", err: getAvailableSlots.ErrInvalidInput, wantStatus: http.StatusUnprocessableEntity},
		{name: "storage timeout", target: "/businesses/1/availability?service_id=3&date=2026-03-02", err: getAvailableSlots.ErrUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", target: "/businesses/1/availability?service_id=3&date=2026-03-02", err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &useCaseFake{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_ValidationBody(t *testing.T) {
	rec := serve(t, &useCaseFake{}, "/businesses/1/availability?employee_id=-1")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"is required"}, body.Errors["service_id"])
	assert.Equal(t, []string{"is required"}, body.Errors["date"])
	assert.Equal(t, []string{"must be a positive integer"}, body.Errors["employee_id"])
}
