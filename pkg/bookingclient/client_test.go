package bookingclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/1/availability", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("service_id"))
		assert.Equal(t, "2026-03-02", r.URL.Query().Get("date"))
		assert.Equal(t, "7", r.URL.Query().Get("employee_id"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"date":"2026-03-02","business_id":1,"service_id":3,"employee_id":7,"available_slots":["09:00","09:30"]}`))
	}))
	defer srv.Close()

	employeeID := int64(7)
	got, err := New(srv.URL+"/", srv.Client(), Session{}).Availability(context.Background(), AvailabilityQuery{
		BusinessID: 1,
		ServiceID:  3,
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, got.AvailableSlots)
}

func TestCreateBooking_IdempotencyKey(t *testing.T) {
	keys := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get("Idempotency-Key")

		var body CreateBookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "09:30", body.Time)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"booking":{"id":42,"business_id":1,"status":"confirmed","service":{"name":"Haircut","duration_minutes":30,"price":"25.5"}}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, srv.Client(), Session{})
	req := CreateBookingRequest{BusinessID: 1, ServiceID: 3, CustomerName: "Jane", CustomerEmail: "jane@example.com", Date: "2026-03-02", Time: "09:30"}

	booking, err := client.CreateBooking(context.Background(), req, "fixed-key")
	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, "25.5", booking.Service.Price.String())

	_, err = client.CreateBooking(context.Background(), req, "")
	require.NoError(t, err)

	assert.Equal(t, "fixed-key", <-keys)
	_, err = uuid.Parse(<-keys)
	assert.NoError(t, err, "generated key is a uuid")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		headers map[string]string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "conflict",
			status: http.StatusConflict,
			body:   `{"message":"taken"}`,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrSlotTaken) },
		},
		{
			name:   "validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"the given data was invalid","errors":{"customer_email":["must be a valid email address"]}}`,
			check: func(t *testing.T, err error) {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, []string{"must be a valid email address"}, vErr.Fields["customer_email"])
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"invalid or expired token"}`,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnauthorized) },
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"message":"service not found"}`,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotFound) },
		},
		{
			name:    "unavailable",
			status:  http.StatusServiceUnavailable,
			body:    `{"message":"retry later"}`,
			headers: map[string]string{"Retry-After": "3"},
			check: func(t *testing.T, err error) {
				assert.True(t, IsRetryable(err))
				var uErr *UnavailableError
				require.True(t, errors.As(err, &uErr))
				assert.Equal(t, 3*time.Second, uErr.RetryAfter)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"message":"internal server error"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnexpectedStatus)
				assert.False(t, IsRetryable(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.Client(), Session{}).CreateBooking(context.Background(), CreateBookingRequest{}, "k")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestWithSession(t *testing.T) {
	auth := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		assert.Equal(t, "confirmed", r.URL.Query().Get("status"))
		assert.Equal(t, "true", r.URL.Query().Get("include_cancelled"))
		_, _ = w.Write([]byte(`[{"id":1,"status":"confirmed"}]`))
	}))
	defer srv.Close()

	base := New(srv.URL, srv.Client(), Session{})
	owner := base.WithSession(Session{Token: "abc"})

	got, err := owner.ListBookings(context.Background(), 1, BookingFilter{Status: "confirmed", IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Bearer abc", <-auth)

	_, err = base.ListBookings(context.Background(), 1, BookingFilter{Status: "confirmed", IncludeCancelled: true})
	require.NoError(t, err)
	assert.Empty(t, <-auth, "the original client keeps its own session")
}
