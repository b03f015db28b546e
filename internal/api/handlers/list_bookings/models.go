package list_bookings

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/bookings/models"
)

// ToServiceRequest builds the list filter from the query string.
// Query params: status, date_from, date_to, employee_id, include_cancelled; all optional.
func ToServiceRequest(businessID int64, r *http.Request) (*models.ListBookingsRequest, error) {
	v := domain.NewValidationError()
	req := &models.ListBookingsRequest{BusinessID: businessID}

	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		req.Status = &status
	}

	employeeID, err := handlers.QueryInt64(r, "employee_id")
	if err != nil {
		v.Add("employee_id", "must be a positive integer")
	}
	req.EmployeeID = employeeID

	from, err := handlers.QueryDate(r, "date_from")
	if err != nil {
		v.Add("date_from", "must be a date in YYYY-MM-DD format")
	}
	req.DateFrom = from

	to, err := handlers.QueryDate(r, "date_to")
	if err != nil {
		v.Add("date_to", "must be a date in YYYY-MM-DD format")
	}
	req.DateTo = to

	includeCancelled, err := handlers.QueryBool(r, "include_cancelled")
	if err != nil {
		v.Add("include_cancelled", "must be true or false")
	}
	req.IncludeCancelled = includeCancelled

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}
