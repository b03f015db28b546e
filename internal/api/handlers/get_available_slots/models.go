package get_available_slots

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	BusinessID     int64    `json:"business_id"`
	ServiceID      int64    `json:"service_id"`
	EmployeeID     *int64   `json:"employee_id"`
	AvailableSlots []string `json:"available_slots"`
}

// FromUseCaseResponse converts the use case result to the HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []string{}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		EmployeeID:     resp.EmployeeID,
		AvailableSlots: slots,
	}
}

// ToUseCaseRequest reads service_id, date and employee_id from the query string.
// Missing or malformed values are reported per field.
func ToUseCaseRequest(businessID int64, r *http.Request) (*getAvailableSlots.Request, error) {
	query := r.URL.Query()
	v := domain.NewValidationError()
	req := &getAvailableSlots.Request{BusinessID: businessID}

	if raw := strings.TrimSpace(query.Get("service_id")); raw == "" {
		v.Add("service_id", "is required")
	} else if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
		v.Add("service_id", "must be a positive integer")
	} else {
		req.ServiceID = id
	}

	if raw := strings.TrimSpace(query.Get("date")); raw == "" {
		v.Add("date", "is required")
	} else if d, err := time.Parse(domain.DateFormat, raw); err != nil {
		v.Add("date", "must be a date in YYYY-MM-DD format")
	} else {
		req.Date = d
	}

	if raw := strings.TrimSpace(query.Get("employee_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			v.Add("employee_id", "must be a positive integer")
		} else {
			req.EmployeeID = &id
		}
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return req, nil
}
