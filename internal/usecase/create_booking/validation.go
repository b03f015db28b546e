package create_booking

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BookingEngine/internal/availability"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

const maxIdempotencyKeyLength = 255

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalizeRequest trims and lowercases customer data and collects field errors
func normalizeRequest(req *Request) (*Request, error) {
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: business_id must be positive", ErrInvalidInput)
	}

	v := domain.NewValidationError()
	out := *req

	if req.ServiceID <= 0 {
		v.Add("service_id", "is required")
	}

	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		v.Add("employee_id", "must be positive")
	}

	if req.Date.IsZero() {
		v.Add("date", "is required")
	}

	if req.StartTime.IsZero() {
		v.Add("time", "is required")
	} else if t, err := types.NewTimeStringFromString(string(req.StartTime)); err != nil {
		v.Add("time", "must be in HH:MM format")
	} else {
		out.StartTime = t
	}

	out.CustomerName = strings.TrimSpace(req.CustomerName)
	switch n := utf8.RuneCountInString(out.CustomerName); {
	case n < domain.MinCustomerNameLength:
		v.Add("customer_name", fmt.Sprintf("must be at least %d characters", domain.MinCustomerNameLength))
	case n > domain.MaxCustomerNameLength:
		v.Add("customer_name", fmt.Sprintf("must be at most %d characters", domain.MaxCustomerNameLength))
	}

	out.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	switch {
	case out.CustomerEmail == "":
		v.Add("customer_email", "is required")
	case len(out.CustomerEmail) > domain.MaxCustomerEmailLength || !emailPattern.MatchString(out.CustomerEmail):
		v.Add("customer_email", "must be a valid email address")
	}

	out.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if len(out.IdempotencyKey) > maxIdempotencyKeyLength {
		v.Add("idempotency_key", fmt.Sprintf("must be at most %d characters", maxIdempotencyKeyLength))
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &out, nil
}

// planError turns a date or start time rejection into a field error
func planError(err error) error {
	v := domain.NewValidationError()
	switch {
	case errors.Is(err, availability.ErrDateInPast):
		v.Add("date", "must not be in the past")
	case errors.Is(err, availability.ErrBeyondHorizon):
		v.Add("date", "is too far in the future")
	case errors.Is(err, availability.ErrTooSoon):
		v.Add("time", "is too soon, choose a later time")
	case errors.Is(err, availability.ErrOutsideWorkingHours):
		v.Add("time", "is outside working hours")
	case errors.Is(err, availability.ErrNotOnGrid):
		v.Add("time", "is not an available slot")
	case errors.Is(err, availability.ErrSkippedLocalTime):
		v.Add("time", "does not exist on this date")
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return v
}

// requestHash fingerprints a normalized request for idempotent replays
func requestHash(req *Request) string {
	employee := "-"
	if req.EmployeeID != nil {
		employee = fmt.Sprintf("%d", *req.EmployeeID)
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{
		fmt.Sprintf("%d", req.BusinessID),
		fmt.Sprintf("%d", req.ServiceID),
		employee,
		req.Date.Format(domain.DateFormat),
		req.StartTime.String(),
		req.CustomerName,
		req.CustomerEmail,
	}, "|")))
	return hex.EncodeToString(sum[:])
}
