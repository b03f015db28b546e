package bookingclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrSlotTaken 409, the slot was booked by someone else
	ErrSlotTaken = errors.New("bookingclient: slot already taken")

	// ErrUnauthorized 401, missing, expired or wrong credentials
	ErrUnauthorized = errors.New("bookingclient: unauthorized")

	// ErrForbidden 403, the session may not manage this business
	ErrForbidden = errors.New("bookingclient: forbidden")

	// ErrNotFound 404
	ErrNotFound = errors.New("bookingclient: not found")

	// ErrUnavailable 503 or 429; see UnavailableError.RetryAfter
	ErrUnavailable = errors.New("bookingclient: temporarily unavailable")

	// ErrUnexpectedStatus any other non-2xx answer
	ErrUnexpectedStatus = errors.New("bookingclient: unexpected status")
)

// ValidationError 422 answer. Fields is empty when the server sent only a message.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "bookingclient: validation failed: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "bookingclient: validation failed: " + strings.Join(parts, "; ")
}

// UnavailableError carries the server's Retry-After hint
type UnavailableError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("bookingclient: status %d, retry after %s", e.StatusCode, e.RetryAfter)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}
