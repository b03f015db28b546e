package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	msgInternalError = "internal server error"
	msgNotFound      = "resource not found"
	msgForbidden     = "access denied"
	msgConflict      = "request conflicts with the current state"
	msgUnavailable   = "service temporarily unavailable, retry later"
	msgInvalidInput  = "the given data was invalid"

	// DefaultRetryAfter hint sent with 503 when the caller has no better estimate
	DefaultRetryAfter = time.Second
)

// ErrorResponse body of every non-validation error
type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationResponse body of a 422 with field messages
type ValidationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// RespondJSON writes data as JSON with the given status
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondUnprocessable 422 with a single message
func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnprocessableEntity, message)
}

// RespondValidation 422 with {"errors": {field: [msg]}}
func RespondValidation(w http.ResponseWriter, fields map[string][]string) {
	RespondJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		Message: msgInvalidInput,
		Errors:  fields,
	})
}

// RespondUnavailable 503 with a Retry-After header in whole seconds
func RespondUnavailable(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	RespondError(w, http.StatusServiceUnavailable, msgUnavailable)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError maps the shared error taxonomy to a status code.
// Handlers match their specific errors first and fall back to this.
func RespondDomainError(w http.ResponseWriter, err error) {
	if fields, ok := domain.FieldErrors(err); ok {
		RespondValidation(w, fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		RespondUnprocessable(w, msgInvalidInput)
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, msgNotFound)
	case errors.Is(err, domain.ErrForbidden):
		RespondForbidden(w, msgForbidden)
	case errors.Is(err, domain.ErrConflict):
		RespondConflict(w, msgConflict)
	case errors.Is(err, domain.ErrTransient):
		RespondUnavailable(w, DefaultRetryAfter)
	default:
		RespondInternalError(w)
	}
}
