package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	createBooking "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
)

const (
	// HeaderIdempotencyKey optional client key that makes retries safe
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderReplayed set when the response repeats an earlier booking for the same key
	HeaderReplayed = "Idempotent-Replayed"

	msgInvalidRequestBody = "invalid request body"
	msgSlotTaken          = "the selected time slot is already taken, choose another"
	msgKeyReused          = "idempotency key was already used for a different request"
	msgBusinessNotFound   = "business not found"
	msgServiceNotFound    = "service not found"
	msgEmployeeNotFound   = "employee not found"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: business_id=%d, date=%s, time=%s",
				req.BusinessID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrIdempotencyKeyReused):
			h.logger.Warn("POST /bookings - Idempotency key reused: business_id=%d", req.BusinessID)
			handlers.RespondUnprocessable(w, msgKeyReused)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrEmployeeNotFound):
			h.logger.Warn("POST /bookings - Employee not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: business_id=%d, error=%v", req.BusinessID, err)
			handlers.RespondDomainError(w, err)

		case errors.Is(err, domain.ErrTransient):
			h.logger.Warn("POST /bookings - Storage unavailable: business_id=%d, error=%v", req.BusinessID, err)
			handlers.RespondUnavailable(w, handlers.DefaultRetryAfter)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: business_id=%d, error=%v", req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Replayed {
		w.Header().Set(HeaderReplayed, "true")
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, business_id=%d, replayed=%t",
		result.Booking.ID, result.Booking.BusinessID, result.Replayed)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, h.location))
}
