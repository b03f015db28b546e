package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID = "invalid business id"
	msgBusinessNotFound  = "business not found"
	msgServiceNotFound   = "service not found"
	msgEmployeeNotFound  = "employee not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /businesses/{id}/availability
// Query params: service_id (required), date (required, YYYY-MM-DD), employee_id (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, r)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid query: business_id=%d, error=%v", businessID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Service not found: business_id=%d, service_id=%d",
				businessID, useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Employee not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrTransient):
			h.logger.Warn("GET /businesses/{id}/availability - Rejected: business_id=%d, error=%v", businessID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /businesses/{id}/availability - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				businessID, useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability - Slots retrieved: business_id=%d, service_id=%d, slots_count=%d",
		businessID, useCaseReq.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
