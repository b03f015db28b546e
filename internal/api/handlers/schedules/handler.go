package schedules

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules"
	"github.com/m04kA/SMC-BookingEngine/internal/service/schedules/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidScheduleID  = "invalid schedule id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgNotFound           = "schedule not found"
	msgForbidden          = "access denied"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /businesses/{id}/schedules
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), actor, businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/schedules", err)
		return
	}

	h.logger.Info("GET /businesses/{id}/schedules - Schedules retrieved: business_id=%d, count=%d", businessID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /businesses/{id}/schedules
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}

	var req models.CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, businessID, &req)
	if err != nil {
		h.respondError(w, "POST /businesses/{id}/schedules", err)
		return
	}

	h.logger.Info("POST /businesses/{id}/schedules - Schedule created: business_id=%d, schedule_id=%d", businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /businesses/{id}/schedules/{scheduleId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}
	scheduleID, err := handlers.PathInt64(r, "scheduleId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, businessID, scheduleID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/schedules/{scheduleId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/schedules/{scheduleId} - Schedule deleted: schedule_id=%d", scheduleID)
	handlers.RespondNoContent(w)
}

func (h *Handler) business(w http.ResponseWriter, r *http.Request) (int64, domain.Actor, bool) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return 0, domain.Actor{}, false
	}
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return 0, domain.Actor{}, false
	}
	return businessID, actor, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, schedules.ErrScheduleNotFound):
		h.logger.Warn("%s - Schedule not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("%s - Rejected: %v", route, err)
		handlers.RespondDomainError(w, err)

	default:
		h.logger.Error("%s - Request failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
