package get_booking_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings"
)

const (
	msgInvalidBusinessID = "invalid business id"
	msgInvalidServiceID  = "invalid service_id"
	msgMissingUser       = "authentication required"
	msgForbidden         = "access denied"
	msgBusinessNotFound  = "business not found"
	msgServiceNotFound   = "service not found"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /businesses/{id}/booking-settings
// Query params: service_id (optional)
// Answers with defaults and source "default" when nothing is stored.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/booking-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "service_id")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/booking-settings - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.Get(r.Context(), actor, businessID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/booking-settings - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /businesses/{id}/booking-settings - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /businesses/{id}/booking-settings - Access denied: business_id=%d, user_id=%d",
				businessID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/booking-settings - Failed to get settings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/booking-settings - Settings retrieved: business_id=%d, source=%s",
		businessID, result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}
