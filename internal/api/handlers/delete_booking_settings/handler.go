package delete_booking_settings

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
	msgNotFound          = "booking settings not found"
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

// Handle DELETE /businesses/{id}/booking-settings
// Query params: service_id (optional); without it the business-wide row is removed.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/booking-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "service_id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	if err := h.service.Delete(r.Context(), actor, businessID, serviceID); err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotFound), errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("DELETE /businesses/{id}/booking-settings - Not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("DELETE /businesses/{id}/booking-settings - Access denied: business_id=%d, user_id=%d",
				businessID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/booking-settings - Failed to delete settings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/booking-settings - Settings deleted: business_id=%d", businessID)
	handlers.RespondNoContent(w)
}
