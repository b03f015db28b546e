package update_booking_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings"
	"github.com/m04kA/SMC-BookingEngine/internal/service/settings/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgForbidden          = "access denied"
	msgBusinessNotFound   = "business not found"
	msgServiceNotFound    = "service not found"
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

// Handle PUT /businesses/{id}/booking-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/booking-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.UpsertSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/booking-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), actor, businessID, &req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrServiceNotFound):
			h.logger.Warn("PUT /businesses/{id}/booking-settings - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PUT /businesses/{id}/booking-settings - Access denied: business_id=%d, user_id=%d",
				businessID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/booking-settings - Validation failed: %v", err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /businesses/{id}/booking-settings - Failed to save settings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/booking-settings - Settings saved: business_id=%d, source=%s",
		businessID, result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}
