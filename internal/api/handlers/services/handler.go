package services

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/catalog"
	"github.com/m04kA/SMC-BookingEngine/internal/service/catalog/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidServiceID   = "invalid service id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgNotFound           = "service not found"
	msgForbidden          = "access denied"
	msgServiceInUse       = "the service has upcoming bookings"
)

// Handler service catalog endpoints; listing and reading are public
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /businesses/{id}/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.List(r.Context(), businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/services", err)
		return
	}

	h.logger.Info("GET /businesses/{id}/services - Services retrieved: business_id=%d, count=%d", businessID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /businesses/{id}/services/{serviceId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, serviceID, ok := h.ids(w, r)
	if !ok {
		return
	}

	result, err := h.service.Get(r.Context(), businessID, serviceID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/services/{serviceId}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /businesses/{id}/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, businessID, &req)
	if err != nil {
		h.respondError(w, "POST /businesses/{id}/services", err)
		return
	}

	h.logger.Info("POST /businesses/{id}/services - Service created: business_id=%d, service_id=%d", businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PUT /businesses/{id}/services/{serviceId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, serviceID, ok := h.ids(w, r)
	if !ok {
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.ServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/services/{serviceId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), actor, businessID, serviceID, &req)
	if err != nil {
		h.respondError(w, "PUT /businesses/{id}/services/{serviceId}", err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/services/{serviceId} - Service updated: service_id=%d", serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /businesses/{id}/services/{serviceId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, serviceID, ok := h.ids(w, r)
	if !ok {
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	if err := h.service.Delete(r.Context(), actor, businessID, serviceID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/services/{serviceId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/services/{serviceId} - Service deleted: service_id=%d", serviceID)
	handlers.RespondNoContent(w)
}

func (h *Handler) ids(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return 0, 0, false
	}
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return 0, 0, false
	}
	return businessID, serviceID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, catalog.ErrServiceInUse):
		h.logger.Warn("%s - Service in use: %v", route, err)
		handlers.RespondConflict(w, msgServiceInUse)

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
