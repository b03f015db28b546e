package businesses

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/businesses"
	"github.com/m04kA/SMC-BookingEngine/internal/service/businesses/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgNotFound           = "business not found"
	msgForbidden          = "access denied"
	msgSlugExhausted      = "no free slug is left for this name, choose another name"
)

// Handler business management endpoints
type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /businesses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.CreateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	business, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.respondError(w, "POST /businesses", err)
		return
	}

	h.logger.Info("POST /businesses - Business created: business_id=%d, slug=%s", business.ID, business.Slug)
	handlers.RespondJSON(w, http.StatusCreated, business)
}

// List GET /businesses
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, "GET /businesses", err)
		return
	}

	h.logger.Info("GET /businesses - Businesses retrieved: user_id=%d, count=%d", actor.UserID, len(result.Data))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /businesses/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.target(w, r, "GET /businesses/{id}")
	if !ok {
		return
	}

	business, err := h.service.Get(r.Context(), actor, businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, business)
}

// GetBySlug GET /businesses/slug/{slug}, public
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])

	business, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		h.respondError(w, "GET /businesses/slug/{slug}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, business)
}

// Update PUT /businesses/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.target(w, r, "PUT /businesses/{id}")
	if !ok {
		return
	}

	var req models.UpdateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	business, err := h.service.Update(r.Context(), actor, businessID, &req)
	if err != nil {
		h.respondError(w, "PUT /businesses/{id}", err)
		return
	}

	h.logger.Info("PUT /businesses/{id} - Business updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, business)
}

// Delete DELETE /businesses/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.target(w, r, "DELETE /businesses/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, businessID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{id} - Business deleted: business_id=%d", businessID)
	handlers.RespondNoContent(w)
}

// target reads the business id and the caller, answering 400/401 itself
func (h *Handler) target(w http.ResponseWriter, r *http.Request, route string) (int64, domain.Actor, bool) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid business ID: %v", route, err)
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
	case errors.Is(err, businesses.ErrSlugExhausted):
		h.logger.Warn("%s - Slug exhausted: %v", route, err)
		handlers.RespondConflict(w, msgSlugExhausted)

	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("%s - Business not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, domain.ErrForbidden):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrInvalidInput):
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondDomainError(w, err)

	default:
		h.logger.Error("%s - Request failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
