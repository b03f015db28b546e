package pages

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidBlockID     = "invalid block id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgBlockNotFound      = "page block not found"
	msgForbidden          = "access denied"
)

// Handler landing page builder endpoints
type Handler struct {
	service PageService
	logger  Logger
}

func NewHandler(service PageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /businesses/{id}/page, public
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	page, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/page", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, page)
}

// Save PUT /businesses/{id}/page/blocks
// The body holds the full ordered block list; blocks missing from it are removed.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
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

	var req models.SavePageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/page/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	page, err := h.service.Save(r.Context(), actor, businessID, &req)
	if err != nil {
		h.respondError(w, "PUT /businesses/{id}/page/blocks", err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/page/blocks - Page saved: business_id=%d, blocks=%d", businessID, len(page.Blocks))
	handlers.RespondJSON(w, http.StatusOK, page)
}

// DeleteBlock DELETE /businesses/{id}/page/blocks/{blockId}
func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}
	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), actor, businessID, blockID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/page/blocks/{blockId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/page/blocks/{blockId} - Block deleted: block_id=%d", blockID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, pages.ErrBlockNotFound):
		h.logger.Warn("%s - Block not found: %v", route, err)
		handlers.RespondNotFound(w, msgBlockNotFound)

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
