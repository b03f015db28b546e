package export_bookings

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers/list_bookings"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	msgInvalidBusinessID = "invalid business id"
	msgMissingUser       = "authentication required"
	msgForbidden         = "access denied"
	msgBusinessNotFound  = "business not found"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /businesses/{id}/bookings/export
// Accepts the same filters as the listing and answers with an xlsx attachment.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings/export - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	serviceReq, err := list_bookings.ToServiceRequest(businessID, r)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings/export - Invalid parameters: %v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	// Buffer the workbook so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), actor, serviceReq, &buf); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /businesses/{id}/bookings/export - Access denied: business_id=%d, user_id=%d",
				businessID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("GET /businesses/{id}/bookings/export - Failed to export bookings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bookings-%d.xlsx"`, businessID))
	size := buf.Len()
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /businesses/{id}/bookings/export - Bookings exported: business_id=%d, bytes=%d", businessID, size)
}
