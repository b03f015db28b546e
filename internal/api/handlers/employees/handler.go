package employees

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/employees"
	"github.com/m04kA/SMC-BookingEngine/internal/service/employees/models"
)

const (
	msgInvalidBusinessID  = "invalid business id"
	msgInvalidEmployeeID  = "invalid employee id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUser        = "authentication required"
	msgNotFound           = "employee not found"
	msgForbidden          = "access denied"
	msgHasBookings        = "the employee has bookings, deactivate instead"
)

type Handler struct {
	service EmployeeService
	logger  Logger
}

func NewHandler(service EmployeeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListPublic GET /businesses/{id}/employees, active employees for the booking flow
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	result, err := h.service.ListPublic(r.Context(), businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/employees", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /businesses/{id}/employees/admin, every employee with contact data
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), actor, businessID)
	if err != nil {
		h.respondError(w, "GET /businesses/{id}/employees/admin", err)
		return
	}

	h.logger.Info("GET /businesses/{id}/employees/admin - Employees retrieved: business_id=%d, count=%d", businessID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /businesses/{id}/employees
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}

	var req models.EmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/employees - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, businessID, &req)
	if err != nil {
		h.respondError(w, "POST /businesses/{id}/employees", err)
		return
	}

	h.logger.Info("POST /businesses/{id}/employees - Employee created: business_id=%d, employee_id=%d", businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PUT /businesses/{id}/employees/{employeeId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}
	employeeID, err := handlers.PathInt64(r, "employeeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	var req models.EmployeeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/employees/{employeeId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), actor, businessID, employeeID, &req)
	if err != nil {
		h.respondError(w, "PUT /businesses/{id}/employees/{employeeId}", err)
		return
	}

	h.logger.Info("PUT /businesses/{id}/employees/{employeeId} - Employee updated: employee_id=%d", employeeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /businesses/{id}/employees/{employeeId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, actor, ok := h.business(w, r)
	if !ok {
		return
	}
	employeeID, err := handlers.PathInt64(r, "employeeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, businessID, employeeID); err != nil {
		h.respondError(w, "DELETE /businesses/{id}/employees/{employeeId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{id}/employees/{employeeId} - Employee deleted: employee_id=%d", employeeID)
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
	case errors.Is(err, employees.ErrEmployeeNotFound):
		h.logger.Warn("%s - Employee not found: %v", route, err)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, employees.ErrEmployeeHasBookings):
		h.logger.Warn("%s - Employee has bookings: %v", route, err)
		handlers.RespondConflict(w, msgHasBookings)

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
