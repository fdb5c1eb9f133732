package http

import (
	"net/http"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employment"
	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmploymentHandler interface {
	Assign(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Terminate(w http.ResponseWriter, r *http.Request)
}

type employmentHandlerImpl struct {
	employmentService employment.EmploymentService
}

func NewEmploymentHandler(employmentService employment.EmploymentService) EmploymentHandler {
	return &employmentHandlerImpl{employmentService: employmentService}
}

// Assign implements EmploymentHandler
func (h *employmentHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req employment.AssignRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.employmentService.Assign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee assigned successfully", result)
}

// History implements EmploymentHandler
func (h *employmentHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.employmentService.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Current implements EmploymentHandler
func (h *employmentHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	current, err := h.employmentService.GetCurrent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employment.ToResponse(current))
}

// Get implements EmploymentHandler
func (h *employmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.employmentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements EmploymentHandler
func (h *employmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employment.UpdateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employment updated successfully", result)
}

// Terminate implements EmploymentHandler
func (h *employmentHandlerImpl) Terminate(w http.ResponseWriter, r *http.Request) {
	var req employment.TerminateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employmentService.Terminate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employment terminated successfully", result)
}
