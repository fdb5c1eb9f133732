package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type SalaryTemplateHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	ListEnabledFields(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
	SetDefaultValue(w http.ResponseWriter, r *http.Request)
	SetValidationRule(w http.ResponseWriter, r *http.Request)
	AddCustomField(w http.ResponseWriter, r *http.Request)
	UpdateCustomField(w http.ResponseWriter, r *http.Request)
	RemoveCustomField(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type salaryTemplateHandlerImpl struct {
	templateService salarytemplate.TemplateService
}

func NewSalaryTemplateHandler(templateService salarytemplate.TemplateService) SalaryTemplateHandler {
	return &salaryTemplateHandlerImpl{templateService: templateService}
}

// versionFromQuery reads the optional ?version= guard used by bodiless requests.
func versionFromQuery(r *http.Request) (salarytemplate.VersionGuard, error) {
	raw := r.URL.Query().Get("version")
	if raw == "" {
		return salarytemplate.VersionGuard{}, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return salarytemplate.VersionGuard{}, validator.Single("version", "must be an integer")
	}
	return salarytemplate.VersionGuard{Version: &v}, nil
}

// Get implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.templateService.Get(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEnabledFields implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) ListEnabledFields(w http.ResponseWriter, r *http.Request) {
	filter := salarytemplate.EnabledFieldsFilter{Purpose: queryString(r, "purpose")}

	fields, err := h.templateService.ListEnabledFields(r.Context(), chi.URLParam(r, "companyID"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, fields)
}

// Toggle implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	var req salarytemplate.ToggleFieldRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = chi.URLParam(r, "companyID")
	req.Key = chi.URLParam(r, "key")

	result, err := h.templateService.Toggle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Field updated successfully", result)
}

// SetDefaultValue implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) SetDefaultValue(w http.ResponseWriter, r *http.Request) {
	var req salarytemplate.SetDefaultValueRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = chi.URLParam(r, "companyID")
	req.Key = chi.URLParam(r, "key")

	result, err := h.templateService.SetDefaultValue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Default value updated successfully", result)
}

// SetValidationRule implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) SetValidationRule(w http.ResponseWriter, r *http.Request) {
	var req salarytemplate.SetValidationRuleRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = chi.URLParam(r, "companyID")
	req.Key = chi.URLParam(r, "key")

	result, err := h.templateService.SetValidationRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Validation rule updated successfully", result)
}

// AddCustomField implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) AddCustomField(w http.ResponseWriter, r *http.Request) {
	var req salarytemplate.CustomFieldRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = chi.URLParam(r, "companyID")

	result, err := h.templateService.AddCustomField(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Custom field added successfully", result)
}

// UpdateCustomField implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) UpdateCustomField(w http.ResponseWriter, r *http.Request) {
	var req salarytemplate.CustomFieldRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = chi.URLParam(r, "companyID")
	req.Key = chi.URLParam(r, "key")

	result, err := h.templateService.UpdateCustomField(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Custom field updated successfully", result)
}

// RemoveCustomField implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) RemoveCustomField(w http.ResponseWriter, r *http.Request) {
	guard, err := versionFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.templateService.RemoveCustomField(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "key"), guard)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Custom field removed successfully", result)
}

// Reset implements SalaryTemplateHandler
func (h *salaryTemplateHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	guard, err := versionFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.templateService.Reset(r.Context(), chi.URLParam(r, "companyID"), guard)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary template reset to defaults", result)
}
