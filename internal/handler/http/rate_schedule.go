package http

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/rateschedule"
	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type RateScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type rateScheduleHandlerImpl struct {
	rateScheduleService rateschedule.RateScheduleService
}

func NewRateScheduleHandler(rateScheduleService rateschedule.RateScheduleService) RateScheduleHandler {
	return &rateScheduleHandlerImpl{rateScheduleService: rateScheduleService}
}

// Create implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req rateschedule.CreateRateScheduleRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.rateScheduleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rate schedule created successfully", result)
}

// Get implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateScheduleService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := rateschedule.RateScheduleFilter{
		Category:    queryString(r, "category"),
		SubCategory: queryString(r, "sub_category"),
		ActiveOnly:  r.URL.Query().Get("active") == "true",
		Page:        queryInt(r, "page", 1),
		Limit:       queryInt(r, "limit", 20),
	}
	if asOf := queryString(r, "as_of"); asOf != nil {
		date, ok := validator.IsValidDate(*asOf)
		if !ok {
			response.HandleError(w, validator.Single("as_of", "must be in YYYY-MM-DD format"))
			return
		}
		filter.AsOf = &date
	}

	result, err := h.rateScheduleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// Update implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req rateschedule.UpdateRateScheduleRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.rateScheduleService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate schedule updated successfully", result)
}

// Delete implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rateScheduleService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// Resolve implements RateScheduleHandler
func (h *rateScheduleHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := rateschedule.ResolveRateRequest{
		Category:    q.Get("category"),
		SubCategory: q.Get("sub_category"),
		AsOf:        q.Get("as_of"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	asOf, _ := validator.IsValidDate(req.AsOf)

	found, err := h.rateScheduleService.Resolve(r.Context(),
		employee.Category(strings.ToUpper(req.Category)),
		employee.SubCategory(strings.ToUpper(req.SubCategory)),
		asOf,
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rateschedule.ToResponse(found))
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
