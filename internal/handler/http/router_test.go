package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/company"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employment"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/rateschedule"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct {
	rateschedule.RateScheduleService
}

func (stubRates) Resolve(_ context.Context, c employee.Category, s employee.SubCategory, asOf time.Time) (rateschedule.Schedule, error) {
	if s == employee.SubCategorySkilled {
		return rateschedule.Schedule{ID: "rs-1", Category: c, SubCategory: s, RatePerDay: decimal.NewFromInt(600), EffectiveFrom: asOf}, nil
	}
	return rateschedule.Schedule{}, apperror.UnresolvedRate(rateschedule.ErrUnresolvedRate,
		map[string]string{"category": string(c), "sub_category": string(s), "as_of": asOf.Format("2006-01-02")}, "no rate")
}

type stubEmployments struct {
	employment.EmploymentService
	assigned []employment.AssignRequest
}

func (s *stubEmployments) Assign(_ context.Context, req employment.AssignRequest) (employment.EmploymentResponse, error) {
	s.assigned = append(s.assigned, req)
	if len(s.assigned) > 1 {
		return employment.EmploymentResponse{}, apperror.Conflict(employment.ErrActiveEmploymentExists, "employment", "h-1", "already active")
	}
	return employment.EmploymentResponse{ID: "h-1", EmployeeID: req.EmployeeID, CompanyID: req.CompanyID, Status: "ACTIVE"}, nil
}

type stubTemplates struct {
	salarytemplate.TemplateService
	last salarytemplate.ToggleFieldRequest
}

func (s *stubTemplates) Toggle(_ context.Context, req salarytemplate.ToggleFieldRequest) (salarytemplate.TemplateResponse, error) {
	s.last = req
	if err := req.Validate(); err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return salarytemplate.TemplateResponse{CompanyID: req.CompanyID, Version: 2}, nil
}

type stubPayslips struct {
	payslip.PayslipService
}

func (stubPayslips) Generate(_ context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}
	return payslip.PayslipResponse{EmployeeID: req.EmployeeID, Period: "2024-03", NetPay: decimal.NewFromInt(15087)}, nil
}

type stubCompanies struct {
	company.CompanyService
}

func (stubCompanies) GetByID(_ context.Context, id string) (company.CompanyResponse, error) {
	return company.CompanyResponse{}, apperror.NotFound(company.ErrCompanyNotFound, "company", id)
}

type testServer struct {
	router      http.Handler
	token       string
	employments *stubEmployments
	templates   *stubTemplates
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService := jwt.NewJWTService("router-test-secret")
	_, token, err := jwtService.JWTAuth().Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "co-1",
		"role":       "payroll_admin",
		"type":       "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	employments := &stubEmployments{}
	templates := &stubTemplates{}
	router := NewRouter(jwtService, Handlers{
		RateSchedule:   NewRateScheduleHandler(stubRates{}),
		Employee:       NewEmployeeHandler(nil),
		Employment:     NewEmploymentHandler(employments),
		Company:        NewCompanyHandler(stubCompanies{}),
		SalaryTemplate: NewSalaryTemplateHandler(templates),
		Payslip:        NewPayslipHandler(stubPayslips{}),
	}, RouterOptions{Env: "test", LogLevel: slog.LevelError})

	return &testServer{router: router, token: token, employments: employments, templates: templates}
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var parsed response.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/api/v1/rate-schedules/resolve?category=CENTRAL&sub_category=SKILLED&as_of=2024-03-01", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestRouter_ResolveRate(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/api/v1/rate-schedules/resolve?category=central&sub_category=skilled&as_of=2024-03-01", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	rec, body = srv.do(t, http.MethodGet, "/api/v1/rate-schedules/resolve?category=CENTRAL&sub_category=UNSKILLED&as_of=2024-03-01", "", true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNRESOLVED_RATE", body.Error.Code)
	assert.Equal(t, "UNSKILLED", body.Error.Details["sub_category"])
	assert.Equal(t, "2024-03-01", body.Error.Details["as_of"])

	rec, body = srv.do(t, http.MethodGet, "/api/v1/rate-schedules/resolve?category=SPECIALIZED&sub_category=SKILLED&as_of=march", "", true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "category")
	assert.Contains(t, body.Error.Details, "as_of")
}

func TestRouter_AssignConflict(t *testing.T) {
	srv := newTestServer(t)
	payload := `{"company_id":"co-1","designation":"Guard","department":"Ops","salary":"15000","joining_date":"2024-01-01"}`

	rec, _ := srv.do(t, http.MethodPost, "/api/v1/employees/e1/employments", payload, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, srv.employments.assigned, 1)
	assert.Equal(t, "e1", srv.employments.assigned[0].EmployeeID)

	rec, body := srv.do(t, http.MethodPost, "/api/v1/employees/e1/employments", payload, true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, "h-1", body.Error.Details["record_id"])
}

func TestRouter_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/api/v1/employees/e1/employments", `{"salary":`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestRouter_ToggleField(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPut, "/api/v1/companies/co-1/salary-template/fields/hra/enabled", `{"enabled":false,"version":3}`, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "co-1", srv.templates.last.CompanyID)
	assert.Equal(t, "hra", srv.templates.last.Key)
	require.NotNil(t, srv.templates.last.Version)
	assert.Equal(t, 3, *srv.templates.last.Version)

	rec, body := srv.do(t, http.MethodPut, "/api/v1/companies/co-1/salary-template/fields/hra/enabled", `{}`, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body.Error.Details, "enabled")
}

func TestRouter_GeneratePayslip(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodPost, "/api/v1/employees/e1/payslips", `{"year":2024,"month":3}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "e1", data["employee_id"])
	assert.Equal(t, "15087", data["net_pay"])
}

func TestRouter_CompanyNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec, body := srv.do(t, http.MethodGet, "/api/v1/companies/co-404", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "co-404", body.Error.Details["record_id"])
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dst map[string]interface{}

	assert.NoError(t, decodeJSON(httptest.NewRecorder(), req, &dst, true))
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.True(t, errors.Is(decodeJSON(httptest.NewRecorder(), req, &dst, false), errEmptyBody))
}
