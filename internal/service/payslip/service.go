package payslip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/company"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employment"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/rateschedule"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type PayslipServiceImpl struct {
	payslip.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	employmentRepo employment.EmploymentRepository
	companyRepo    company.CompanyRepository
	employments    employment.EmploymentService
	templates      salarytemplate.TemplateService
	rates          rateschedule.RateScheduleService
	workers        int
}

func NewPayslipService(
	attendanceRepo payslip.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	employmentRepo employment.EmploymentRepository,
	companyRepo company.CompanyRepository,
	employments employment.EmploymentService,
	templates salarytemplate.TemplateService,
	rates rateschedule.RateScheduleService,
	workers int,
) payslip.PayslipService {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &PayslipServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		employmentRepo:       employmentRepo,
		companyRepo:          companyRepo,
		employments:          employments,
		templates:            templates,
		rates:                rates,
		workers:              workers,
	}
}

// job is everything one payslip computation needs besides the template.
type job struct {
	employee   employee.Employee
	employment employment.History
	year       int
	month      int
	daysWorked *int
	asOf       time.Time
}

// Generate implements payslip.PayslipService.
func (s *PayslipServiceImpl) Generate(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payslip.PayslipResponse{}, apperror.NotFound(employee.ErrEmployeeNotFound, "employee", req.EmployeeID)
		}
		return payslip.PayslipResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	current, err := s.employments.GetCurrent(ctx, req.EmployeeID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	cfg, err := s.templates.Load(ctx, current.CompanyID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	fields, err := applyValues(cfg, req.Values)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	resp, err := s.compute(ctx, fields, job{
		employee:   emp,
		employment: current,
		year:       req.Year,
		month:      req.Month,
		daysWorked: req.DaysWorked,
		asOf:       req.AsOf(),
	})
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	slog.Info("Generated payslip",
		"employee_id", emp.ID,
		"employment_id", current.ID,
		"period", resp.Period,
		"net_pay", resp.NetPay.String(),
		"negative_net_pay", resp.NegativeNetPay,
	)
	return resp, nil
}

// GenerateForCompany implements payslip.PayslipService.
func (s *PayslipServiceImpl) GenerateForCompany(ctx context.Context, req payslip.CompanyRequest) (payslip.BatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.BatchResponse{}, err
	}

	if _, err := s.companyRepo.GetByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return payslip.BatchResponse{}, apperror.NotFound(company.ErrCompanyNotFound, "company", req.CompanyID)
		}
		return payslip.BatchResponse{}, fmt.Errorf("failed to get company: %w", err)
	}
	actives, err := s.employmentRepo.ListActiveByCompany(ctx, req.CompanyID)
	if err != nil {
		return payslip.BatchResponse{}, fmt.Errorf("failed to list active employments: %w", err)
	}
	cfg, err := s.templates.Load(ctx, req.CompanyID)
	if err != nil {
		return payslip.BatchResponse{}, err
	}
	fields, err := applyValues(cfg, req.Values)
	if err != nil {
		return payslip.BatchResponse{}, err
	}

	asOf := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	payslips := make([]*payslip.PayslipResponse, len(actives))
	failures := make([]*payslip.Failure, len(actives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, rec := range actives {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := s.computeFor(gctx, fields, rec, req.Year, req.Month, asOf)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				failures[i] = failureOf(rec, err)
				return nil
			}
			payslips[i] = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payslip.BatchResponse{}, err
	}

	batch := payslip.BatchResponse{
		CompanyID: req.CompanyID,
		Period:    payslip.Period{Year: req.Year, Month: time.Month(req.Month)}.String(),
		Payslips:  []payslip.PayslipResponse{},
		Failures:  []payslip.Failure{},
	}
	for i := range actives {
		if payslips[i] != nil {
			batch.Payslips = append(batch.Payslips, *payslips[i])
		}
		if failures[i] != nil {
			batch.Failures = append(batch.Failures, *failures[i])
		}
	}
	sort.SliceStable(batch.Payslips, func(a, b int) bool {
		return batch.Payslips[a].EmployeeName < batch.Payslips[b].EmployeeName
	})

	slog.Info("Generated company payslips",
		"company_id", req.CompanyID,
		"period", batch.Period,
		"generated", len(batch.Payslips),
		"failed", len(batch.Failures),
	)
	return batch, nil
}

func (s *PayslipServiceImpl) computeFor(ctx context.Context, fields []salarytemplate.Field, rec employment.History, year, month int, asOf time.Time) (payslip.PayslipResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payslip.PayslipResponse{}, apperror.NotFound(employee.ErrEmployeeNotFound, "employee", rec.EmployeeID)
		}
		return payslip.PayslipResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return s.compute(ctx, fields, job{
		employee:   emp,
		employment: rec,
		year:       year,
		month:      month,
		asOf:       asOf,
	})
}

func (s *PayslipServiceImpl) compute(ctx context.Context, base []salarytemplate.Field, j job) (payslip.PayslipResponse, error) {
	fields, err := withBasicPay(base, j.employment)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	days := j.daysWorked
	if days == nil {
		n, ok, err := s.AttendanceRepository.DaysWorked(ctx, j.employee.ID, j.year, j.month)
		if err != nil {
			return payslip.PayslipResponse{}, fmt.Errorf("failed to read attendance: %w", err)
		}
		if ok {
			days = &n
		}
	}

	wage := payslip.Wage{
		Category:      j.employee.Category,
		SubCategory:   j.employee.SubCategory,
		RatePerDay:    j.employee.RatePerDay,
		MonthlySalary: j.employee.MonthlySalary,
		PFEnrolled:    j.employee.PFEnrolled,
		ESICEnrolled:  j.employee.ESICEnrolled,
	}
	var scheduleID *string
	if j.employee.Category.IsRateBased() && j.employee.SubCategory != nil {
		schedule, err := s.rates.Resolve(ctx, j.employee.Category, *j.employee.SubCategory, j.asOf)
		if err != nil {
			return payslip.PayslipResponse{}, err
		}
		rate := schedule.RatePerDay
		wage.RatePerDay = &rate
		scheduleID = &schedule.ID
	}

	slip, err := payslip.Compute(fields, wage, payslip.Period{
		Year:       j.year,
		Month:      time.Month(j.month),
		DaysWorked: days,
	})
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	if slip.BasicCheck != nil && !slip.BasicCheck.Matches {
		slog.Warn("Basic pay differs from rate times days worked",
			"employee_id", j.employee.ID,
			"expected", slip.BasicCheck.Expected.String(),
			"actual", slip.BasicCheck.Actual.String(),
		)
	}

	return payslip.ToResponse(payslip.Context{
		EmployeeID:     j.employee.ID,
		EmployeeName:   j.employee.FullName,
		CompanyID:      j.employment.CompanyID,
		EmploymentID:   j.employment.ID,
		Designation:    j.employment.Designation,
		Department:     j.employment.Department,
		RateScheduleID: scheduleID,
	}, slip), nil
}

// applyValues validates request values against the enabled template fields
// and returns the fields carrying them. A request value wins over the
// template default.
func applyValues(cfg salarytemplate.Config, values map[string]string) ([]salarytemplate.Field, error) {
	fields := salarytemplate.EnabledFields(cfg, nil)
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Key] = i
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs validator.ValidationErrors
	for _, key := range keys {
		i, ok := index[key]
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "values." + key, Message: "is not an enabled field of the company template"})
			continue
		}
		parsed, err := salarytemplate.ParseValue(fields[i], values[key])
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "values." + key, Message: messageOf(err)})
			continue
		}
		fields[i] = parsed
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return fields, nil
}

// withBasicPay returns a copy of fields where basic pay without a value falls
// back to the salary recorded on the employment.
func withBasicPay(fields []salarytemplate.Field, rec employment.History) ([]salarytemplate.Field, error) {
	out := slices.Clone(fields)
	for i, f := range out {
		if f.Kind != salarytemplate.KindBasicPay || f.Purpose != salarytemplate.PurposeCalculation {
			continue
		}
		if _, ok := f.Amount(); ok {
			break
		}
		parsed, err := salarytemplate.ParseValue(f, rec.Salary.String())
		if err != nil {
			return nil, err
		}
		out[i] = parsed
		break
	}
	return out, nil
}

func messageOf(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

func failureOf(rec employment.History, err error) *payslip.Failure {
	f := &payslip.Failure{
		EmployeeID:   rec.EmployeeID,
		EmploymentID: rec.ID,
		Code:         "INTERNAL_ERROR",
		Message:      "failed to compute payslip",
	}

	var appErr *apperror.Error
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &appErr):
		f.Code = string(appErr.Kind)
		f.Message = appErr.Error()
		f.Details = appErr.Details
	case errors.As(err, &verrs):
		f.Code = string(apperror.KindValidation)
		f.Message = verrs.Error()
		f.Details = verrs.ToMap()
	default:
		slog.Error("Failed to compute payslip", "employee_id", rec.EmployeeID, "employment_id", rec.ID, "error", err)
	}
	return f
}
