package employment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/company"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employment"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

type EmploymentServiceImpl struct {
	tx database.Transactor
	employment.EmploymentRepository
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
}

func NewEmploymentService(
	tx database.Transactor,
	repo employment.EmploymentRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
) employment.EmploymentService {
	return &EmploymentServiceImpl{
		tx:                   tx,
		EmploymentRepository: repo,
		employeeRepo:         employeeRepo,
		companyRepo:          companyRepo,
	}
}

// lockHistory locks the employee row and loads its full history. Every write
// goes through here so concurrent writers for one employee run one at a time.
func (s *EmploymentServiceImpl) lockHistory(ctx context.Context, employeeID string) ([]employment.History, error) {
	if _, err := s.employeeRepo.LockByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, apperror.NotFound(employee.ErrEmployeeNotFound, "employee", employeeID)
		}
		return nil, fmt.Errorf("failed to lock employee: %w", err)
	}
	history, err := s.EmploymentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employment history: %w", err)
	}
	return history, nil
}

func (s *EmploymentServiceImpl) requireActiveCompany(ctx context.Context, companyID string) error {
	found, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return apperror.NotFound(company.ErrCompanyNotFound, "company", companyID)
		}
		return fmt.Errorf("failed to get company: %w", err)
	}
	if found.Status != company.StatusActive {
		return apperror.InvalidState(company.ErrCompanyInactive, "company", companyID,
			"cannot assign employees to an inactive company")
	}
	return nil
}

func (s *EmploymentServiceImpl) getRecord(ctx context.Context, id string) (employment.History, error) {
	rec, err := s.EmploymentRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employment.ErrEmploymentNotFound) {
			return employment.History{}, apperror.NotFound(employment.ErrEmploymentNotFound, "employment", id)
		}
		return employment.History{}, fmt.Errorf("failed to get employment: %w", err)
	}
	return rec, nil
}

// Assign implements employment.EmploymentService.
func (s *EmploymentServiceImpl) Assign(ctx context.Context, req employment.AssignRequest) (employment.EmploymentResponse, error) {
	if err := req.Validate(); err != nil {
		return employment.EmploymentResponse{}, err
	}

	var created employment.History
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		history, err := s.lockHistory(txCtx, req.EmployeeID)
		if err != nil {
			return err
		}
		if err := s.requireActiveCompany(txCtx, req.CompanyID); err != nil {
			return err
		}
		if err := employment.CheckAssign(history); err != nil {
			return err
		}
		created, err = s.EmploymentRepository.Create(txCtx, req.ToEntity())
		return err
	})
	if err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			slog.Warn("Rejected employment assignment", "employee_id", req.EmployeeID, "company_id", req.CompanyID, "error", err)
		}
		return employment.EmploymentResponse{}, err
	}

	slog.Info("Assigned employee to company",
		"employment_id", created.ID,
		"employee_id", created.EmployeeID,
		"company_id", created.CompanyID,
	)
	return employment.ToResponse(created), nil
}

// Terminate implements employment.EmploymentService.
func (s *EmploymentServiceImpl) Terminate(ctx context.Context, req employment.TerminateRequest) (employment.EmploymentResponse, error) {
	if err := req.Validate(); err != nil {
		return employment.EmploymentResponse{}, err
	}
	leaving, _ := validator.IsValidDate(req.LeavingDate)

	var ended employment.History
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.getRecord(txCtx, req.ID)
		if err != nil {
			return err
		}
		if _, err := s.lockHistory(txCtx, rec.EmployeeID); err != nil {
			return err
		}
		// Re-read under the lock; a concurrent writer may have ended it.
		if rec, err = s.getRecord(txCtx, req.ID); err != nil {
			return err
		}
		ended, err = employment.ApplyTerminate(rec, leaving, req.Reason)
		if err != nil {
			return err
		}
		return s.EmploymentRepository.Update(txCtx, ended)
	})
	if err != nil {
		return employment.EmploymentResponse{}, err
	}

	slog.Info("Terminated employment", "employment_id", ended.ID, "employee_id", ended.EmployeeID, "leaving_date", req.LeavingDate)
	return employment.ToResponse(ended), nil
}

// Update implements employment.EmploymentService.
func (s *EmploymentServiceImpl) Update(ctx context.Context, req employment.UpdateRequest) (employment.EmploymentResponse, error) {
	changes, err := req.ToChanges()
	if err != nil {
		return employment.EmploymentResponse{}, err
	}

	var updated employment.History
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.getRecord(txCtx, req.ID)
		if err != nil {
			return err
		}
		history, err := s.lockHistory(txCtx, rec.EmployeeID)
		if err != nil {
			return err
		}
		for _, h := range history {
			if h.ID == rec.ID {
				rec = h
			}
		}
		if changes.CompanyID != nil && *changes.CompanyID != rec.CompanyID {
			if err := s.requireActiveCompany(txCtx, *changes.CompanyID); err != nil {
				return err
			}
		}
		updated, err = employment.ApplyUpdate(history, rec, changes)
		if err != nil {
			return err
		}
		return s.EmploymentRepository.Update(txCtx, updated)
	})
	if err != nil {
		return employment.EmploymentResponse{}, err
	}

	slog.Info("Updated employment", "employment_id", updated.ID, "status", updated.Status)
	return employment.ToResponse(updated), nil
}

// Get implements employment.EmploymentService.
func (s *EmploymentServiceImpl) Get(ctx context.Context, id string) (employment.EmploymentResponse, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return employment.EmploymentResponse{}, err
	}
	return employment.ToResponse(rec), nil
}

// ListByEmployee implements employment.EmploymentService.
func (s *EmploymentServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]employment.EmploymentResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, apperror.NotFound(employee.ErrEmployeeNotFound, "employee", employeeID)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	history, err := s.EmploymentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employment history: %w", err)
	}
	return employment.ToResponses(history), nil
}

// GetCurrent implements employment.EmploymentService.
func (s *EmploymentServiceImpl) GetCurrent(ctx context.Context, employeeID string) (employment.History, error) {
	history, err := s.EmploymentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return employment.History{}, fmt.Errorf("failed to load employment history: %w", err)
	}
	current, ok := employment.Current(history)
	if !ok {
		return employment.History{}, apperror.InvalidState(employment.ErrNoActiveEmployment, "employee", employeeID,
			"employee has no active employment")
	}
	return current, nil
}
