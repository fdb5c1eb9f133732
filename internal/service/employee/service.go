package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
)

type EmployeeServiceImpl struct {
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewEmployeeService(tx database.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	newEmployee, err := req.ToEntity()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if newEmployee.OnboardingDate.After(utils.DateOnly(s.now())) {
		return employee.EmployeeResponse{}, apperror.Validation(employee.ErrFutureDateNotAllowed, "onboarding_date",
			"onboarding date cannot be in the future")
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Created employee", "employee_id", created.ID, "category", created.Category)
	return employee.ToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	found, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, apperror.NotFound(employee.ErrEmployeeNotFound, "employee", id)
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.ToResponse(found), nil
}

// UpdateEmployee implements employee.EmployeeService. The row is locked so a
// concurrent edit cannot break the pay basis invariant.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.employeeRepo.LockByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return apperror.NotFound(employee.ErrEmployeeNotFound, "employee", req.ID)
			}
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		updated, err = req.Apply(current)
		if err != nil {
			return err
		}
		if err := s.employeeRepo.Update(txCtx, updated); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Updated employee", "employee_id", updated.ID, "category", updated.Category)
	return employee.ToResponse(updated), nil
}
