package employment

import "context"

type EmploymentService interface {
	Assign(ctx context.Context, req AssignRequest) (EmploymentResponse, error)
	Terminate(ctx context.Context, req TerminateRequest) (EmploymentResponse, error)
	Update(ctx context.Context, req UpdateRequest) (EmploymentResponse, error)
	Get(ctx context.Context, id string) (EmploymentResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]EmploymentResponse, error)
	// GetCurrent returns the employee's ACTIVE record or ErrNoActiveEmployment.
	GetCurrent(ctx context.Context, employeeID string) (History, error)
}
