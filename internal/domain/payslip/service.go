package payslip

import "context"

type PayslipService interface {
	// Generate computes the payslip of one employee's current employment.
	Generate(ctx context.Context, req GenerateRequest) (PayslipResponse, error)
	// GenerateForCompany computes payslips for every ACTIVE employment of a
	// company. Per-employee failures are reported, not fatal.
	GenerateForCompany(ctx context.Context, req CompanyRequest) (BatchResponse, error)
}

// AttendanceRepository reads days present from the attendance store.
type AttendanceRepository interface {
	// DaysWorked returns ok=false when no attendance was captured for the month.
	DaysWorked(ctx context.Context, employeeID string, year, month int) (days int, ok bool, err error)
}
