package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type memoryRepo struct {
	rows   map[string]employee.Employee
	locked []string
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := m.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memoryRepo) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *memoryRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "emp-1"
	m.rows[e.ID] = e
	return e, nil
}

func (m *memoryRepo) Update(_ context.Context, e employee.Employee) error {
	if _, ok := m.rows[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	m.rows[e.ID] = e
	return nil
}

func newTestService() (*EmployeeServiceImpl, *memoryRepo, *fakeTx) {
	repo := &memoryRepo{rows: make(map[string]employee.Employee)}
	tx := &fakeTx{}
	svc := NewEmployeeService(tx, repo).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return svc, repo, tx
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func centralRequest(onboarding string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName:       "Ravi Kumar",
		Category:       "central",
		SubCategory:    strPtr("skilled"),
		RatePerDay:     decPtr("600"),
		PFEnrolled:     true,
		OnboardingDate: onboarding,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEmployee(context.Background(), centralRequest("2024-06-15"))

	require.NoError(t, err)
	assert.Equal(t, "CENTRAL", created.Category)
	require.NotNil(t, created.SubCategory)
	assert.Equal(t, "SKILLED", *created.SubCategory)
	assert.Equal(t, "2024-06-15", created.OnboardingDate)
}

func TestEmployeeService_Create_RejectsFutureOnboarding(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateEmployee(context.Background(), centralRequest("2024-06-16"))

	assert.ErrorIs(t, err, employee.ErrFutureDateNotAllowed)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Empty(t, repo.rows)
}

func TestEmployeeService_Create_RejectsBrokenPayBasis(t *testing.T) {
	svc, _, _ := newTestService()
	req := centralRequest("2024-01-01")
	req.RatePerDay = nil

	_, err := svc.CreateEmployee(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "rate_per_day")
}

func TestEmployeeService_Update(t *testing.T) {
	svc, repo, tx := newTestService()
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, centralRequest("2024-01-01"))
	require.NoError(t, err)

	category := "SPECIALIZED"
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Category: &category, MonthlySalary: decPtr("42000")})

	require.NoError(t, err)
	assert.Equal(t, "SPECIALIZED", updated.Category)
	assert.Nil(t, updated.SubCategory)
	assert.Nil(t, updated.RatePerDay)
	assert.Equal(t, []string{created.ID}, repo.locked)
	assert.Equal(t, 1, tx.calls)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "missing", FullName: strPtr("X")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestEmployeeService_Get_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
