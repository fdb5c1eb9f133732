package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) payslip.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// DaysWorked implements payslip.AttendanceRepository.
func (a *attendanceRepository) DaysWorked(ctx context.Context, employeeID string, year, month int) (int, bool, error) {
	q := GetQuerier(ctx, a.db)

	first, last := utils.MonthBounds(year, time.Month(month))
	query := `
		SELECT COUNT(*) AS recorded,
			   COUNT(*) FILTER (WHERE status = 'PRESENT') AS present
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
	`

	var recorded, present int
	if err := q.QueryRow(ctx, query, employeeID, first, last).Scan(&recorded, &present); err != nil {
		return 0, false, fmt.Errorf("failed to count attendance of employee %s for %04d-%02d: %w", employeeID, year, month, err)
	}
	if recorded == 0 {
		return 0, false, nil
	}
	return present, true, nil
}
