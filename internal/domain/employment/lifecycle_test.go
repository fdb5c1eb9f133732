package employment

import (
	"strconv"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, company string, joining time.Time, status Status) History {
	return History{
		ID:          id,
		EmployeeID:  "emp-1",
		CompanyID:   company,
		Designation: "Operator",
		Department:  "Plant",
		Salary:      decimal.NewFromInt(15000),
		JoiningDate: joining,
		Status:      status,
	}
}

func ptr[T any](v T) *T { return &v }

func TestCheckAssign(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.NoError(t, CheckAssign(nil))
	})

	t.Run("only inactive records", func(t *testing.T) {
		h := record("h1", "c1", utils.Date(2023, 1, 1), StatusInactive)
		assert.NoError(t, CheckAssign([]History{h}))
	})

	t.Run("active record conflicts", func(t *testing.T) {
		h := record("h1", "c1", utils.Date(2023, 1, 1), StatusActive)
		err := CheckAssign([]History{h})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrActiveEmploymentExists)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindConflict, appErr.Kind)
		assert.Equal(t, "h1", appErr.RecordID)
	})
}

func TestApplyTerminate(t *testing.T) {
	active := record("h1", "c1", utils.Date(2024, 1, 1), StatusActive)

	t.Run("ends the record", func(t *testing.T) {
		got, err := ApplyTerminate(active, utils.Date(2024, 6, 30), ptr("resigned"))

		require.NoError(t, err)
		assert.Equal(t, StatusInactive, got.Status)
		require.NotNil(t, got.LeavingDate)
		assert.Equal(t, utils.Date(2024, 6, 30), *got.LeavingDate)
		assert.Equal(t, "resigned", *got.TerminationReason)
		assert.Equal(t, StatusActive, active.Status, "input must not be mutated")
	})

	t.Run("same day as joining", func(t *testing.T) {
		got, err := ApplyTerminate(active, utils.Date(2024, 1, 1), nil)

		require.NoError(t, err)
		assert.Nil(t, got.TerminationReason)
	})

	t.Run("leaving before joining", func(t *testing.T) {
		_, err := ApplyTerminate(active, utils.Date(2023, 12, 31), nil)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "leaving_date", verrs[0].Field)
		assert.Equal(t, StatusActive, active.Status)
		assert.Nil(t, active.LeavingDate)
	})

	t.Run("already inactive", func(t *testing.T) {
		inactive := record("h2", "c1", utils.Date(2022, 1, 1), StatusInactive)
		_, err := ApplyTerminate(inactive, utils.Date(2024, 6, 30), nil)

		assert.ErrorIs(t, err, ErrEmploymentNotActive)
		assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	})
}

func TestApplyUpdate(t *testing.T) {
	old := record("h1", "c1", utils.Date(2022, 1, 1), StatusInactive)
	old.LeavingDate = ptr(utils.Date(2022, 12, 31))
	current := record("h2", "c2", utils.Date(2023, 1, 1), StatusActive)
	history := []History{old, current}

	tests := []struct {
		name    string
		rec     History
		changes Changes
		check   func(t *testing.T, got History, err error)
	}{
		{
			name:    "salary raise",
			rec:     current,
			changes: Changes{Salary: ptr(decimal.NewFromInt(18000))},
			check: func(t *testing.T, got History, err error) {
				require.NoError(t, err)
				assert.True(t, got.Salary.Equal(decimal.NewFromInt(18000)))
			},
		},
		{
			name:    "non-positive salary",
			rec:     current,
			changes: Changes{Salary: ptr(decimal.Zero)},
			check: func(t *testing.T, _ History, err error) {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "salary", verrs[0].Field)
			},
		},
		{
			name:    "deactivate without leaving date",
			rec:     current,
			changes: Changes{Status: ptr(StatusInactive)},
			check: func(t *testing.T, _ History, err error) {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "leaving_date", verrs[0].Field)
			},
		},
		{
			name:    "deactivate with leaving date",
			rec:     current,
			changes: Changes{Status: ptr(StatusInactive), LeavingDate: ptr(utils.Date(2024, 3, 31))},
			check: func(t *testing.T, got History, err error) {
				require.NoError(t, err)
				assert.Equal(t, StatusInactive, got.Status)
			},
		},
		{
			name:    "reactivate while sibling active",
			rec:     old,
			changes: Changes{Status: ptr(StatusActive)},
			check: func(t *testing.T, _ History, err error) {
				assert.ErrorIs(t, err, ErrActiveEmploymentExists)
				var appErr *apperror.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, "h2", appErr.RecordID)
			},
		},
		{
			name:    "leaving date on active record",
			rec:     current,
			changes: Changes{LeavingDate: ptr(utils.Date(2024, 3, 31))},
			check: func(t *testing.T, _ History, err error) {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "leaving_date", verrs[0].Field)
			},
		},
		{
			name:    "joining date moved past leaving date",
			rec:     old,
			changes: Changes{JoiningDate: ptr(utils.Date(2023, 6, 1))},
			check: func(t *testing.T, _ History, err error) {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "leaving_date", verrs[0].Field)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyUpdate(history, tt.rec, tt.changes)
			tt.check(t, got, err)
		})
	}
}

func TestApplyUpdate_ReactivateClearsLeaving(t *testing.T) {
	old := record("h1", "c1", utils.Date(2022, 1, 1), StatusInactive)
	old.LeavingDate = ptr(utils.Date(2022, 12, 31))
	old.TerminationReason = ptr("contract ended")

	got, err := ApplyUpdate([]History{old}, old, Changes{Status: ptr(StatusActive)})

	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
	assert.Nil(t, got.LeavingDate)
	assert.Nil(t, got.TerminationReason)
}

// Any sequence of accepted operations keeps at most one ACTIVE record.
func TestLifecycle_AtMostOneActive(t *testing.T) {
	var history []History
	next := 0
	assign := func(company string, joining time.Time) error {
		if err := CheckAssign(history); err != nil {
			return err
		}
		next++
		history = append(history, record(strconv.Itoa(next), company, joining, StatusActive))
		return nil
	}
	terminate := func(leaving time.Time) error {
		cur, ok := Current(history)
		if !ok {
			return ErrNoActiveEmployment
		}
		ended, err := ApplyTerminate(cur, leaving, nil)
		if err != nil {
			return err
		}
		for i := range history {
			if history[i].ID == ended.ID {
				history[i] = ended
			}
		}
		return nil
	}

	require.NoError(t, assign("c1", utils.Date(2020, 1, 1)))
	assert.ErrorIs(t, assign("c2", utils.Date(2020, 6, 1)), ErrActiveEmploymentExists)
	assert.Error(t, terminate(utils.Date(2019, 1, 1)))
	require.NoError(t, terminate(utils.Date(2021, 1, 31)))
	assert.ErrorIs(t, terminate(utils.Date(2021, 2, 1)), ErrNoActiveEmployment)
	require.NoError(t, assign("c2", utils.Date(2021, 2, 1)))
	assert.ErrorIs(t, assign("c3", utils.Date(2022, 1, 1)), ErrActiveEmploymentExists)

	assert.Equal(t, 1, ActiveCount(history))
	assert.Len(t, history, 2)
	cur, ok := Current(history)
	require.True(t, ok)
	assert.Equal(t, "c2", cur.CompanyID)
}
