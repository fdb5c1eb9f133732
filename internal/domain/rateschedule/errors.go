package rateschedule

import "errors"

var (
	ErrRateScheduleNotFound = errors.New("rate schedule not found")
	ErrOverlappingSchedule  = errors.New("rate schedule interval overlaps an existing schedule")
	ErrOpenScheduleExists   = errors.New("an open rate schedule already exists for this category")
	ErrUnresolvedRate       = errors.New("no active rate schedule for this category and date")
	ErrInvalidInterval      = errors.New("effective_to must not be before effective_from")
	ErrSplitsOpenSchedule   = errors.New("a closed rate schedule cannot start inside the open schedule")
)
