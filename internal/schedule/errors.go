package schedule

import "errors"

var (
	// ErrEmptySchedule is returned when an operation needs at least one
	// scheduled program and the schedule has none
	ErrEmptySchedule = errors.New("schedule is empty")

	// ErrProgramNotFound is returned when a content ID does not match any
	// scheduled program
	ErrProgramNotFound = errors.New("program not found in schedule")
)
