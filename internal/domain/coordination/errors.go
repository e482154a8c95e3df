package coordination

import "errors"

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrUserAlertNotFound = errors.New("user alert not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrDueDateInPast     = errors.New("due date cannot be in the past")
	ErrEndBeforeStart    = errors.New("end date cannot be before start date")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid task status")
)
