package careplan

import "errors"

var (
	ErrPlanNotFound   = errors.New("treatment plan not found")
	ErrNoteNotFound   = errors.New("progress note not found")
	ErrEndBeforeStart = errors.New("end date cannot be before start date")
)
