package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrInvalidFrequency     = errors.New("invalid prescription frequency")
	ErrEndBeforeStart       = errors.New("end date cannot be before start date")
)
