package scheduling

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSessionNotFound     = errors.New("telehealth session not found")
	ErrScheduledInPast     = errors.New("appointment date/time cannot be in the past")
	ErrSessionInPast       = errors.New("session date/time cannot be in the past")
	ErrInvalidStatus       = errors.New("invalid scheduling status")
	ErrInvalidDuration     = errors.New("duration must be a positive number of minutes")
)
