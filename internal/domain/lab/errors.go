package lab

import "errors"

var (
	ErrTestNotFound        = errors.New("lab test not found")
	ErrResultNotFound      = errors.New("lab result not found")
	ErrResultAlreadyExists = errors.New("lab test already has a result")
	ErrInvalidStatus       = errors.New("invalid lab test status")
)
