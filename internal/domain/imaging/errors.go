package imaging

import "errors"

var (
	ErrStudyNotFound       = errors.New("imaging study not found")
	ErrResultNotFound      = errors.New("imaging result not found")
	ErrResultAlreadyExists = errors.New("imaging study already has a result")
	ErrStudyNotEditable    = errors.New("completed imaging studies cannot be modified")
	ErrInvalidStatus       = errors.New("invalid imaging study status")
)
