package billing

import "errors"

var (
	ErrRecordNotFound   = errors.New("billing record not found")
	ErrPolicyNotFound   = errors.New("insurance policy not found")
	ErrInvalidStatus    = errors.New("invalid billing status")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrCoverageEndFirst = errors.New("coverage end date cannot be before start date")
)
