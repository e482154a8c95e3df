package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient record already exists for this user")
	ErrHistoryNotFound      = errors.New("medical history not found")
	ErrAllergyNotFound      = errors.New("allergy record not found")
	ErrImmunizationNotFound = errors.New("immunization record not found")
	ErrInvalidGender        = errors.New("invalid gender value")
	ErrInvalidSeverity      = errors.New("invalid allergy severity")
	ErrInvalidDateOfBirth   = errors.New("date of birth cannot be in the future")
)
