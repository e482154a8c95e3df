package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists if the
	// linked user account already owns a patient record.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByUserID retrieves the patient record owned by a user account.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// Delete removes the patient and, through FK constraints, every clinical
	// row that belongs to it.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated, filtered list of patients.
	List(ctx context.Context, q *ListPatientsQuery) (*PagedPatients, error)

	CreateHistory(ctx context.Context, h *MedicalHistory) error
	GetHistory(ctx context.Context, id uuid.UUID) (*MedicalHistory, error)
	UpdateHistory(ctx context.Context, id uuid.UUID, cmd *UpdateMedicalHistoryCommand) (*MedicalHistory, error)
	DeleteHistory(ctx context.Context, id uuid.UUID) error
	ListHistories(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error)

	CreateAllergy(ctx context.Context, a *Allergy) error
	GetAllergy(ctx context.Context, id uuid.UUID) (*Allergy, error)
	UpdateAllergy(ctx context.Context, id uuid.UUID, cmd *UpdateAllergyCommand) (*Allergy, error)
	DeleteAllergy(ctx context.Context, id uuid.UUID) error
	ListAllergies(ctx context.Context, patientID uuid.UUID) ([]*Allergy, error)

	CreateImmunization(ctx context.Context, im *Immunization) error
	GetImmunization(ctx context.Context, id uuid.UUID) (*Immunization, error)
	UpdateImmunization(ctx context.Context, id uuid.UUID, cmd *UpdateImmunizationCommand) (*Immunization, error)
	DeleteImmunization(ctx context.Context, id uuid.UUID) error
	ListImmunizations(ctx context.Context, patientID uuid.UUID) ([]*Immunization, error)
}
