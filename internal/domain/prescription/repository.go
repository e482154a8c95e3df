package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePrescriptionCommand) (*Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListPrescriptionsQuery) (*PagedPrescriptions, error)

	// CountByMedication returns, per medication name, the total and active row
	// counts across the whole store. Feeds the prescription analysis report.
	CountByMedication(ctx context.Context) ([]*MedicationCount, error)
}

// MedicationCount is one aggregation row of CountByMedication.
type MedicationCount struct {
	Medication  string `json:"medication"`
	Total       int64  `json:"total"`
	ActiveCount int64  `json:"active_count"`
}
