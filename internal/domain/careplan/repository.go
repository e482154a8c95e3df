package careplan

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreatePlan(ctx context.Context, p *TreatmentPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*TreatmentPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, cmd *UpdatePlanCommand) (*TreatmentPlan, error)
	// DeletePlan removes the plan and, via FK constraint, its progress notes.
	DeletePlan(ctx context.Context, id uuid.UUID) error
	ListPlans(ctx context.Context, q *ListPlansQuery) (*PagedPlans, error)

	CreateNote(ctx context.Context, n *ProgressNote) error
	GetNote(ctx context.Context, id uuid.UUID) (*ProgressNote, error)
	UpdateNote(ctx context.Context, id uuid.UUID, cmd *UpdateNoteCommand) (*ProgressNote, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
	ListNotes(ctx context.Context, planID uuid.UUID) ([]*ProgressNote, error)
}
