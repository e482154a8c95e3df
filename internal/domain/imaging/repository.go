package imaging

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateStudy(ctx context.Context, s *ImagingStudy) error
	GetStudy(ctx context.Context, id uuid.UUID) (*ImagingStudy, error)
	UpdateStudy(ctx context.Context, id uuid.UUID, cmd *UpdateStudyCommand) (*ImagingStudy, error)
	DeleteStudy(ctx context.Context, id uuid.UUID) error
	ListStudies(ctx context.Context, q *ListStudiesQuery) (*PagedStudies, error)

	CreateResult(ctx context.Context, r *ImagingResult) error
	GetResult(ctx context.Context, id uuid.UUID) (*ImagingResult, error)
	GetResultByStudy(ctx context.Context, studyID uuid.UUID) (*ImagingResult, error)
	UpdateResult(ctx context.Context, id uuid.UUID, cmd *UpdateResultCommand) (*ImagingResult, error)
	DeleteResult(ctx context.Context, id uuid.UUID) error
}
