package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateTest(ctx context.Context, t *LabTest) error
	GetTest(ctx context.Context, id uuid.UUID) (*LabTest, error)
	UpdateTest(ctx context.Context, id uuid.UUID, cmd *UpdateTestCommand) (*LabTest, error)
	DeleteTest(ctx context.Context, id uuid.UUID) error
	ListTests(ctx context.Context, q *ListTestsQuery) (*PagedTests, error)

	// CreateResult persists the result and the parent test's COMPLETED status
	// in a single transaction; either both commit or neither does.
	CreateResult(ctx context.Context, r *LabResult, parent *LabTest) error

	GetResult(ctx context.Context, id uuid.UUID) (*LabResult, error)
	GetResultByTest(ctx context.Context, testID uuid.UUID) (*LabResult, error)
	UpdateResult(ctx context.Context, id uuid.UUID, cmd *UpdateResultCommand) (*LabResult, error)

	// DeleteResult removes the result and reverts the parent test to PENDING
	// in a single transaction.
	DeleteResult(ctx context.Context, id uuid.UUID, parent *LabTest) error
}
