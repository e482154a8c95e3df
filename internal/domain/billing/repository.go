package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateRecord(ctx context.Context, r *BillingRecord) error
	GetRecord(ctx context.Context, id uuid.UUID) (*BillingRecord, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, cmd *UpdateRecordCommand) (*BillingRecord, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	ListRecords(ctx context.Context, q *ListRecordsQuery) (*PagedRecords, error)

	CreatePolicy(ctx context.Context, p *InsurancePolicy) error
	GetPolicy(ctx context.Context, id uuid.UUID) (*InsurancePolicy, error)
	UpdatePolicy(ctx context.Context, id uuid.UUID, cmd *UpdatePolicyCommand) (*InsurancePolicy, error)
	DeletePolicy(ctx context.Context, id uuid.UUID) error
	ListPolicies(ctx context.Context, q *ListPoliciesQuery) (*PagedPolicies, error)

	// SumInWindow aggregates amount, payment amount and row count over
	// records whose service date falls inside the optional window. Feeds the
	// billing summary report; empty sets yield zeros.
	SumInWindow(ctx context.Context, from, to *time.Time) (*Totals, error)
}
