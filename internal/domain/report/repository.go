package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateReport(ctx context.Context, r *Report) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetReportByTitle(ctx context.Context, title string) (*Report, error)
	UpdateReport(ctx context.Context, r *Report) error
	DeleteReport(ctx context.Context, id uuid.UUID) error
	ListReports(ctx context.Context, q ListReportsQuery) (*PagedReports, error)

	CreateParameter(ctx context.Context, p *Parameter) error
	GetParameterByID(ctx context.Context, id uuid.UUID) (*Parameter, error)
	DeleteParameter(ctx context.Context, id uuid.UUID) error
	ListParameters(ctx context.Context, reportID uuid.UUID) ([]*Parameter, error)

	CreateResult(ctx context.Context, res *Result) error
	GetResultByID(ctx context.Context, id uuid.UUID) (*Result, error)
	ListResults(ctx context.Context, reportID uuid.UUID) ([]*Result, error)
}
