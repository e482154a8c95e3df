package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
	reportengine "github.com/chartwell-health/chartwell/internal/report"
)

type fakeReportRepo struct {
	reports    map[uuid.UUID]*report.Report
	parameters map[uuid.UUID]*report.Parameter
	results    map[uuid.UUID]*report.Result
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports:    map[uuid.UUID]*report.Report{},
		parameters: map[uuid.UUID]*report.Parameter{},
		results:    map[uuid.UUID]*report.Result{},
	}
}

func (f *fakeReportRepo) CreateReport(_ context.Context, r *report.Report) error {
	r.ID = uuid.New()
	f.reports[r.ID] = r
	return nil
}

func (f *fakeReportRepo) GetReportByID(_ context.Context, id uuid.UUID) (*report.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return r, nil
}

func (f *fakeReportRepo) GetReportByTitle(_ context.Context, title string) (*report.Report, error) {
	for _, r := range f.reports {
		if r.Title == title {
			return r, nil
		}
	}
	return nil, report.ErrReportNotFound
}

func (f *fakeReportRepo) UpdateReport(_ context.Context, r *report.Report) error {
	if _, ok := f.reports[r.ID]; !ok {
		return report.ErrReportNotFound
	}
	f.reports[r.ID] = r
	return nil
}

func (f *fakeReportRepo) DeleteReport(_ context.Context, id uuid.UUID) error {
	if _, ok := f.reports[id]; !ok {
		return report.ErrReportNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) ListReports(_ context.Context, _ report.ListReportsQuery) (*report.PagedReports, error) {
	return &report.PagedReports{}, nil
}

func (f *fakeReportRepo) CreateParameter(_ context.Context, p *report.Parameter) error {
	p.ID = uuid.New()
	f.parameters[p.ID] = p
	return nil
}

func (f *fakeReportRepo) GetParameterByID(_ context.Context, id uuid.UUID) (*report.Parameter, error) {
	p, ok := f.parameters[id]
	if !ok {
		return nil, report.ErrParameterNotFound
	}
	return p, nil
}

func (f *fakeReportRepo) DeleteParameter(_ context.Context, id uuid.UUID) error {
	if _, ok := f.parameters[id]; !ok {
		return report.ErrParameterNotFound
	}
	delete(f.parameters, id)
	return nil
}

func (f *fakeReportRepo) ListParameters(_ context.Context, reportID uuid.UUID) ([]*report.Parameter, error) {
	var out []*report.Parameter
	for _, p := range f.parameters {
		if p.ReportID == reportID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) CreateResult(_ context.Context, res *report.Result) error {
	res.ID = uuid.New()
	f.results[res.ID] = res
	return nil
}

func (f *fakeReportRepo) GetResultByID(_ context.Context, id uuid.UUID) (*report.Result, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, report.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeReportRepo) ListResults(_ context.Context, reportID uuid.UUID) ([]*report.Result, error) {
	var out []*report.Result
	for _, r := range f.results {
		if r.ReportID == reportID {
			out = append(out, r)
		}
	}
	return out, nil
}

type staticAggregateStore struct {
	totals billing.Totals
}

func (s *staticAggregateStore) PatientsSnapshot(_ context.Context, _ patient.SnapshotFilter, _ int) ([]*patient.Patient, int64, error) {
	return nil, 0, nil
}

func (s *staticAggregateStore) AppointmentStatsByStatus(_ context.Context, _, _ time.Time) ([]*scheduling.StatusStat, error) {
	return nil, nil
}

func (s *staticAggregateStore) BillingTotals(_ context.Context, _, _ *time.Time) (*billing.Totals, error) {
	t := s.totals
	return &t, nil
}

func (s *staticAggregateStore) MedicationCounts(_ context.Context) ([]*prescription.MedicationCount, error) {
	return nil, nil
}

func newReportService(repo report.Repository) *ReportService {
	engine := reportengine.NewEngine(&staticAggregateStore{
		totals: billing.Totals{
			TotalAmount:  decimal.NewFromFloat(900.50),
			TotalPaid:    decimal.NewFromFloat(400.50),
			TotalRecords: 7,
		},
	}, zap.NewNop())
	return NewReportService(repo, engine, newTestAudit(), nil, zap.NewNop())
}

func seedReport(repo *fakeReportRepo, typ report.ReportType) *report.Report {
	r := &report.Report{
		ID:        uuid.New(),
		Title:     "Quarterly billing summary",
		Type:      typ,
		CreatedBy: uuid.New(),
	}
	repo.reports[r.ID] = r
	return r
}

func TestCreateReportRequiresAdmin(t *testing.T) {
	svc := newReportService(newFakeReportRepo())

	_, err := svc.CreateReport(context.Background(), staffActor(), &report.CreateReportCommand{
		Title: "Census",
		Type:  report.TypePatientList,
	}, "")
	assert.ErrorIs(t, err, access.ErrDenied)
}

func TestCreateReportRejectsDuplicateTitle(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	seedReport(repo, report.TypeBillingSummary)

	_, err := svc.CreateReport(context.Background(), adminActor(), &report.CreateReportCommand{
		Title: "Quarterly billing summary",
		Type:  report.TypeBillingSummary,
	}, "")
	assert.ErrorIs(t, err, report.ErrReportTitleTaken)
}

func TestUpdateReportChecksNewTitleUniqueness(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	first := seedReport(repo, report.TypeBillingSummary)
	second := &report.Report{ID: uuid.New(), Title: "Monthly census", Type: report.TypePatientList, CreatedBy: uuid.New()}
	repo.reports[second.ID] = second

	taken := first.Title
	_, err := svc.UpdateReport(context.Background(), adminActor(), second.ID, &report.UpdateReportCommand{Title: &taken}, "")
	assert.ErrorIs(t, err, report.ErrReportTitleTaken)

	// Keeping the current title is not a conflict.
	same := second.Title
	_, err = svc.UpdateReport(context.Background(), adminActor(), second.ID, &report.UpdateReportCommand{Title: &same}, "")
	assert.NoError(t, err)
}

func TestGenerateStoresImmutableSnapshot(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	r := seedReport(repo, report.TypeBillingSummary)

	staff := staffActor()
	res, err := svc.Generate(context.Background(), staff, r.ID, nil, "")
	require.NoError(t, err)

	assert.Equal(t, r.ID, res.ReportID)
	assert.Equal(t, staff.UserID, res.GeneratedBy)
	assert.Equal(t, "900.5", res.ResultData["total_billed"])
	assert.Equal(t, "500", res.ResultData["outstanding"])
	assert.Len(t, repo.results, 1)
}

func TestGenerateFillsDeclaredDefaults(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	r := seedReport(repo, report.TypeBillingSummary)
	repo.parameters[uuid.New()] = &report.Parameter{
		ID:           uuid.New(),
		ReportID:     r.ID,
		Name:         "start_date",
		DataType:     "date",
		DefaultValue: "2026-01-01",
	}

	res, err := svc.Generate(context.Background(), staffActor(), r.ID, report.Params{}, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", res.Parameters["start_date"])
	assert.Equal(t, "2026-01-01", res.ResultData["start_date"])
}

func TestGenerateRejectsMalformedParameter(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	r := seedReport(repo, report.TypeBillingSummary)

	_, err := svc.Generate(context.Background(), staffActor(), r.ID, report.Params{"start_date": "01/15/2026"}, "")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, repo.results)
}

func TestGenerateRecordsUnsupportedTypeAsSnapshot(t *testing.T) {
	repo := newFakeReportRepo()
	svc := newReportService(repo)
	r := seedReport(repo, report.TypeCustom)

	res, err := svc.Generate(context.Background(), staffActor(), r.ID, nil, "")
	require.NoError(t, err)
	assert.Contains(t, res.ResultData, "error")
	assert.Len(t, repo.results, 1)
}
