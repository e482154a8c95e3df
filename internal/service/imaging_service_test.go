package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/imaging"
)

type fakeImagingRepo struct {
	studies map[uuid.UUID]*imaging.ImagingStudy
	results map[uuid.UUID]*imaging.ImagingResult
}

func newFakeImagingRepo() *fakeImagingRepo {
	return &fakeImagingRepo{
		studies: map[uuid.UUID]*imaging.ImagingStudy{},
		results: map[uuid.UUID]*imaging.ImagingResult{},
	}
}

func (f *fakeImagingRepo) CreateStudy(_ context.Context, s *imaging.ImagingStudy) error {
	s.ID = uuid.New()
	f.studies[s.ID] = s
	return nil
}

func (f *fakeImagingRepo) GetStudy(_ context.Context, id uuid.UUID) (*imaging.ImagingStudy, error) {
	s, ok := f.studies[id]
	if !ok {
		return nil, imaging.ErrStudyNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeImagingRepo) UpdateStudy(_ context.Context, id uuid.UUID, cmd *imaging.UpdateStudyCommand) (*imaging.ImagingStudy, error) {
	s, ok := f.studies[id]
	if !ok {
		return nil, imaging.ErrStudyNotFound
	}
	if cmd.StudyType != nil {
		s.StudyType = *cmd.StudyType
	}
	if cmd.Status != nil {
		s.Status = *cmd.Status
	}
	if cmd.Notes != nil {
		s.Notes = *cmd.Notes
	}
	return s, nil
}

func (f *fakeImagingRepo) DeleteStudy(_ context.Context, id uuid.UUID) error {
	if _, ok := f.studies[id]; !ok {
		return imaging.ErrStudyNotFound
	}
	delete(f.studies, id)
	return nil
}

func (f *fakeImagingRepo) ListStudies(_ context.Context, q *imaging.ListStudiesQuery) (*imaging.PagedStudies, error) {
	out := make([]*imaging.ImagingStudy, 0, len(f.studies))
	for _, s := range f.studies {
		out = append(out, s)
	}
	return &imaging.PagedStudies{Studies: out, TotalCount: int64(len(out)), Page: q.Page, PageSize: q.PageSize}, nil
}

func (f *fakeImagingRepo) CreateResult(_ context.Context, r *imaging.ImagingResult) error {
	r.ID = uuid.New()
	f.results[r.ID] = r
	return nil
}

func (f *fakeImagingRepo) GetResult(_ context.Context, id uuid.UUID) (*imaging.ImagingResult, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, imaging.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeImagingRepo) GetResultByStudy(_ context.Context, studyID uuid.UUID) (*imaging.ImagingResult, error) {
	for _, r := range f.results {
		if r.ImagingStudyID == studyID {
			return r, nil
		}
	}
	return nil, imaging.ErrResultNotFound
}

func (f *fakeImagingRepo) UpdateResult(_ context.Context, id uuid.UUID, cmd *imaging.UpdateResultCommand) (*imaging.ImagingResult, error) {
	r, ok := f.results[id]
	if !ok {
		return nil, imaging.ErrResultNotFound
	}
	if cmd.Findings != nil {
		r.Findings = *cmd.Findings
	}
	if cmd.Impression != nil {
		r.Impression = *cmd.Impression
	}
	return r, nil
}

func (f *fakeImagingRepo) DeleteResult(_ context.Context, id uuid.UUID) error {
	if _, ok := f.results[id]; !ok {
		return imaging.ErrResultNotFound
	}
	delete(f.results, id)
	return nil
}

func newImagingService(repo imaging.Repository) *ImagingService {
	return NewImagingService(repo, newTestAudit(), zap.NewNop())
}

func seedStudy(repo *fakeImagingRepo, status imaging.StudyStatus) *imaging.ImagingStudy {
	s := &imaging.ImagingStudy{
		ID:                 uuid.New(),
		PatientID:          uuid.New(),
		OrderingProviderID: uuid.New(),
		StudyType:          "Chest X-Ray",
		StudyDate:          time.Now().AddDate(0, 0, -1),
		Status:             status,
	}
	repo.studies[s.ID] = s
	return s
}

func TestUpdateStudyFrozenOnceCompleted(t *testing.T) {
	repo := newFakeImagingRepo()
	study := seedStudy(repo, imaging.StatusCompleted)
	svc := newImagingService(repo)

	notes := "late addendum"
	_, err := svc.UpdateStudy(context.Background(), doctorActor(), study.ID, &imaging.UpdateStudyCommand{Notes: &notes}, "10.0.0.1")
	assert.ErrorIs(t, err, imaging.ErrStudyNotEditable)

	// The stored row must be untouched.
	assert.Empty(t, repo.studies[study.ID].Notes)
}

func TestUpdateStudyAppliesWhilePending(t *testing.T) {
	repo := newFakeImagingRepo()
	study := seedStudy(repo, imaging.StatusPending)
	svc := newImagingService(repo)

	status := imaging.StatusCompleted
	updated, err := svc.UpdateStudy(context.Background(), doctorActor(), study.ID, &imaging.UpdateStudyCommand{Status: &status}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, imaging.StatusCompleted, updated.Status)

	// Once completed the same study refuses further edits.
	notes := "post-completion note"
	_, err = svc.UpdateStudy(context.Background(), doctorActor(), study.ID, &imaging.UpdateStudyCommand{Notes: &notes}, "10.0.0.1")
	assert.ErrorIs(t, err, imaging.ErrStudyNotEditable)
}

func TestUpdateStudyRequiresDoctorLevel(t *testing.T) {
	repo := newFakeImagingRepo()
	study := seedStudy(repo, imaging.StatusPending)
	svc := newImagingService(repo)

	notes := "nurse edit"
	_, err := svc.UpdateStudy(context.Background(), staffActor(), study.ID, &imaging.UpdateStudyCommand{Notes: &notes}, "10.0.0.1")
	assert.ErrorIs(t, err, access.ErrDenied)
}

func TestCreateResultRejectsSecondResultForStudy(t *testing.T) {
	repo := newFakeImagingRepo()
	study := seedStudy(repo, imaging.StatusPending)
	svc := newImagingService(repo)

	cmd := &imaging.CreateResultCommand{
		ImagingStudyID: study.ID,
		ResultDate:     time.Now(),
		Findings:       "clear lung fields",
		Impression:     "no acute findings",
	}
	_, err := svc.CreateResult(context.Background(), staffActor(), cmd, "10.0.0.1")
	require.NoError(t, err)

	_, err = svc.CreateResult(context.Background(), staffActor(), cmd, "10.0.0.1")
	assert.ErrorIs(t, err, imaging.ErrResultAlreadyExists)
}
