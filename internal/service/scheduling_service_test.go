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
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

type fakeSchedulingRepo struct {
	appointments map[uuid.UUID]*scheduling.Appointment
	sessions     map[uuid.UUID]*scheduling.TelehealthSession

	lastApptQuery    *scheduling.ListAppointmentsQuery
	lastSessionQuery *scheduling.ListSessionsQuery
}

func newFakeSchedulingRepo() *fakeSchedulingRepo {
	return &fakeSchedulingRepo{
		appointments: map[uuid.UUID]*scheduling.Appointment{},
		sessions:     map[uuid.UUID]*scheduling.TelehealthSession{},
	}
}

func (f *fakeSchedulingRepo) CreateAppointment(_ context.Context, a *scheduling.Appointment) error {
	a.ID = uuid.New()
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeSchedulingRepo) GetAppointment(_ context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, scheduling.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeSchedulingRepo) UpdateAppointment(_ context.Context, id uuid.UUID, cmd *scheduling.UpdateAppointmentCommand) (*scheduling.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, scheduling.ErrAppointmentNotFound
	}
	if cmd.Status != nil {
		a.Status = *cmd.Status
	}
	return a, nil
}

func (f *fakeSchedulingRepo) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return scheduling.ErrAppointmentNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeSchedulingRepo) ListAppointments(_ context.Context, q *scheduling.ListAppointmentsQuery) (*scheduling.PagedAppointments, error) {
	f.lastApptQuery = q
	return &scheduling.PagedAppointments{}, nil
}

func (f *fakeSchedulingRepo) CreateSession(_ context.Context, s *scheduling.TelehealthSession) error {
	s.ID = uuid.New()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSchedulingRepo) GetSession(_ context.Context, id uuid.UUID) (*scheduling.TelehealthSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, scheduling.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSchedulingRepo) UpdateSession(_ context.Context, id uuid.UUID, _ *scheduling.UpdateSessionCommand) (*scheduling.TelehealthSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, scheduling.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSchedulingRepo) DeleteSession(_ context.Context, id uuid.UUID) error {
	if _, ok := f.sessions[id]; !ok {
		return scheduling.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSchedulingRepo) ListSessions(_ context.Context, q *scheduling.ListSessionsQuery) (*scheduling.PagedSessions, error) {
	f.lastSessionQuery = q
	return &scheduling.PagedSessions{}, nil
}

func (f *fakeSchedulingRepo) StatsByStatus(_ context.Context, _, _ time.Time) ([]*scheduling.StatusStat, error) {
	return nil, nil
}

func newSchedulingService(repo scheduling.Repository, now time.Time) *SchedulingService {
	svc := NewSchedulingService(repo, newTestAudit(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateAppointmentRejectsPastDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newSchedulingService(newFakeSchedulingRepo(), now)

	_, err := svc.CreateAppointment(context.Background(), staffActor(), &scheduling.CreateAppointmentCommand{
		PatientID:    uuid.New(),
		ProviderID:   uuid.New(),
		DateTime:     now.Add(-time.Minute),
		DurationMins: 30,
		Reason:       "follow up",
	}, "")
	assert.ErrorIs(t, err, scheduling.ErrScheduledInPast)
}

func TestCreateAppointmentRejectsNonPositiveDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newSchedulingService(newFakeSchedulingRepo(), now)

	_, err := svc.CreateAppointment(context.Background(), staffActor(), &scheduling.CreateAppointmentCommand{
		PatientID:    uuid.New(),
		ProviderID:   uuid.New(),
		DateTime:     now.Add(time.Hour),
		DurationMins: 0,
		Reason:       "follow up",
	}, "")
	assert.ErrorIs(t, err, scheduling.ErrInvalidDuration)
}

func TestCreateAppointmentDefaultsToScheduled(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeSchedulingRepo()
	svc := newSchedulingService(repo, now)

	a, err := svc.CreateAppointment(context.Background(), staffActor(), &scheduling.CreateAppointmentCommand{
		PatientID:    uuid.New(),
		ProviderID:   uuid.New(),
		DateTime:     now.Add(time.Hour),
		DurationMins: 30,
		Reason:       "annual physical",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, scheduling.AppointmentScheduled, a.Status)
}

func TestCreateSessionRequiresExistingAppointment(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newSchedulingService(newFakeSchedulingRepo(), now)

	missing := uuid.New()
	_, err := svc.CreateSession(context.Background(), staffActor(), &scheduling.CreateSessionCommand{
		PatientID:     uuid.New(),
		ProviderID:    uuid.New(),
		AppointmentID: &missing,
		SessionDate:   now.Add(time.Hour),
		DurationMins:  20,
	}, "")
	assert.ErrorIs(t, err, scheduling.ErrAppointmentNotFound)
}

func TestListAppointmentsNarrowsProviderFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeSchedulingRepo()
	svc := newSchedulingService(repo, now)

	other := uuid.New()
	doctor := doctorActor()
	_, err := svc.ListAppointments(context.Background(), doctor, &scheduling.ListAppointmentsQuery{ProviderID: &other})
	require.NoError(t, err)
	require.NotNil(t, repo.lastApptQuery.ProviderID)
	assert.Equal(t, doctor.UserID, *repo.lastApptQuery.ProviderID)

	_, err = svc.ListAppointments(context.Background(), adminActor(), &scheduling.ListAppointmentsQuery{ProviderID: &other})
	require.NoError(t, err)
	assert.Equal(t, other, *repo.lastApptQuery.ProviderID)
}

func TestSchedulingMutationsRequireStaff(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newSchedulingService(newFakeSchedulingRepo(), now)

	_, err := svc.CreateAppointment(context.Background(), patientActor(), &scheduling.CreateAppointmentCommand{
		DateTime:     now.Add(time.Hour),
		DurationMins: 30,
		Reason:       "visit",
	}, "")
	assert.ErrorIs(t, err, access.ErrDenied)
}
