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
	"github.com/chartwell-health/chartwell/internal/domain/coordination"
)

type fakeCoordinationRepo struct {
	alerts     map[uuid.UUID]*coordination.Alert
	userAlerts map[uuid.UUID]*coordination.UserAlert
	tasks      map[uuid.UUID]*coordination.Task

	lastTaskQuery *coordination.ListTasksQuery
}

func newFakeCoordinationRepo() *fakeCoordinationRepo {
	return &fakeCoordinationRepo{
		alerts:     map[uuid.UUID]*coordination.Alert{},
		userAlerts: map[uuid.UUID]*coordination.UserAlert{},
		tasks:      map[uuid.UUID]*coordination.Task{},
	}
}

func (f *fakeCoordinationRepo) CreateAlert(_ context.Context, a *coordination.Alert) error {
	a.ID = uuid.New()
	f.alerts[a.ID] = a
	return nil
}

func (f *fakeCoordinationRepo) GetAlert(_ context.Context, id uuid.UUID) (*coordination.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, coordination.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeCoordinationRepo) UpdateAlert(_ context.Context, id uuid.UUID, _ *coordination.UpdateAlertCommand) (*coordination.Alert, error) {
	a, ok := f.alerts[id]
	if !ok {
		return nil, coordination.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeCoordinationRepo) DeleteAlert(_ context.Context, id uuid.UUID) error {
	if _, ok := f.alerts[id]; !ok {
		return coordination.ErrAlertNotFound
	}
	delete(f.alerts, id)
	return nil
}

func (f *fakeCoordinationRepo) ListAlerts(_ context.Context, _ *coordination.ListAlertsQuery) (*coordination.PagedAlerts, error) {
	return &coordination.PagedAlerts{}, nil
}

func (f *fakeCoordinationRepo) GetUserAlert(_ context.Context, alertID, userID uuid.UUID) (*coordination.UserAlert, error) {
	for _, ua := range f.userAlerts {
		if ua.AlertID == alertID && ua.UserID == userID {
			return ua, nil
		}
	}
	return nil, coordination.ErrUserAlertNotFound
}

func (f *fakeCoordinationRepo) SaveUserAlert(_ context.Context, ua *coordination.UserAlert) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	f.userAlerts[ua.ID] = ua
	return nil
}

func (f *fakeCoordinationRepo) ListUserAlerts(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]*coordination.UserAlert, error) {
	var out []*coordination.UserAlert
	for _, ua := range f.userAlerts {
		if ua.UserID != userID {
			continue
		}
		if unreadOnly && ua.IsRead {
			continue
		}
		out = append(out, ua)
	}
	return out, nil
}

func (f *fakeCoordinationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, ua := range f.userAlerts {
		if ua.UserID == userID && !ua.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeCoordinationRepo) CreateTask(_ context.Context, t *coordination.Task) error {
	t.ID = uuid.New()
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeCoordinationRepo) GetTask(_ context.Context, id uuid.UUID) (*coordination.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, coordination.ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeCoordinationRepo) UpdateTask(_ context.Context, id uuid.UUID, cmd *coordination.UpdateTaskCommand) (*coordination.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, coordination.ErrTaskNotFound
	}
	if cmd.Status != nil {
		t.Status = *cmd.Status
	}
	if cmd.Title != nil {
		t.Title = *cmd.Title
	}
	return t, nil
}

func (f *fakeCoordinationRepo) DeleteTask(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return coordination.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeCoordinationRepo) ListTasks(_ context.Context, q *coordination.ListTasksQuery) (*coordination.PagedTasks, error) {
	f.lastTaskQuery = q
	return &coordination.PagedTasks{}, nil
}

func newCoordinationService(repo coordination.Repository, now time.Time) *CoordinationService {
	svc := NewCoordinationService(repo, newTestAudit(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func seedTask(repo *fakeCoordinationRepo, assignee uuid.UUID) *coordination.Task {
	t := &coordination.Task{
		ID:         uuid.New(),
		Title:      "Chase referral paperwork",
		AssignedTo: assignee,
		CreatedBy:  uuid.New(),
		DueDate:    time.Now().Add(48 * time.Hour),
		Priority:   coordination.TaskPriorityMedium,
		Status:     coordination.TaskPending,
	}
	repo.tasks[t.ID] = t
	return t
}

func TestGetTaskMasksForeignRowsAsNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeCoordinationRepo()
	svc := newCoordinationService(repo, now)

	task := seedTask(repo, uuid.New())

	_, err := svc.GetTask(context.Background(), staffActor(), task.ID)
	assert.ErrorIs(t, err, coordination.ErrTaskNotFound)

	got, err := svc.GetTask(context.Background(), adminActor(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestAssigneeMayUpdateOnlyStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeCoordinationRepo()
	svc := newCoordinationService(repo, now)

	assignee := patientActor()
	task := seedTask(repo, assignee.UserID)

	done := coordination.TaskCompleted
	got, err := svc.UpdateTask(context.Background(), assignee, task.ID, &coordination.UpdateTaskCommand{Status: &done}, "")
	require.NoError(t, err)
	assert.Equal(t, coordination.TaskCompleted, got.Status)

	newTitle := "Renamed"
	_, err = svc.UpdateTask(context.Background(), assignee, task.ID, &coordination.UpdateTaskCommand{Title: &newTitle}, "")
	assert.ErrorIs(t, err, access.ErrDenied)
}

func TestCreateTaskRejectsPastDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newCoordinationService(newFakeCoordinationRepo(), now)

	_, err := svc.CreateTask(context.Background(), staffActor(), &coordination.CreateTaskCommand{
		Title:      "Call pharmacy",
		AssignedTo: uuid.New(),
		DueDate:    now.Add(-time.Hour),
		Priority:   coordination.TaskPriorityHigh,
	}, "")
	assert.ErrorIs(t, err, coordination.ErrDueDateInPast)
}

func TestListTasksNarrowsAssigneeFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeCoordinationRepo()
	svc := newCoordinationService(repo, now)

	other := uuid.New()
	nurse := nurseActor()
	_, err := svc.ListTasks(context.Background(), nurse, &coordination.ListTasksQuery{AssignedTo: &other})
	require.NoError(t, err)
	require.NotNil(t, repo.lastTaskQuery.AssignedTo)
	assert.Equal(t, nurse.UserID, *repo.lastTaskQuery.AssignedTo)
}

func TestMarkAlertReadKeepsFirstReadTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	repo := newFakeCoordinationRepo()
	svc := newCoordinationService(repo, now)

	alert := &coordination.Alert{ID: uuid.New(), Title: "Flu season protocol", Message: "x", Priority: coordination.PriorityHigh, StartDate: now}
	repo.alerts[alert.ID] = alert

	staff := staffActor()
	ua, err := svc.MarkAlertRead(context.Background(), staff, alert.ID)
	require.NoError(t, err)
	require.True(t, ua.IsRead)
	first := *ua.ReadAt

	svc.now = func() time.Time { return now.Add(time.Hour) }
	ua, err = svc.MarkAlertRead(context.Background(), staff, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *ua.ReadAt)

	unread, err := repo.CountUnread(context.Background(), staff.UserID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestCreateAlertRejectsEndBeforeStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newCoordinationService(newFakeCoordinationRepo(), now)

	end := now.Add(-24 * time.Hour)
	_, err := svc.CreateAlert(context.Background(), staffActor(), &coordination.CreateAlertCommand{
		Title:     "Maintenance window",
		Message:   "Portal down tonight",
		Priority:  coordination.PriorityLow,
		StartDate: now,
		EndDate:   &end,
	}, "")
	assert.ErrorIs(t, err, coordination.ErrEndBeforeStart)
}
