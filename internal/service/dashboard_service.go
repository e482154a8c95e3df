package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/coordination"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

// DashboardSummary is the landing-page digest for a signed-in user.
type DashboardSummary struct {
	PatientCount       int64                     `json:"patient_count"`
	TodaysAppointments []*scheduling.Appointment `json:"todays_appointments"`
	PendingTasks       []*coordination.Task      `json:"pending_tasks"`
	UnreadAlertCount   int64                     `json:"unread_alert_count"`
}

type DashboardService struct {
	patients     patient.Repository
	scheduling   scheduling.Repository
	coordination coordination.Repository
	now          func() time.Time
	log          *zap.Logger
}

func NewDashboardService(patients patient.Repository, sched scheduling.Repository, coord coordination.Repository, log *zap.Logger) *DashboardService {
	return &DashboardService{
		patients:     patients,
		scheduling:   sched,
		coordination: coord,
		now:          time.Now,
		log:          log,
	}
}

// Summary assembles the digest. Appointments are provider-scoped for
// non-admins; tasks are always the actor's own pending ones.
func (s *DashboardService) Summary(ctx context.Context, actor access.Actor) (*DashboardSummary, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	out := &DashboardSummary{}

	patients, err := s.patients.List(ctx, &patient.ListPatientsQuery{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}
	out.PatientCount = patients.TotalCount

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	appts, err := s.scheduling.ListAppointments(ctx, &scheduling.ListAppointmentsQuery{
		ProviderID: actor.ScopeOwner(nil),
		DateFrom:   &dayStart,
		DateTo:     &dayEnd,
		Page:       1,
		PageSize:   50,
	})
	if err != nil {
		return nil, fmt.Errorf("listing today's appointments: %w", err)
	}
	out.TodaysAppointments = appts.Appointments

	pending := coordination.TaskPending
	me := actor.UserID
	tasks, err := s.coordination.ListTasks(ctx, &coordination.ListTasksQuery{
		AssignedTo: &me,
		Status:     &pending,
		Page:       1,
		PageSize:   50,
	})
	if err != nil {
		return nil, fmt.Errorf("listing pending tasks: %w", err)
	}
	out.PendingTasks = tasks.Tasks

	unread, err := s.coordination.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("counting unread alerts: %w", err)
	}
	out.UnreadAlertCount = unread

	return out, nil
}
