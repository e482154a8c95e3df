package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

type SchedulingService struct {
	repo      scheduling.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	now       func() time.Time
	log       *zap.Logger
}

func NewSchedulingService(repo scheduling.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *SchedulingService {
	return &SchedulingService{repo: repo, auditSvc: auditSvc, collector: collector, now: time.Now, log: log}
}

func (s *SchedulingService) CreateAppointment(ctx context.Context, actor access.Actor, cmd *scheduling.CreateAppointmentCommand, ip string) (*scheduling.Appointment, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Reason) == "" {
		errs = append(errs, "reason is required")
	}
	if cmd.DateTime.IsZero() {
		errs = append(errs, "date_time is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if cmd.DateTime.Before(s.now()) {
		return nil, scheduling.ErrScheduledInPast
	}
	if cmd.DurationMins <= 0 {
		return nil, scheduling.ErrInvalidDuration
	}

	a := &scheduling.Appointment{
		PatientID:    cmd.PatientID,
		ProviderID:   cmd.ProviderID,
		DateTime:     cmd.DateTime,
		DurationMins: cmd.DurationMins,
		Reason:       strings.TrimSpace(cmd.Reason),
		Status:       scheduling.AppointmentScheduled,
		Notes:        cmd.Notes,
	}
	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}

	if s.collector != nil {
		s.collector.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, "appointment", a.ID, ip)
	return a, nil
}

func (s *SchedulingService) GetAppointment(ctx context.Context, actor access.Actor, id uuid.UUID) (*scheduling.Appointment, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetAppointment(ctx, id)
}

func (s *SchedulingService) UpdateAppointment(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *scheduling.UpdateAppointmentCommand, ip string) (*scheduling.Appointment, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Status != nil && !cmd.Status.IsValid() {
		errs = append(errs, "status is invalid")
	}
	if cmd.DurationMins != nil && *cmd.DurationMins <= 0 {
		errs = append(errs, "duration_mins must be positive")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	a, err := s.repo.UpdateAppointment(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "appointment", id, ip)
	return a, nil
}

func (s *SchedulingService) DeleteAppointment(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "appointment", id, ip)
	return nil
}

func (s *SchedulingService) ListAppointments(ctx context.Context, actor access.Actor, q *scheduling.ListAppointmentsQuery) (*scheduling.PagedAppointments, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.ProviderID = actor.ScopeOwner(q.ProviderID)
	return s.repo.ListAppointments(ctx, q)
}

func (s *SchedulingService) CreateSession(ctx context.Context, actor access.Actor, cmd *scheduling.CreateSessionCommand, ip string) (*scheduling.TelehealthSession, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	if cmd.SessionDate.IsZero() {
		return nil, &ValidationError{Fields: []string{"session_date is required"}}
	}
	if cmd.SessionDate.Before(s.now()) {
		return nil, scheduling.ErrSessionInPast
	}
	if cmd.DurationMins <= 0 {
		return nil, scheduling.ErrInvalidDuration
	}

	if cmd.AppointmentID != nil {
		if _, err := s.repo.GetAppointment(ctx, *cmd.AppointmentID); err != nil {
			return nil, err
		}
	}

	sess := &scheduling.TelehealthSession{
		PatientID:     cmd.PatientID,
		ProviderID:    cmd.ProviderID,
		AppointmentID: cmd.AppointmentID,
		SessionDate:   cmd.SessionDate,
		DurationMins:  cmd.DurationMins,
		Status:        scheduling.SessionScheduled,
		JoinURL:       cmd.JoinURL,
		Notes:         cmd.Notes,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		s.log.Error("failed to create telehealth session", zap.Error(err))
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "telehealth_session", sess.ID, ip)
	return sess, nil
}

func (s *SchedulingService) GetSession(ctx context.Context, actor access.Actor, id uuid.UUID) (*scheduling.TelehealthSession, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetSession(ctx, id)
}

func (s *SchedulingService) UpdateSession(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *scheduling.UpdateSessionCommand, ip string) (*scheduling.TelehealthSession, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Status != nil && !cmd.Status.IsValid() {
		errs = append(errs, "status is invalid")
	}
	if cmd.DurationMins != nil && *cmd.DurationMins <= 0 {
		errs = append(errs, "duration_mins must be positive")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	sess, err := s.repo.UpdateSession(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "telehealth_session", id, ip)
	return sess, nil
}

func (s *SchedulingService) DeleteSession(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "telehealth_session", id, ip)
	return nil
}

func (s *SchedulingService) ListSessions(ctx context.Context, actor access.Actor, q *scheduling.ListSessionsQuery) (*scheduling.PagedSessions, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.ProviderID = actor.ScopeOwner(q.ProviderID)
	return s.repo.ListSessions(ctx, q)
}

func (s *SchedulingService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
