package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/coordination"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

type CoordinationService struct {
	repo      coordination.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	now       func() time.Time
	log       *zap.Logger
}

func NewCoordinationService(repo coordination.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *CoordinationService {
	return &CoordinationService{repo: repo, auditSvc: auditSvc, collector: collector, now: time.Now, log: log}
}

func (s *CoordinationService) CreateAlert(ctx context.Context, actor access.Actor, cmd *coordination.CreateAlertCommand, ip string) (*coordination.Alert, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(cmd.Message) == "" {
		errs = append(errs, "message is required")
	}
	if !cmd.Priority.IsValid() {
		errs = append(errs, "priority is invalid")
	}
	if cmd.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.EndDate != nil && cmd.EndDate.Before(cmd.StartDate) {
		return nil, coordination.ErrEndBeforeStart
	}

	a := &coordination.Alert{
		Title:     strings.TrimSpace(cmd.Title),
		Message:   cmd.Message,
		Priority:  cmd.Priority,
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		IsActive:  true,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.CreateAlert(ctx, a); err != nil {
		s.log.Error("failed to create alert", zap.Error(err))
		return nil, fmt.Errorf("creating alert: %w", err)
	}

	if s.collector != nil {
		s.collector.AlertsRaisedTotal.WithLabelValues(string(a.Priority)).Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, "alert", a.ID, ip)
	return a, nil
}

func (s *CoordinationService) GetAlert(ctx context.Context, actor access.Actor, id uuid.UUID) (*coordination.Alert, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetAlert(ctx, id)
}

func (s *CoordinationService) UpdateAlert(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *coordination.UpdateAlertCommand, ip string) (*coordination.Alert, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Priority != nil && !cmd.Priority.IsValid() {
		errs = append(errs, "priority is invalid")
	}
	if cmd.StartDate != nil && cmd.EndDate != nil && cmd.EndDate.Before(*cmd.StartDate) {
		return nil, coordination.ErrEndBeforeStart
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	a, err := s.repo.UpdateAlert(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "alert", id, ip)
	return a, nil
}

func (s *CoordinationService) DeleteAlert(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteAlert(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "alert", id, ip)
	return nil
}

func (s *CoordinationService) ListAlerts(ctx context.Context, actor access.Actor, q *coordination.ListAlertsQuery) (*coordination.PagedAlerts, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.ListAlerts(ctx, q)
}

// MarkAlertRead records that the acting user has seen an alert. The read
// state row is created on first read; marking twice keeps the original
// timestamp.
func (s *CoordinationService) MarkAlertRead(ctx context.Context, actor access.Actor, alertID uuid.UUID) (*coordination.UserAlert, error) {
	if err := actor.Require(access.Authenticated); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetAlert(ctx, alertID); err != nil {
		return nil, err
	}

	ua, err := s.repo.GetUserAlert(ctx, alertID, actor.UserID)
	if errors.Is(err, coordination.ErrUserAlertNotFound) {
		ua = &coordination.UserAlert{AlertID: alertID, UserID: actor.UserID}
	} else if err != nil {
		return nil, err
	}

	ua.MarkRead(s.now())
	if err := s.repo.SaveUserAlert(ctx, ua); err != nil {
		return nil, fmt.Errorf("saving user alert: %w", err)
	}
	return ua, nil
}

func (s *CoordinationService) ListMyAlerts(ctx context.Context, actor access.Actor, unreadOnly bool) ([]*coordination.UserAlert, error) {
	if err := actor.Require(access.Authenticated); err != nil {
		return nil, err
	}
	return s.repo.ListUserAlerts(ctx, actor.UserID, unreadOnly)
}

func (s *CoordinationService) CreateTask(ctx context.Context, actor access.Actor, cmd *coordination.CreateTaskCommand, ip string) (*coordination.Task, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Title) == "" {
		errs = append(errs, "title is required")
	}
	if cmd.AssignedTo == uuid.Nil {
		errs = append(errs, "assigned_to is required")
	}
	if !cmd.Priority.IsValid() {
		errs = append(errs, "priority is invalid")
	}
	if cmd.DueDate.IsZero() {
		errs = append(errs, "due_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.DueDate.Before(s.now()) {
		return nil, coordination.ErrDueDateInPast
	}

	t := &coordination.Task{
		Title:       strings.TrimSpace(cmd.Title),
		Description: cmd.Description,
		AssignedTo:  cmd.AssignedTo,
		CreatedBy:   actor.UserID,
		DueDate:     cmd.DueDate,
		Priority:    cmd.Priority,
		Status:      coordination.TaskPending,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		s.log.Error("failed to create task", zap.Error(err))
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "task", t.ID, ip)
	return t, nil
}

// GetTask hides other people's tasks from non-admins: a row owned by someone
// else is reported as not found, not as forbidden.
func (s *CoordinationService) GetTask(ctx context.Context, actor access.Actor, id uuid.UUID) (*coordination.Task, error) {
	if err := actor.Require(access.Authenticated); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && t.AssignedTo != actor.UserID {
		return nil, coordination.ErrTaskNotFound
	}
	return t, nil
}

func (s *CoordinationService) UpdateTask(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *coordination.UpdateTaskCommand, ip string) (*coordination.Task, error) {
	if err := actor.Require(access.Authenticated); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Priority != nil && !cmd.Priority.IsValid() {
		errs = append(errs, "priority is invalid")
	}
	if cmd.Status != nil && !cmd.Status.IsValid() {
		errs = append(errs, "status is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && t.AssignedTo != actor.UserID {
		return nil, coordination.ErrTaskNotFound
	}
	// A status change is accepted from the assignee regardless of role;
	// anything else on the row needs staff capability.
	statusOnly := cmd.Status != nil && cmd.Title == nil && cmd.Description == nil &&
		cmd.AssignedTo == nil && cmd.DueDate == nil && cmd.Priority == nil
	if statusOnly {
		if !actor.OwnsOrCan(t.AssignedTo, access.Staff) {
			return nil, access.ErrDenied
		}
	} else if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	t, err = s.repo.UpdateTask(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "task", id, ip)
	return t, nil
}

func (s *CoordinationService) DeleteTask(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "task", id, ip)
	return nil
}

// ListTasks narrows the assignee filter to the actor below Admin.
func (s *CoordinationService) ListTasks(ctx context.Context, actor access.Actor, q *coordination.ListTasksQuery) (*coordination.PagedTasks, error) {
	if err := actor.Require(access.Authenticated); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.AssignedTo = actor.ScopeOwner(q.AssignedTo)
	return s.repo.ListTasks(ctx, q)
}

func (s *CoordinationService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
