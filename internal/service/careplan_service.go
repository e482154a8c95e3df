package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/careplan"
)

type CarePlanService struct {
	repo     careplan.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewCarePlanService(repo careplan.Repository, auditSvc *AuditService, log *zap.Logger) *CarePlanService {
	return &CarePlanService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *CarePlanService) CreatePlan(ctx context.Context, actor access.Actor, cmd *careplan.CreatePlanCommand, ip string) (*careplan.TreatmentPlan, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		errs = append(errs, "diagnosis is required")
	}
	if strings.TrimSpace(cmd.Goals) == "" {
		errs = append(errs, "goals is required")
	}
	if cmd.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.EndDate != nil && cmd.EndDate.Before(cmd.StartDate) {
		return nil, careplan.ErrEndBeforeStart
	}

	p := &careplan.TreatmentPlan{
		PatientID:  cmd.PatientID,
		ProviderID: actor.UserID,
		Diagnosis:  strings.TrimSpace(cmd.Diagnosis),
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
		Goals:      cmd.Goals,
		IsActive:   true,
	}
	if err := s.repo.CreatePlan(ctx, p); err != nil {
		s.log.Error("failed to create treatment plan", zap.Error(err))
		return nil, fmt.Errorf("creating treatment plan: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "treatment_plan", p.ID, ip)
	return p, nil
}

func (s *CarePlanService) GetPlan(ctx context.Context, actor access.Actor, id uuid.UUID) (*careplan.TreatmentPlan, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetPlan(ctx, id)
}

func (s *CarePlanService) UpdatePlan(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *careplan.UpdatePlanCommand, ip string) (*careplan.TreatmentPlan, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}
	if cmd.StartDate != nil && cmd.EndDate != nil && cmd.EndDate.Before(*cmd.StartDate) {
		return nil, careplan.ErrEndBeforeStart
	}

	p, err := s.repo.UpdatePlan(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "treatment_plan", id, ip)
	return p, nil
}

func (s *CarePlanService) DeletePlan(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Doctor); err != nil {
		return err
	}
	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "treatment_plan", id, ip)
	return nil
}

func (s *CarePlanService) ListPlans(ctx context.Context, actor access.Actor, q *careplan.ListPlansQuery) (*careplan.PagedPlans, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.ProviderID = actor.ScopeOwner(q.ProviderID)
	return s.repo.ListPlans(ctx, q)
}

func (s *CarePlanService) CreateNote(ctx context.Context, actor access.Actor, cmd *careplan.CreateNoteCommand, ip string) (*careplan.ProgressNote, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	if cmd.NoteDate.IsZero() {
		return nil, &ValidationError{Fields: []string{"note_date is required"}}
	}
	if _, err := s.repo.GetPlan(ctx, cmd.TreatmentPlanID); err != nil {
		return nil, err
	}

	n := &careplan.ProgressNote{
		TreatmentPlanID: cmd.TreatmentPlanID,
		AuthorID:        actor.UserID,
		NoteDate:        cmd.NoteDate,
		Subjective:      cmd.Subjective,
		Objective:       cmd.Objective,
		Assessment:      cmd.Assessment,
		Plan:            cmd.Plan,
	}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return nil, fmt.Errorf("creating progress note: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "progress_note", n.ID, ip)
	return n, nil
}

func (s *CarePlanService) GetNote(ctx context.Context, actor access.Actor, id uuid.UUID) (*careplan.ProgressNote, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetNote(ctx, id)
}

func (s *CarePlanService) UpdateNote(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *careplan.UpdateNoteCommand, ip string) (*careplan.ProgressNote, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	n, err := s.repo.UpdateNote(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "progress_note", id, ip)
	return n, nil
}

func (s *CarePlanService) DeleteNote(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "progress_note", id, ip)
	return nil
}

func (s *CarePlanService) ListNotes(ctx context.Context, actor access.Actor, planID uuid.UUID) ([]*careplan.ProgressNote, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, planID)
}

func (s *CarePlanService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
