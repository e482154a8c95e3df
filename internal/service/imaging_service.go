package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/imaging"
)

type ImagingService struct {
	repo     imaging.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewImagingService(repo imaging.Repository, auditSvc *AuditService, log *zap.Logger) *ImagingService {
	return &ImagingService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *ImagingService) CreateStudy(ctx context.Context, actor access.Actor, cmd *imaging.CreateStudyCommand, ip string) (*imaging.ImagingStudy, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.StudyType) == "" {
		errs = append(errs, "study_type is required")
	}
	if cmd.StudyDate.IsZero() {
		errs = append(errs, "study_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	st := &imaging.ImagingStudy{
		PatientID:          cmd.PatientID,
		OrderingProviderID: actor.UserID,
		StudyType:          strings.TrimSpace(cmd.StudyType),
		StudyDate:          cmd.StudyDate,
		Facility:           cmd.Facility,
		Status:             imaging.StatusPending,
		Notes:              cmd.Notes,
	}
	if err := s.repo.CreateStudy(ctx, st); err != nil {
		s.log.Error("failed to create imaging study", zap.Error(err))
		return nil, fmt.Errorf("creating imaging study: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "imaging_study", st.ID, ip)
	return st, nil
}

func (s *ImagingService) GetStudy(ctx context.Context, actor access.Actor, id uuid.UUID) (*imaging.ImagingStudy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetStudy(ctx, id)
}

// UpdateStudy applies the editability rule: only doctor-level actors may
// modify a study, and completed studies are frozen for everyone.
func (s *ImagingService) UpdateStudy(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *imaging.UpdateStudyCommand, ip string) (*imaging.ImagingStudy, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status is invalid"}}
	}

	st, err := s.repo.GetStudy(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.Editable(actor.Can(access.Doctor)) {
		return nil, imaging.ErrStudyNotEditable
	}

	st, err = s.repo.UpdateStudy(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "imaging_study", id, ip)
	return st, nil
}

func (s *ImagingService) DeleteStudy(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Doctor); err != nil {
		return err
	}
	if err := s.repo.DeleteStudy(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "imaging_study", id, ip)
	return nil
}

func (s *ImagingService) ListStudies(ctx context.Context, actor access.Actor, q *imaging.ListStudiesQuery) (*imaging.PagedStudies, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.OrderingProviderID = actor.ScopeOwner(q.OrderingProviderID)
	return s.repo.ListStudies(ctx, q)
}

func (s *ImagingService) CreateResult(ctx context.Context, actor access.Actor, cmd *imaging.CreateResultCommand, ip string) (*imaging.ImagingResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Findings) == "" {
		errs = append(errs, "findings is required")
	}
	if strings.TrimSpace(cmd.Impression) == "" {
		errs = append(errs, "impression is required")
	}
	if cmd.ResultDate.IsZero() {
		errs = append(errs, "result_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetStudy(ctx, cmd.ImagingStudyID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetResultByStudy(ctx, cmd.ImagingStudyID); err == nil {
		return nil, imaging.ErrResultAlreadyExists
	} else if !errors.Is(err, imaging.ErrResultNotFound) {
		return nil, fmt.Errorf("checking existing result: %w", err)
	}

	r := &imaging.ImagingResult{
		ImagingStudyID: cmd.ImagingStudyID,
		ResultDate:     cmd.ResultDate,
		Findings:       cmd.Findings,
		Impression:     cmd.Impression,
		RadiologistID:  cmd.RadiologistID,
		ReviewedBy:     cmd.ReviewedBy,
	}
	if err := s.repo.CreateResult(ctx, r); err != nil {
		return nil, fmt.Errorf("creating imaging result: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "imaging_result", r.ID, ip)
	return r, nil
}

func (s *ImagingService) GetResult(ctx context.Context, actor access.Actor, id uuid.UUID) (*imaging.ImagingResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetResult(ctx, id)
}

func (s *ImagingService) UpdateResult(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *imaging.UpdateResultCommand, ip string) (*imaging.ImagingResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	r, err := s.repo.UpdateResult(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "imaging_result", id, ip)
	return r, nil
}

func (s *ImagingService) DeleteResult(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteResult(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "imaging_result", id, ip)
	return nil
}

func (s *ImagingService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
