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
	"github.com/chartwell-health/chartwell/internal/domain/lab"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

type LabService struct {
	repo      lab.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewLabService(repo lab.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *LabService {
	return &LabService{repo: repo, auditSvc: auditSvc, collector: collector, log: log}
}

func (s *LabService) CreateTest(ctx context.Context, actor access.Actor, cmd *lab.CreateTestCommand, ip string) (*lab.LabTest, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.TestName) == "" {
		errs = append(errs, "test_name is required")
	}
	if cmd.TestDate.IsZero() {
		errs = append(errs, "test_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	t := &lab.LabTest{
		PatientID:          cmd.PatientID,
		OrderingProviderID: actor.UserID,
		TestName:           strings.TrimSpace(cmd.TestName),
		TestDate:           cmd.TestDate,
		LabName:            cmd.LabName,
		Status:             lab.StatusPending,
		Notes:              cmd.Notes,
	}
	if err := s.repo.CreateTest(ctx, t); err != nil {
		s.log.Error("failed to create lab test", zap.Error(err))
		return nil, fmt.Errorf("creating lab test: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "lab_test", t.ID, ip)
	return t, nil
}

func (s *LabService) GetTest(ctx context.Context, actor access.Actor, id uuid.UUID) (*lab.LabTest, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetTest(ctx, id)
}

func (s *LabService) UpdateTest(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *lab.UpdateTestCommand, ip string) (*lab.LabTest, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status is invalid"}}
	}

	t, err := s.repo.UpdateTest(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "lab_test", id, ip)
	return t, nil
}

func (s *LabService) DeleteTest(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Doctor); err != nil {
		return err
	}
	if err := s.repo.DeleteTest(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "lab_test", id, ip)
	return nil
}

// ListTests narrows the ordering-provider filter to the actor below Admin.
func (s *LabService) ListTests(ctx context.Context, actor access.Actor, q *lab.ListTestsQuery) (*lab.PagedTests, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.OrderingProviderID = actor.ScopeOwner(q.OrderingProviderID)
	return s.repo.ListTests(ctx, q)
}

// CreateResult files a result against its test. The parent moves to COMPLETED
// in the same transaction as the result insert.
func (s *LabService) CreateResult(ctx context.Context, actor access.Actor, cmd *lab.CreateResultCommand, ip string) (*lab.LabResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.ResultValue) == "" {
		errs = append(errs, "result_value is required")
	}
	if cmd.ResultDate.IsZero() {
		errs = append(errs, "result_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	parent, err := s.repo.GetTest(ctx, cmd.LabTestID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetResultByTest(ctx, parent.ID); err == nil {
		return nil, lab.ErrResultAlreadyExists
	} else if !errors.Is(err, lab.ErrResultNotFound) {
		return nil, fmt.Errorf("checking existing result: %w", err)
	}

	r := &lab.LabResult{
		LabTestID:      parent.ID,
		ResultDate:     cmd.ResultDate,
		ResultValue:    strings.TrimSpace(cmd.ResultValue),
		ReferenceRange: cmd.ReferenceRange,
		Units:          cmd.Units,
		AbnormalFlag:   cmd.AbnormalFlag,
		Interpretation: cmd.Interpretation,
		ReviewedBy:     cmd.ReviewedBy,
	}

	parent.AttachResult()
	if err := s.repo.CreateResult(ctx, r, parent); err != nil {
		s.log.Error("failed to create lab result", zap.Error(err))
		return nil, fmt.Errorf("creating lab result: %w", err)
	}

	if s.collector != nil {
		s.collector.LabResultsTotal.WithLabelValues("attach").Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, "lab_result", r.ID, ip)
	return r, nil
}

func (s *LabService) GetResult(ctx context.Context, actor access.Actor, id uuid.UUID) (*lab.LabResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetResult(ctx, id)
}

func (s *LabService) UpdateResult(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *lab.UpdateResultCommand, ip string) (*lab.LabResult, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	r, err := s.repo.UpdateResult(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "lab_result", id, ip)
	return r, nil
}

// DeleteResult removes a result and reverts its test to PENDING atomically.
func (s *LabService) DeleteResult(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}

	r, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return err
	}
	parent, err := s.repo.GetTest(ctx, r.LabTestID)
	if err != nil {
		return err
	}

	parent.DetachResult()
	if err := s.repo.DeleteResult(ctx, id, parent); err != nil {
		return err
	}

	if s.collector != nil {
		s.collector.LabResultsTotal.WithLabelValues("detach").Inc()
	}
	s.audit(ctx, actor, domain.ActionDelete, "lab_result", id, ip)
	return nil
}

func (s *LabService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
