package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

type PrescriptionService struct {
	repo      prescription.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewPrescriptionService(repo prescription.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{repo: repo, auditSvc: auditSvc, collector: collector, log: log}
}

func (s *PrescriptionService) Create(ctx context.Context, actor access.Actor, cmd *prescription.CreatePrescriptionCommand, ip string) (*prescription.Prescription, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Medication) == "" {
		errs = append(errs, "medication is required")
	}
	if strings.TrimSpace(cmd.Dosage) == "" {
		errs = append(errs, "dosage is required")
	}
	if !cmd.Frequency.IsValid() {
		errs = append(errs, "frequency is invalid")
	}
	if cmd.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if cmd.EndDate != nil && cmd.EndDate.Before(cmd.StartDate) {
		errs = append(errs, "end_date cannot be before start_date")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p := &prescription.Prescription{
		PatientID:    cmd.PatientID,
		PrescriberID: actor.UserID,
		Medication:   strings.TrimSpace(cmd.Medication),
		Dosage:       strings.TrimSpace(cmd.Dosage),
		Frequency:    cmd.Frequency,
		StartDate:    cmd.StartDate,
		EndDate:      cmd.EndDate,
		Refills:      cmd.Refills,
		IsActive:     true,
		Instructions: cmd.Instructions,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	if s.collector != nil {
		s.collector.PrescriptionsIssued.Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, p.ID, ip)
	return p, nil
}

func (s *PrescriptionService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*prescription.Prescription, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *PrescriptionService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *prescription.UpdatePrescriptionCommand, ip string) (*prescription.Prescription, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Frequency != nil && !cmd.Frequency.IsValid() {
		errs = append(errs, "frequency is invalid")
	}
	if cmd.StartDate != nil && cmd.EndDate != nil && cmd.EndDate.Before(*cmd.StartDate) {
		errs = append(errs, "end_date cannot be before start_date")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, id, ip)
	return p, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Doctor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, id, ip)
	return nil
}

// List narrows the prescriber filter to the actor for everyone below Admin.
func (s *PrescriptionService) List(ctx context.Context, actor access.Actor, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	q.PrescriberID = actor.ScopeOwner(q.PrescriberID)
	return s.repo.List(ctx, q)
}

func (s *PrescriptionService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: "prescription",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
