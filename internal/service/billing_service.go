package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/billing"
)

type BillingService struct {
	repo     billing.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewBillingService(repo billing.Repository, auditSvc *AuditService, log *zap.Logger) *BillingService {
	return &BillingService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *BillingService) CreateRecord(ctx context.Context, actor access.Actor, cmd *billing.CreateRecordCommand, ip string) (*billing.BillingRecord, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.ServiceDescription) == "" {
		errs = append(errs, "service_description is required")
	}
	if cmd.ServiceDate.IsZero() {
		errs = append(errs, "service_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.Amount.IsNegative() {
		return nil, billing.ErrNegativeAmount
	}

	r := &billing.BillingRecord{
		PatientID:          cmd.PatientID,
		AppointmentID:      cmd.AppointmentID,
		ServiceDate:        cmd.ServiceDate,
		ServiceDescription: strings.TrimSpace(cmd.ServiceDescription),
		Amount:             cmd.Amount,
		Status:             billing.StatusPending,
		InsuranceClaim:     cmd.InsuranceClaim,
		ClaimID:            cmd.ClaimID,
		Notes:              cmd.Notes,
	}
	if err := s.repo.CreateRecord(ctx, r); err != nil {
		s.log.Error("failed to create billing record", zap.Error(err))
		return nil, fmt.Errorf("creating billing record: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "billing_record", r.ID, ip)
	return r, nil
}

func (s *BillingService) GetRecord(ctx context.Context, actor access.Actor, id uuid.UUID) (*billing.BillingRecord, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetRecord(ctx, id)
}

func (s *BillingService) UpdateRecord(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *billing.UpdateRecordCommand, ip string) (*billing.BillingRecord, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status is invalid"}}
	}
	if cmd.Amount != nil && cmd.Amount.IsNegative() {
		return nil, billing.ErrNegativeAmount
	}
	if cmd.PaymentAmount != nil && cmd.PaymentAmount.IsNegative() {
		return nil, billing.ErrNegativeAmount
	}

	r, err := s.repo.UpdateRecord(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "billing_record", id, ip)
	return r, nil
}

func (s *BillingService) DeleteRecord(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "billing_record", id, ip)
	return nil
}

func (s *BillingService) ListRecords(ctx context.Context, actor access.Actor, q *billing.ListRecordsQuery) (*billing.PagedRecords, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.ListRecords(ctx, q)
}

func (s *BillingService) CreatePolicy(ctx context.Context, actor access.Actor, cmd *billing.CreatePolicyCommand, ip string) (*billing.InsurancePolicy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.ProviderName) == "" {
		errs = append(errs, "provider_name is required")
	}
	if strings.TrimSpace(cmd.PolicyNumber) == "" {
		errs = append(errs, "policy_number is required")
	}
	if strings.TrimSpace(cmd.SubscriberName) == "" {
		errs = append(errs, "subscriber_name is required")
	}
	if cmd.CoverageStartDate.IsZero() {
		errs = append(errs, "coverage_start_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.CoverageEndDate != nil && cmd.CoverageEndDate.Before(cmd.CoverageStartDate) {
		return nil, billing.ErrCoverageEndFirst
	}

	p := &billing.InsurancePolicy{
		PatientID:             cmd.PatientID,
		ProviderName:          strings.TrimSpace(cmd.ProviderName),
		PolicyNumber:          strings.TrimSpace(cmd.PolicyNumber),
		GroupNumber:           cmd.GroupNumber,
		SubscriberName:        strings.TrimSpace(cmd.SubscriberName),
		RelationshipToPatient: cmd.RelationshipToPatient,
		CoverageStartDate:     cmd.CoverageStartDate,
		CoverageEndDate:       cmd.CoverageEndDate,
		IsActive:              true,
		Notes:                 cmd.Notes,
	}
	if err := s.repo.CreatePolicy(ctx, p); err != nil {
		s.log.Error("failed to create insurance policy", zap.Error(err))
		return nil, fmt.Errorf("creating insurance policy: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "insurance_policy", p.ID, ip)
	return p, nil
}

func (s *BillingService) GetPolicy(ctx context.Context, actor access.Actor, id uuid.UUID) (*billing.InsurancePolicy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetPolicy(ctx, id)
}

func (s *BillingService) UpdatePolicy(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *billing.UpdatePolicyCommand, ip string) (*billing.InsurancePolicy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	if cmd.CoverageStartDate != nil && cmd.CoverageEndDate != nil && cmd.CoverageEndDate.Before(*cmd.CoverageStartDate) {
		return nil, billing.ErrCoverageEndFirst
	}

	p, err := s.repo.UpdatePolicy(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "insurance_policy", id, ip)
	return p, nil
}

func (s *BillingService) DeletePolicy(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeletePolicy(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "insurance_policy", id, ip)
	return nil
}

func (s *BillingService) ListPolicies(ctx context.Context, actor access.Actor, q *billing.ListPoliciesQuery) (*billing.PagedPolicies, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.ListPolicies(ctx, q)
}

func (s *BillingService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}
