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
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/pkg/metrics"
)

// PatientService covers the demographic record and its chart sub-resources.
// Deleting a patient is the one operation held at the Admin level because FK
// cascades make it the most destructive write in the system.
type PatientService struct {
	repo      patient.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, collector: collector, log: log}
}

func (s *PatientService) CreatePatient(ctx context.Context, actor access.Actor, cmd *patient.CreatePatientCommand, ip string) (*patient.Patient, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		UserID:           cmd.UserID,
		FirstName:        strings.TrimSpace(cmd.FirstName),
		LastName:         strings.TrimSpace(cmd.LastName),
		DateOfBirth:      cmd.DateOfBirth,
		Gender:           cmd.Gender,
		Address:          cmd.Address,
		PhoneNumber:      strings.TrimSpace(cmd.PhoneNumber),
		EmergencyContact: cmd.EmergencyContact,
		EmergencyPhone:   strings.TrimSpace(cmd.EmergencyPhone),
		BloodType:        cmd.BloodType,
		CreatedBy:        actor.UserID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, patient.ErrPatientAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	if s.collector != nil {
		s.collector.PatientsCreatedTotal.Inc()
	}
	s.audit(ctx, actor, domain.ActionCreate, "patient", p.ID, ip)

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) (*patient.Patient, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionRead, "patient", id, ip)
	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *patient.UpdatePatientCommand, ip string) (*patient.Patient, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.DateOfBirth != nil && cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	cmd.UpdatedBy = actor.UserID
	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "patient", id, ip)
	return p, nil
}

func (s *PatientService) DeletePatient(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Admin); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, actor, domain.ActionDelete, "patient", id, ip)
	s.log.Info("patient deleted", zap.String("patient_id", id.String()))
	return nil
}

func (s *PatientService) ListPatients(ctx context.Context, actor access.Actor, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

func (s *PatientService) CreateHistory(ctx context.Context, actor access.Actor, cmd *patient.CreateMedicalHistoryCommand, ip string) (*patient.MedicalHistory, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Condition) == "" {
		errs = append(errs, "condition is required")
	}
	if cmd.DiagnosisDate.IsZero() {
		errs = append(errs, "diagnosis_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// The parent must exist; the path-derived patient id wins over anything
	// in the body.
	if _, err := s.repo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	h := &patient.MedicalHistory{
		PatientID:     cmd.PatientID,
		Condition:     strings.TrimSpace(cmd.Condition),
		DiagnosisDate: cmd.DiagnosisDate,
		Severity:      cmd.Severity,
		IsChronic:     cmd.IsChronic,
		Notes:         cmd.Notes,
	}
	if err := s.repo.CreateHistory(ctx, h); err != nil {
		return nil, fmt.Errorf("creating medical history: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "medical_history", h.ID, ip)
	return h, nil
}

func (s *PatientService) GetHistory(ctx context.Context, actor access.Actor, id uuid.UUID) (*patient.MedicalHistory, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetHistory(ctx, id)
}

func (s *PatientService) UpdateHistory(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *patient.UpdateMedicalHistoryCommand, ip string) (*patient.MedicalHistory, error) {
	if err := actor.Require(access.Doctor); err != nil {
		return nil, err
	}

	h, err := s.repo.UpdateHistory(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "medical_history", id, ip)
	return h, nil
}

func (s *PatientService) DeleteHistory(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Doctor); err != nil {
		return err
	}
	if err := s.repo.DeleteHistory(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "medical_history", id, ip)
	return nil
}

func (s *PatientService) ListHistories(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*patient.MedicalHistory, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.ListHistories(ctx, patientID)
}

func (s *PatientService) CreateAllergy(ctx context.Context, actor access.Actor, cmd *patient.CreateAllergyCommand, ip string) (*patient.Allergy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Allergen) == "" {
		errs = append(errs, "allergen is required")
	}
	if strings.TrimSpace(cmd.Reaction) == "" {
		errs = append(errs, "reaction is required")
	}
	if !cmd.Severity.IsValid() {
		errs = append(errs, "severity is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	a := &patient.Allergy{
		PatientID: cmd.PatientID,
		Allergen:  strings.TrimSpace(cmd.Allergen),
		Reaction:  cmd.Reaction,
		Severity:  cmd.Severity,
		OnsetDate: cmd.OnsetDate,
		IsActive:  cmd.IsActive,
		Notes:     cmd.Notes,
	}
	if err := s.repo.CreateAllergy(ctx, a); err != nil {
		return nil, fmt.Errorf("creating allergy: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "allergy", a.ID, ip)
	return a, nil
}

func (s *PatientService) GetAllergy(ctx context.Context, actor access.Actor, id uuid.UUID) (*patient.Allergy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetAllergy(ctx, id)
}

func (s *PatientService) UpdateAllergy(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *patient.UpdateAllergyCommand, ip string) (*patient.Allergy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	if cmd.Severity != nil && !cmd.Severity.IsValid() {
		return nil, &ValidationError{Fields: []string{"severity is invalid"}}
	}

	a, err := s.repo.UpdateAllergy(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "allergy", id, ip)
	return a, nil
}

func (s *PatientService) DeleteAllergy(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteAllergy(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "allergy", id, ip)
	return nil
}

func (s *PatientService) ListAllergies(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*patient.Allergy, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.ListAllergies(ctx, patientID)
}

func (s *PatientService) CreateImmunization(ctx context.Context, actor access.Actor, cmd *patient.CreateImmunizationCommand, ip string) (*patient.Immunization, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	var errs []string
	if strings.TrimSpace(cmd.Vaccine) == "" {
		errs = append(errs, "vaccine is required")
	}
	if cmd.AdministrationDate.IsZero() {
		errs = append(errs, "administration_date is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	administeredBy := cmd.AdministeredBy
	if administeredBy == nil {
		id := actor.UserID
		administeredBy = &id
	}

	im := &patient.Immunization{
		PatientID:          cmd.PatientID,
		Vaccine:            strings.TrimSpace(cmd.Vaccine),
		AdministrationDate: cmd.AdministrationDate,
		NextDoseDate:       cmd.NextDoseDate,
		AdministeredBy:     administeredBy,
		LotNumber:          cmd.LotNumber,
		Notes:              cmd.Notes,
	}
	if err := s.repo.CreateImmunization(ctx, im); err != nil {
		return nil, fmt.Errorf("creating immunization: %w", err)
	}

	s.audit(ctx, actor, domain.ActionCreate, "immunization", im.ID, ip)
	return im, nil
}

func (s *PatientService) GetImmunization(ctx context.Context, actor access.Actor, id uuid.UUID) (*patient.Immunization, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.GetImmunization(ctx, id)
}

func (s *PatientService) UpdateImmunization(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *patient.UpdateImmunizationCommand, ip string) (*patient.Immunization, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}

	im, err := s.repo.UpdateImmunization(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, domain.ActionUpdate, "immunization", id, ip)
	return im, nil
}

func (s *PatientService) DeleteImmunization(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Staff); err != nil {
		return err
	}
	if err := s.repo.DeleteImmunization(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actor, domain.ActionDelete, "immunization", id, ip)
	return nil
}

func (s *PatientService) ListImmunizations(ctx context.Context, actor access.Actor, patientID uuid.UUID) ([]*patient.Immunization, error) {
	if err := actor.Require(access.Staff); err != nil {
		return nil, err
	}
	return s.repo.ListImmunizations(ctx, patientID)
}

func (s *PatientService) audit(ctx context.Context, actor access.Actor, action domain.AuditAction, resource string, id uuid.UUID, ip string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(action),
		ResourceType: resource,
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if cmd.UserID == uuid.Nil {
		errs = append(errs, "user_id is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	} else if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
