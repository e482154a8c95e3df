package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("user_id = ?", p.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return patient.ErrPatientAlreadyExists
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	updates := map[string]any{}
	if cmd.FirstName != nil {
		updates["first_name"] = *cmd.FirstName
	}
	if cmd.LastName != nil {
		updates["last_name"] = *cmd.LastName
	}
	if cmd.DateOfBirth != nil {
		updates["date_of_birth"] = *cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		updates["gender"] = *cmd.Gender
	}
	if cmd.Address != nil {
		updates["address"] = *cmd.Address
	}
	if cmd.PhoneNumber != nil {
		updates["phone_number"] = *cmd.PhoneNumber
	}
	if cmd.EmergencyContact != nil {
		updates["emergency_contact"] = *cmd.EmergencyContact
	}
	if cmd.EmergencyPhone != nil {
		updates["emergency_phone"] = *cmd.EmergencyPhone
	}
	if cmd.BloodType != nil {
		updates["blood_type"] = *cmd.BloodType
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Patient{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrPatientNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete hard-deletes the patient row; FK constraints cascade to every
// clinical row that belongs to it.
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&patient.Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	db := r.db.WithContext(ctx).Model(&patient.Patient{})

	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + s + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone_number ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var patients []*patient.Patient
	if err := paginate(db, q.Page, q.PageSize).Order("last_name, first_name").Find(&patients).Error; err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   patients,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *PatientRepository) CreateHistory(ctx context.Context, h *patient.MedicalHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *PatientRepository) GetHistory(ctx context.Context, id uuid.UUID) (*patient.MedicalHistory, error) {
	var h patient.MedicalHistory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrHistoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PatientRepository) UpdateHistory(ctx context.Context, id uuid.UUID, cmd *patient.UpdateMedicalHistoryCommand) (*patient.MedicalHistory, error) {
	updates := map[string]any{}
	if cmd.Condition != nil {
		updates["condition"] = *cmd.Condition
	}
	if cmd.DiagnosisDate != nil {
		updates["diagnosis_date"] = *cmd.DiagnosisDate
	}
	if cmd.Severity != nil {
		updates["severity"] = *cmd.Severity
	}
	if cmd.IsChronic != nil {
		updates["is_chronic"] = *cmd.IsChronic
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.MedicalHistory{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrHistoryNotFound
		}
	}
	return r.GetHistory(ctx, id)
}

func (r *PatientRepository) DeleteHistory(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&patient.MedicalHistory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrHistoryNotFound
	}
	return nil
}

func (r *PatientRepository) ListHistories(ctx context.Context, patientID uuid.UUID) ([]*patient.MedicalHistory, error) {
	var histories []*patient.MedicalHistory
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("diagnosis_date DESC").
		Find(&histories).Error
	return histories, err
}

func (r *PatientRepository) CreateAllergy(ctx context.Context, a *patient.Allergy) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PatientRepository) GetAllergy(ctx context.Context, id uuid.UUID) (*patient.Allergy, error) {
	var a patient.Allergy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrAllergyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PatientRepository) UpdateAllergy(ctx context.Context, id uuid.UUID, cmd *patient.UpdateAllergyCommand) (*patient.Allergy, error) {
	updates := map[string]any{}
	if cmd.Allergen != nil {
		updates["allergen"] = *cmd.Allergen
	}
	if cmd.Reaction != nil {
		updates["reaction"] = *cmd.Reaction
	}
	if cmd.Severity != nil {
		updates["severity"] = *cmd.Severity
	}
	if cmd.OnsetDate != nil {
		updates["onset_date"] = *cmd.OnsetDate
	}
	if cmd.IsActive != nil {
		updates["is_active"] = *cmd.IsActive
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Allergy{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrAllergyNotFound
		}
	}
	return r.GetAllergy(ctx, id)
}

func (r *PatientRepository) DeleteAllergy(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&patient.Allergy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrAllergyNotFound
	}
	return nil
}

func (r *PatientRepository) ListAllergies(ctx context.Context, patientID uuid.UUID) ([]*patient.Allergy, error) {
	var allergies []*patient.Allergy
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&allergies).Error
	return allergies, err
}

func (r *PatientRepository) CreateImmunization(ctx context.Context, im *patient.Immunization) error {
	return r.db.WithContext(ctx).Create(im).Error
}

func (r *PatientRepository) GetImmunization(ctx context.Context, id uuid.UUID) (*patient.Immunization, error) {
	var im patient.Immunization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&im).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, patient.ErrImmunizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &im, nil
}

func (r *PatientRepository) UpdateImmunization(ctx context.Context, id uuid.UUID, cmd *patient.UpdateImmunizationCommand) (*patient.Immunization, error) {
	updates := map[string]any{}
	if cmd.Vaccine != nil {
		updates["vaccine"] = *cmd.Vaccine
	}
	if cmd.AdministrationDate != nil {
		updates["administration_date"] = *cmd.AdministrationDate
	}
	if cmd.NextDoseDate != nil {
		updates["next_dose_date"] = *cmd.NextDoseDate
	}
	if cmd.LotNumber != nil {
		updates["lot_number"] = *cmd.LotNumber
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&patient.Immunization{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, patient.ErrImmunizationNotFound
		}
	}
	return r.GetImmunization(ctx, id)
}

func (r *PatientRepository) DeleteImmunization(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&patient.Immunization{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patient.ErrImmunizationNotFound
	}
	return nil
}

func (r *PatientRepository) ListImmunizations(ctx context.Context, patientID uuid.UUID) ([]*patient.Immunization, error) {
	var immunizations []*patient.Immunization
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("administration_date DESC").
		Find(&immunizations).Error
	return immunizations, err
}
