package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/prescription"
)

type PrescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

func (r *PrescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, prescription.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrescriptionRepository) Update(ctx context.Context, id uuid.UUID, cmd *prescription.UpdatePrescriptionCommand) (*prescription.Prescription, error) {
	updates := map[string]any{}
	if cmd.Medication != nil {
		updates["medication"] = *cmd.Medication
	}
	if cmd.Dosage != nil {
		updates["dosage"] = *cmd.Dosage
	}
	if cmd.Frequency != nil {
		updates["frequency"] = *cmd.Frequency
	}
	if cmd.StartDate != nil {
		updates["start_date"] = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		updates["end_date"] = *cmd.EndDate
	}
	if cmd.Refills != nil {
		updates["refills"] = *cmd.Refills
	}
	if cmd.IsActive != nil {
		updates["is_active"] = *cmd.IsActive
	}
	if cmd.Instructions != nil {
		updates["instructions"] = *cmd.Instructions
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&prescription.Prescription{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, prescription.ErrPrescriptionNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *PrescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&prescription.Prescription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return prescription.ErrPrescriptionNotFound
	}
	return nil
}

func (r *PrescriptionRepository) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) (*prescription.PagedPrescriptions, error) {
	db := r.db.WithContext(ctx).Model(&prescription.Prescription{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.PrescriberID != nil {
		db = db.Where("prescriber_id = ?", *q.PrescriberID)
	}
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where("medication ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var prescriptions []*prescription.Prescription
	if err := paginate(db, q.Page, q.PageSize).Order("created_at DESC").Find(&prescriptions).Error; err != nil {
		return nil, err
	}

	return &prescription.PagedPrescriptions{
		Prescriptions: prescriptions,
		TotalCount:    total,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    totalPages(total, q.PageSize),
	}, nil
}

func (r *PrescriptionRepository) CountByMedication(ctx context.Context) ([]*prescription.MedicationCount, error) {
	var counts []*prescription.MedicationCount
	err := r.db.WithContext(ctx).Model(&prescription.Prescription{}).
		Select("medication, COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active_count").
		Group("medication").
		Order("total DESC").
		Scan(&counts).Error
	return counts, err
}
