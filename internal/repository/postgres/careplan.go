package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/careplan"
)

type CarePlanRepository struct {
	db *gorm.DB
}

func NewCarePlanRepository(db *gorm.DB) *CarePlanRepository {
	return &CarePlanRepository{db: db}
}

func (r *CarePlanRepository) CreatePlan(ctx context.Context, p *careplan.TreatmentPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CarePlanRepository) GetPlan(ctx context.Context, id uuid.UUID) (*careplan.TreatmentPlan, error) {
	var p careplan.TreatmentPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, careplan.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CarePlanRepository) UpdatePlan(ctx context.Context, id uuid.UUID, cmd *careplan.UpdatePlanCommand) (*careplan.TreatmentPlan, error) {
	updates := map[string]any{}
	if cmd.Diagnosis != nil {
		updates["diagnosis"] = *cmd.Diagnosis
	}
	if cmd.StartDate != nil {
		updates["start_date"] = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		updates["end_date"] = *cmd.EndDate
	}
	if cmd.Goals != nil {
		updates["goals"] = *cmd.Goals
	}
	if cmd.IsActive != nil {
		updates["is_active"] = *cmd.IsActive
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&careplan.TreatmentPlan{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, careplan.ErrPlanNotFound
		}
	}
	return r.GetPlan(ctx, id)
}

func (r *CarePlanRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&careplan.TreatmentPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return careplan.ErrPlanNotFound
	}
	return nil
}

func (r *CarePlanRepository) ListPlans(ctx context.Context, q *careplan.ListPlansQuery) (*careplan.PagedPlans, error) {
	db := r.db.WithContext(ctx).Model(&careplan.TreatmentPlan{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.ProviderID != nil {
		db = db.Where("provider_id = ?", *q.ProviderID)
	}
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where("diagnosis ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var plans []*careplan.TreatmentPlan
	if err := paginate(db, q.Page, q.PageSize).Order("start_date DESC").Find(&plans).Error; err != nil {
		return nil, err
	}

	return &careplan.PagedPlans{
		Plans:      plans,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *CarePlanRepository) CreateNote(ctx context.Context, n *careplan.ProgressNote) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *CarePlanRepository) GetNote(ctx context.Context, id uuid.UUID) (*careplan.ProgressNote, error) {
	var n careplan.ProgressNote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, careplan.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *CarePlanRepository) UpdateNote(ctx context.Context, id uuid.UUID, cmd *careplan.UpdateNoteCommand) (*careplan.ProgressNote, error) {
	updates := map[string]any{}
	if cmd.NoteDate != nil {
		updates["note_date"] = *cmd.NoteDate
	}
	if cmd.Subjective != nil {
		updates["subjective"] = *cmd.Subjective
	}
	if cmd.Objective != nil {
		updates["objective"] = *cmd.Objective
	}
	if cmd.Assessment != nil {
		updates["assessment"] = *cmd.Assessment
	}
	if cmd.Plan != nil {
		updates["plan"] = *cmd.Plan
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&careplan.ProgressNote{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, careplan.ErrNoteNotFound
		}
	}
	return r.GetNote(ctx, id)
}

func (r *CarePlanRepository) DeleteNote(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&careplan.ProgressNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return careplan.ErrNoteNotFound
	}
	return nil
}

func (r *CarePlanRepository) ListNotes(ctx context.Context, planID uuid.UUID) ([]*careplan.ProgressNote, error) {
	var notes []*careplan.ProgressNote
	err := r.db.WithContext(ctx).
		Where("treatment_plan_id = ?", planID).
		Order("note_date DESC").
		Find(&notes).Error
	return notes, err
}
