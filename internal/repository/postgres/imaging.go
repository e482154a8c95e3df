package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/imaging"
)

type ImagingRepository struct {
	db *gorm.DB
}

func NewImagingRepository(db *gorm.DB) *ImagingRepository {
	return &ImagingRepository{db: db}
}

func (r *ImagingRepository) CreateStudy(ctx context.Context, s *imaging.ImagingStudy) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ImagingRepository) GetStudy(ctx context.Context, id uuid.UUID) (*imaging.ImagingStudy, error) {
	var s imaging.ImagingStudy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, imaging.ErrStudyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ImagingRepository) UpdateStudy(ctx context.Context, id uuid.UUID, cmd *imaging.UpdateStudyCommand) (*imaging.ImagingStudy, error) {
	updates := map[string]any{}
	if cmd.StudyType != nil {
		updates["study_type"] = *cmd.StudyType
	}
	if cmd.StudyDate != nil {
		updates["study_date"] = *cmd.StudyDate
	}
	if cmd.Facility != nil {
		updates["facility"] = *cmd.Facility
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&imaging.ImagingStudy{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, imaging.ErrStudyNotFound
		}
	}
	return r.GetStudy(ctx, id)
}

func (r *ImagingRepository) DeleteStudy(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&imaging.ImagingStudy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return imaging.ErrStudyNotFound
	}
	return nil
}

func (r *ImagingRepository) ListStudies(ctx context.Context, q *imaging.ListStudiesQuery) (*imaging.PagedStudies, error) {
	db := r.db.WithContext(ctx).Model(&imaging.ImagingStudy{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.OrderingProviderID != nil {
		db = db.Where("ordering_provider_id = ?", *q.OrderingProviderID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		db = db.Where("study_type ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var studies []*imaging.ImagingStudy
	if err := paginate(db, q.Page, q.PageSize).Order("study_date DESC").Find(&studies).Error; err != nil {
		return nil, err
	}

	return &imaging.PagedStudies{
		Studies:    studies,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *ImagingRepository) CreateResult(ctx context.Context, res *imaging.ImagingResult) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ImagingRepository) GetResult(ctx context.Context, id uuid.UUID) (*imaging.ImagingResult, error) {
	var res imaging.ImagingResult
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, imaging.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ImagingRepository) GetResultByStudy(ctx context.Context, studyID uuid.UUID) (*imaging.ImagingResult, error) {
	var res imaging.ImagingResult
	err := r.db.WithContext(ctx).Where("imaging_study_id = ?", studyID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, imaging.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ImagingRepository) UpdateResult(ctx context.Context, id uuid.UUID, cmd *imaging.UpdateResultCommand) (*imaging.ImagingResult, error) {
	updates := map[string]any{}
	if cmd.ResultDate != nil {
		updates["result_date"] = *cmd.ResultDate
	}
	if cmd.Findings != nil {
		updates["findings"] = *cmd.Findings
	}
	if cmd.Impression != nil {
		updates["impression"] = *cmd.Impression
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&imaging.ImagingResult{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, imaging.ErrResultNotFound
		}
	}
	return r.GetResult(ctx, id)
}

func (r *ImagingRepository) DeleteResult(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&imaging.ImagingResult{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return imaging.ErrResultNotFound
	}
	return nil
}
