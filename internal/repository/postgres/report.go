package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/report"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CreateReport(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) GetReportByTitle(ctx context.Context, title string) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) UpdateReport(ctx context.Context, rep *report.Report) error {
	res := r.db.WithContext(ctx).Model(&report.Report{}).
		Where("id = ?", rep.ID).
		Updates(map[string]any{
			"title":       rep.Title,
			"description": rep.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

// DeleteReport removes the report together with its parameter declarations
// and result snapshots in one transaction.
func (r *ReportRepository) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&report.Parameter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", id).Delete(&report.Result{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&report.Report{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return report.ErrReportNotFound
		}
		return nil
	})
}

func (r *ReportRepository) ListReports(ctx context.Context, q report.ListReportsQuery) (*report.PagedReports, error) {
	db := r.db.WithContext(ctx).Model(&report.Report{})

	if q.Type != nil {
		db = db.Where("report_type = ?", *q.Type)
	}
	if q.Search != "" {
		db = db.Where("title ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []*report.Report
	if err := paginate(db, q.Page, q.PageSize).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	return &report.PagedReports{
		Reports:    reports,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *ReportRepository) CreateParameter(ctx context.Context, p *report.Parameter) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ReportRepository) GetParameterByID(ctx context.Context, id uuid.UUID) (*report.Parameter, error) {
	var p report.Parameter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrParameterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ReportRepository) DeleteParameter(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&report.Parameter{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrParameterNotFound
	}
	return nil
}

func (r *ReportRepository) ListParameters(ctx context.Context, reportID uuid.UUID) ([]*report.Parameter, error) {
	var params []*report.Parameter
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("name").
		Find(&params).Error
	return params, err
}

func (r *ReportRepository) CreateResult(ctx context.Context, res *report.Result) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ReportRepository) GetResultByID(ctx context.Context, id uuid.UUID) (*report.Result, error) {
	var res report.Result
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReportRepository) ListResults(ctx context.Context, reportID uuid.UUID) ([]*report.Result, error) {
	var results []*report.Result
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("generated_at DESC").
		Find(&results).Error
	return results, err
}
