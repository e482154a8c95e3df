package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/lab"
)

type LabRepository struct {
	db *gorm.DB
}

func NewLabRepository(db *gorm.DB) *LabRepository {
	return &LabRepository{db: db}
}

func (r *LabRepository) CreateTest(ctx context.Context, t *lab.LabTest) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LabRepository) GetTest(ctx context.Context, id uuid.UUID) (*lab.LabTest, error) {
	var t lab.LabTest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lab.ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *LabRepository) UpdateTest(ctx context.Context, id uuid.UUID, cmd *lab.UpdateTestCommand) (*lab.LabTest, error) {
	updates := map[string]any{}
	if cmd.TestName != nil {
		updates["test_name"] = *cmd.TestName
	}
	if cmd.TestDate != nil {
		updates["test_date"] = *cmd.TestDate
	}
	if cmd.LabName != nil {
		updates["lab_name"] = *cmd.LabName
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&lab.LabTest{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, lab.ErrTestNotFound
		}
	}
	return r.GetTest(ctx, id)
}

func (r *LabRepository) DeleteTest(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&lab.LabTest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lab.ErrTestNotFound
	}
	return nil
}

func (r *LabRepository) ListTests(ctx context.Context, q *lab.ListTestsQuery) (*lab.PagedTests, error) {
	db := r.db.WithContext(ctx).Model(&lab.LabTest{})

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
		db = db.Where("test_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var tests []*lab.LabTest
	if err := paginate(db, q.Page, q.PageSize).Order("test_date DESC").Find(&tests).Error; err != nil {
		return nil, err
	}

	return &lab.PagedTests{
		Tests:      tests,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// CreateResult inserts the result and persists the parent's status in one
// transaction, so a test never ends up COMPLETED without its result row.
func (r *LabRepository) CreateResult(ctx context.Context, res *lab.LabResult, parent *lab.LabTest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		return tx.Model(&lab.LabTest{}).
			Where("id = ?", parent.ID).
			Update("status", parent.Status).Error
	})
}

func (r *LabRepository) GetResult(ctx context.Context, id uuid.UUID) (*lab.LabResult, error) {
	var res lab.LabResult
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lab.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *LabRepository) GetResultByTest(ctx context.Context, testID uuid.UUID) (*lab.LabResult, error) {
	var res lab.LabResult
	err := r.db.WithContext(ctx).Where("lab_test_id = ?", testID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lab.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *LabRepository) UpdateResult(ctx context.Context, id uuid.UUID, cmd *lab.UpdateResultCommand) (*lab.LabResult, error) {
	updates := map[string]any{}
	if cmd.ResultDate != nil {
		updates["result_date"] = *cmd.ResultDate
	}
	if cmd.ResultValue != nil {
		updates["result_value"] = *cmd.ResultValue
	}
	if cmd.ReferenceRange != nil {
		updates["reference_range"] = *cmd.ReferenceRange
	}
	if cmd.Units != nil {
		updates["units"] = *cmd.Units
	}
	if cmd.AbnormalFlag != nil {
		updates["abnormal_flag"] = *cmd.AbnormalFlag
	}
	if cmd.Interpretation != nil {
		updates["interpretation"] = *cmd.Interpretation
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&lab.LabResult{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, lab.ErrResultNotFound
		}
	}
	return r.GetResult(ctx, id)
}

// DeleteResult removes the result and reverts the parent's status in one
// transaction.
func (r *LabRepository) DeleteResult(ctx context.Context, id uuid.UUID, parent *lab.LabTest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&lab.LabResult{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return lab.ErrResultNotFound
		}
		return tx.Model(&lab.LabTest{}).
			Where("id = ?", parent.ID).
			Update("status", parent.Status).Error
	})
}
