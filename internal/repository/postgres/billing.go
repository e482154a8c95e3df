package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) CreateRecord(ctx context.Context, rec *billing.BillingRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *BillingRepository) GetRecord(ctx context.Context, id uuid.UUID) (*billing.BillingRecord, error) {
	var rec billing.BillingRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *BillingRepository) UpdateRecord(ctx context.Context, id uuid.UUID, cmd *billing.UpdateRecordCommand) (*billing.BillingRecord, error) {
	updates := map[string]any{}
	if cmd.ServiceDate != nil {
		updates["service_date"] = *cmd.ServiceDate
	}
	if cmd.ServiceDescription != nil {
		updates["service_description"] = *cmd.ServiceDescription
	}
	if cmd.Amount != nil {
		updates["amount"] = *cmd.Amount
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.InsuranceClaim != nil {
		updates["insurance_claim"] = *cmd.InsuranceClaim
	}
	if cmd.ClaimID != nil {
		updates["claim_id"] = *cmd.ClaimID
	}
	if cmd.PaymentDate != nil {
		updates["payment_date"] = *cmd.PaymentDate
	}
	if cmd.PaymentAmount != nil {
		updates["payment_amount"] = *cmd.PaymentAmount
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&billing.BillingRecord{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, billing.ErrRecordNotFound
		}
	}
	return r.GetRecord(ctx, id)
}

func (r *BillingRepository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&billing.BillingRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return billing.ErrRecordNotFound
	}
	return nil
}

func (r *BillingRepository) ListRecords(ctx context.Context, q *billing.ListRecordsQuery) (*billing.PagedRecords, error) {
	db := r.db.WithContext(ctx).Model(&billing.BillingRecord{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		db = db.Where("service_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("service_date <= ?", *q.DateTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var records []*billing.BillingRecord
	if err := paginate(db, q.Page, q.PageSize).Order("service_date DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return &billing.PagedRecords{
		Records:    records,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *BillingRepository) CreatePolicy(ctx context.Context, p *billing.InsurancePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BillingRepository) GetPolicy(ctx context.Context, id uuid.UUID) (*billing.InsurancePolicy, error) {
	var p billing.InsurancePolicy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BillingRepository) UpdatePolicy(ctx context.Context, id uuid.UUID, cmd *billing.UpdatePolicyCommand) (*billing.InsurancePolicy, error) {
	updates := map[string]any{}
	if cmd.ProviderName != nil {
		updates["provider_name"] = *cmd.ProviderName
	}
	if cmd.PolicyNumber != nil {
		updates["policy_number"] = *cmd.PolicyNumber
	}
	if cmd.GroupNumber != nil {
		updates["group_number"] = *cmd.GroupNumber
	}
	if cmd.SubscriberName != nil {
		updates["subscriber_name"] = *cmd.SubscriberName
	}
	if cmd.RelationshipToPatient != nil {
		updates["relationship_to_patient"] = *cmd.RelationshipToPatient
	}
	if cmd.CoverageStartDate != nil {
		updates["coverage_start_date"] = *cmd.CoverageStartDate
	}
	if cmd.CoverageEndDate != nil {
		updates["coverage_end_date"] = *cmd.CoverageEndDate
	}
	if cmd.IsActive != nil {
		updates["is_active"] = *cmd.IsActive
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&billing.InsurancePolicy{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, billing.ErrPolicyNotFound
		}
	}
	return r.GetPolicy(ctx, id)
}

func (r *BillingRepository) DeletePolicy(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&billing.InsurancePolicy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return billing.ErrPolicyNotFound
	}
	return nil
}

func (r *BillingRepository) ListPolicies(ctx context.Context, q *billing.ListPoliciesQuery) (*billing.PagedPolicies, error) {
	db := r.db.WithContext(ctx).Model(&billing.InsurancePolicy{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + s + "%"
		db = db.Where("provider_name ILIKE ? OR subscriber_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var policies []*billing.InsurancePolicy
	if err := paginate(db, q.Page, q.PageSize).Order("created_at DESC").Find(&policies).Error; err != nil {
		return nil, err
	}

	return &billing.PagedPolicies{
		Policies:   policies,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

// SumInWindow aggregates with COALESCE so an empty window produces zeros
// rather than SQL nulls.
func (r *BillingRepository) SumInWindow(ctx context.Context, from, to *time.Time) (*billing.Totals, error) {
	db := r.db.WithContext(ctx).Model(&billing.BillingRecord{})

	if from != nil {
		db = db.Where("service_date >= ?", *from)
	}
	if to != nil {
		db = db.Where("service_date <= ?", *to)
	}

	var totals billing.Totals
	err := db.Select(
		"COALESCE(SUM(amount), 0) AS total_amount, " +
			"COALESCE(SUM(payment_amount), 0) AS total_paid, " +
			"COUNT(*) AS total_records",
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
