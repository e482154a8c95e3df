package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

// ReportStore is the read surface the aggregation strategies run against. It
// reuses the per-entity repositories for the aggregations they already own
// and only adds the demographic snapshot query.
type ReportStore struct {
	db            *gorm.DB
	scheduling    *SchedulingRepository
	billing       *BillingRepository
	prescriptions *PrescriptionRepository
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{
		db:            db,
		scheduling:    NewSchedulingRepository(db),
		billing:       NewBillingRepository(db),
		prescriptions: NewPrescriptionRepository(db),
	}
}

func (s *ReportStore) PatientsSnapshot(ctx context.Context, f patient.SnapshotFilter, limit int) ([]*patient.Patient, int64, error) {
	db := s.db.WithContext(ctx).Model(&patient.Patient{})
	if f.Gender != nil {
		db = db.Where("gender = ?", *f.Gender)
	}
	if f.BornOnOrBefore != nil {
		db = db.Where("date_of_birth <= ?", *f.BornOnOrBefore)
	}
	if f.BornOnOrAfter != nil {
		db = db.Where("date_of_birth >= ?", *f.BornOnOrAfter)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var patients []*patient.Patient
	if err := db.Order("last_name, first_name").Limit(limit).Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (s *ReportStore) AppointmentStatsByStatus(ctx context.Context, from, to time.Time) ([]*scheduling.StatusStat, error) {
	return s.scheduling.StatsByStatus(ctx, from, to)
}

func (s *ReportStore) BillingTotals(ctx context.Context, from, to *time.Time) (*billing.Totals, error) {
	return s.billing.SumInWindow(ctx, from, to)
}

func (s *ReportStore) MedicationCounts(ctx context.Context) ([]*prescription.MedicationCount, error) {
	return s.prescriptions.CountByMedication(ctx)
}
