package reportengine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

type fakeStore struct {
	patients     []*patient.Patient
	patientTotal int64
	gotFilter    patient.SnapshotFilter
	gotLimit     int

	stats   []*scheduling.StatusStat
	gotFrom time.Time
	gotTo   time.Time

	totals *billing.Totals

	counts []*prescription.MedicationCount
}

func (f *fakeStore) PatientsSnapshot(_ context.Context, filter patient.SnapshotFilter, limit int) ([]*patient.Patient, int64, error) {
	f.gotFilter = filter
	f.gotLimit = limit

	var rows []*patient.Patient
	for _, p := range f.patients {
		if filter.Gender != nil && p.Gender != *filter.Gender {
			continue
		}
		if filter.BornOnOrBefore != nil && p.DateOfBirth.After(*filter.BornOnOrBefore) {
			continue
		}
		if filter.BornOnOrAfter != nil && p.DateOfBirth.Before(*filter.BornOnOrAfter) {
			continue
		}
		rows = append(rows, p)
	}
	return rows, f.patientTotal, nil
}

func (f *fakeStore) AppointmentStatsByStatus(_ context.Context, from, to time.Time) ([]*scheduling.StatusStat, error) {
	f.gotFrom = from
	f.gotTo = to
	return f.stats, nil
}

func (f *fakeStore) BillingTotals(_ context.Context, _, _ *time.Time) (*billing.Totals, error) {
	return f.totals, nil
}

func (f *fakeStore) MedicationCounts(_ context.Context) ([]*prescription.MedicationCount, error) {
	return f.counts, nil
}

func newTestEngine(store Store, now time.Time) *Engine {
	e := NewEngine(store, zap.NewNop())
	e.now = func() time.Time { return now }
	return e
}

func TestPatientListReportsTrueTotalWithClampedRows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		patients: []*patient.Patient{{
			ID:          uuid.New(),
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DateOfBirth: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
			Gender:      patient.GenderFemale,
		}},
		patientTotal: 4200,
	}
	engine := newTestEngine(store, now)

	payload, err := engine.Generate(context.Background(), report.TypePatientList, report.Params{"gender": "F"})
	require.NoError(t, err)

	assert.Equal(t, maxPatientRows, store.gotLimit)
	require.NotNil(t, store.gotFilter.Gender)
	assert.Equal(t, patient.GenderFemale, *store.gotFilter.Gender)

	assert.Equal(t, int64(4200), payload["total_count"])
	assert.Equal(t, 1, payload["returned_count"])

	rows := payload["patients"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Lovelace", rows[0]["name"])

	filters := payload["filters"].(map[string]any)
	assert.Equal(t, "F", filters["gender"])
}

func TestPatientListRejectsUnknownGender(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, time.Now())

	_, err := engine.Generate(context.Background(), report.TypePatientList, report.Params{"gender": "X"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPatientListAgeBoundsNarrowTheSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		patients: []*patient.Patient{
			{FirstName: "Young", LastName: "Patient", DateOfBirth: now.AddDate(0, 0, -365*5)},
			{FirstName: "Mid", LastName: "Patient", DateOfBirth: now.AddDate(0, 0, -365*25)},
			{FirstName: "Old", LastName: "Patient", DateOfBirth: now.AddDate(0, 0, -365*50)},
		},
		patientTotal: 1,
	}
	engine := newTestEngine(store, now)

	payload, err := engine.Generate(context.Background(), report.TypePatientList, report.Params{
		"min_age": "18",
		"max_age": "30",
	})
	require.NoError(t, err)

	require.NotNil(t, store.gotFilter.BornOnOrBefore)
	assert.Equal(t, now.AddDate(0, 0, -365*18), *store.gotFilter.BornOnOrBefore)
	require.NotNil(t, store.gotFilter.BornOnOrAfter)
	assert.Equal(t, now.AddDate(0, 0, -365*30), *store.gotFilter.BornOnOrAfter)

	rows := payload["patients"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mid Patient", rows[0]["name"])
	assert.Equal(t, 25, rows[0]["age"])

	filters := payload["filters"].(map[string]any)
	assert.Equal(t, 18, filters["min_age"])
	assert.Equal(t, 30, filters["max_age"])
}

func TestPatientListRejectsMalformedAgeBounds(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, time.Now())

	tests := []struct {
		name   string
		params report.Params
	}{
		{"non-integer min_age", report.Params{"min_age": "eighteen"}},
		{"non-integer max_age", report.Params{"max_age": "30.5"}},
		{"negative min_age", report.Params{"min_age": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Generate(context.Background(), report.TypePatientList, tt.params)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestApproximateAgeUsesFlatYears(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"same day", now, 0},
		{"364 days", now.AddDate(0, 0, -364), 0},
		{"365 days", now.AddDate(0, 0, -365), 1},
		{"forty flat years", now.AddDate(0, 0, -365*40), 40},
		{"future date clamps to zero", now.AddDate(0, 0, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, approximateAge(tt.dob, now))
		})
	}
}

func TestAppointmentStatsDefaultsToTrailingThirtyDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	store := &fakeStore{
		stats: []*scheduling.StatusStat{
			{Status: scheduling.AppointmentScheduled, Count: 7, DurationAvg: 30},
			{Status: scheduling.AppointmentCompleted, Count: 5, DurationAvg: 45},
		},
	}
	engine := newTestEngine(store, now)

	payload, err := engine.Generate(context.Background(), report.TypeAppointmentStats, nil)
	require.NoError(t, err)

	assert.Equal(t, now, store.gotTo)
	assert.Equal(t, now.Add(-30*24*time.Hour), store.gotFrom)

	assert.Equal(t, int64(12), payload["total_appointments"])
	assert.Equal(t, "2025-05-16", payload["start_date"])
	assert.Equal(t, "2025-06-15", payload["end_date"])
}

func TestAppointmentStatsHonorsExplicitWindow(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(store, time.Now())

	payload, err := engine.Generate(context.Background(), report.TypeAppointmentStats, report.Params{
		"start_date": "2025-01-01",
		"end_date":   "2025-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), store.gotFrom)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), store.gotTo)
	assert.Equal(t, int64(0), payload["total_appointments"])
}

func TestAppointmentStatsRejectsMalformedDate(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, time.Now())

	_, err := engine.Generate(context.Background(), report.TypeAppointmentStats, report.Params{"start_date": "31/01/2025"})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBillingSummaryOverEmptySetIsZero(t *testing.T) {
	store := &fakeStore{totals: &billing.Totals{}}
	engine := newTestEngine(store, time.Now())

	payload, err := engine.Generate(context.Background(), report.TypeBillingSummary, nil)
	require.NoError(t, err)

	assert.Equal(t, "0", payload["total_billed"])
	assert.Equal(t, "0", payload["total_paid"])
	assert.Equal(t, "0", payload["outstanding"])
	assert.Equal(t, int64(0), payload["total_records"])
	assert.NotContains(t, payload, "start_date")
}

func TestBillingSummaryComputesOutstanding(t *testing.T) {
	store := &fakeStore{totals: &billing.Totals{
		TotalAmount:  decimal.RequireFromString("1250.50"),
		TotalPaid:    decimal.RequireFromString("1000.25"),
		TotalRecords: 9,
	}}
	engine := newTestEngine(store, time.Now())

	payload, err := engine.Generate(context.Background(), report.TypeBillingSummary, report.Params{"start_date": "2025-01-01"})
	require.NoError(t, err)

	assert.Equal(t, "1250.5", payload["total_billed"])
	assert.Equal(t, "250.25", payload["outstanding"])
	assert.Equal(t, "2025-01-01", payload["start_date"])
}

func TestPrescriptionAnalysisSumsAcrossMedications(t *testing.T) {
	store := &fakeStore{counts: []*prescription.MedicationCount{
		{Medication: "Lisinopril", Total: 12, ActiveCount: 8},
		{Medication: "Metformin", Total: 5, ActiveCount: 5},
	}}
	engine := newTestEngine(store, time.Now())

	payload, err := engine.Generate(context.Background(), report.TypePrescriptionAnalysis, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(17), payload["total_prescriptions"])
	assert.Equal(t, int64(13), payload["active_prescriptions"])

	meds := payload["medications"].([]map[string]any)
	require.Len(t, meds, 2)
	assert.Equal(t, "Lisinopril", meds[0]["medication"])
}

func TestUnsupportedTypeYieldsErrorPayload(t *testing.T) {
	engine := newTestEngine(&fakeStore{}, time.Now())

	payload, err := engine.Generate(context.Background(), report.TypeCustom, nil)
	require.NoError(t, err)
	assert.Contains(t, payload["error"], "CUSTOM")
}
