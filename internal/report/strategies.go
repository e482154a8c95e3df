package reportengine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/report"
)

const (
	// Demographic snapshots are clamped so a large installation cannot turn a
	// stored result row into a full table dump. The true matching count is
	// reported alongside the clamped rows.
	maxPatientRows = 1000

	dateParam = "2006-01-02"

	// Window applied to appointment statistics when no bounds are supplied.
	defaultStatsWindow = 30 * 24 * time.Hour
)

func patientListStrategy(ctx context.Context, store Store, params report.Params, now time.Time) (report.Payload, error) {
	var filter patient.SnapshotFilter
	filters := map[string]any{}

	if raw, ok := params["gender"]; ok && raw != "" {
		g := patient.Gender(raw)
		if !g.IsValid() {
			return nil, fmt.Errorf("%w: gender %q", ErrInvalidParameter, raw)
		}
		filter.Gender = &g
		filters["gender"] = raw
	}

	// Age bounds translate to date of birth bounds through the same flat
	// 365-day year the displayed ages use.
	if raw, ok := params["min_age"]; ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: min_age %q", ErrInvalidParameter, raw)
		}
		bound := now.AddDate(0, 0, -365*n)
		filter.BornOnOrBefore = &bound
		filters["min_age"] = n
	}
	if raw, ok := params["max_age"]; ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: max_age %q", ErrInvalidParameter, raw)
		}
		bound := now.AddDate(0, 0, -365*n)
		filter.BornOnOrAfter = &bound
		filters["max_age"] = n
	}

	rows, total, err := store.PatientsSnapshot(ctx, filter, maxPatientRows)
	if err != nil {
		return nil, err
	}

	patients := make([]map[string]any, 0, len(rows))
	for _, p := range rows {
		patients = append(patients, map[string]any{
			"id":            p.ID.String(),
			"name":          p.FullName(),
			"date_of_birth": p.DateOfBirth.Format(dateParam),
			"age":           approximateAge(p.DateOfBirth, now),
			"gender":        string(p.Gender),
			"phone_number":  p.PhoneNumber,
			"blood_type":    p.BloodType,
		})
	}

	return report.Payload{
		"patients":       patients,
		"returned_count": len(patients),
		"total_count":    total,
		"filters":        filters,
	}, nil
}

// approximateAge uses a flat 365-day year. Ages computed around a birthday
// can be off by one day's worth of leap days; the historical report format
// keeps this behavior so regenerated snapshots stay comparable to old ones.
func approximateAge(dob, now time.Time) int {
	days := int(now.Sub(dob).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 365
}

func appointmentStatsStrategy(ctx context.Context, store Store, params report.Params, now time.Time) (report.Payload, error) {
	to := now
	from := now.Add(-defaultStatsWindow)

	if raw, ok := params["start_date"]; ok && raw != "" {
		t, err := time.Parse(dateParam, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date %q", ErrInvalidParameter, raw)
		}
		from = t
	}
	if raw, ok := params["end_date"]; ok && raw != "" {
		t, err := time.Parse(dateParam, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date %q", ErrInvalidParameter, raw)
		}
		to = t
	}

	stats, err := store.AppointmentStatsByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byStatus := make([]map[string]any, 0, len(stats))
	var total int64
	for _, s := range stats {
		total += s.Count
		byStatus = append(byStatus, map[string]any{
			"status":       string(s.Status),
			"count":        s.Count,
			"avg_duration": s.DurationAvg,
		})
	}

	return report.Payload{
		"start_date":         from.Format(dateParam),
		"end_date":           to.Format(dateParam),
		"by_status":          byStatus,
		"total_appointments": total,
	}, nil
}

func billingSummaryStrategy(ctx context.Context, store Store, params report.Params, _ time.Time) (report.Payload, error) {
	var from, to *time.Time

	if raw, ok := params["start_date"]; ok && raw != "" {
		t, err := time.Parse(dateParam, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date %q", ErrInvalidParameter, raw)
		}
		from = &t
	}
	if raw, ok := params["end_date"]; ok && raw != "" {
		t, err := time.Parse(dateParam, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date %q", ErrInvalidParameter, raw)
		}
		to = &t
	}

	totals, err := store.BillingTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	payload := report.Payload{
		"total_billed":  totals.TotalAmount.String(),
		"total_paid":    totals.TotalPaid.String(),
		"outstanding":   totals.TotalAmount.Sub(totals.TotalPaid).String(),
		"total_records": totals.TotalRecords,
	}
	if from != nil {
		payload["start_date"] = from.Format(dateParam)
	}
	if to != nil {
		payload["end_date"] = to.Format(dateParam)
	}
	return payload, nil
}

func prescriptionAnalysisStrategy(ctx context.Context, store Store, _ report.Params, _ time.Time) (report.Payload, error) {
	counts, err := store.MedicationCounts(ctx)
	if err != nil {
		return nil, err
	}

	medications := make([]map[string]any, 0, len(counts))
	var total, active int64
	for _, c := range counts {
		total += c.Total
		active += c.ActiveCount
		medications = append(medications, map[string]any{
			"medication":   c.Medication,
			"total":        c.Total,
			"active_count": c.ActiveCount,
		})
	}

	return report.Payload{
		"medications":          medications,
		"total_prescriptions":  total,
		"active_prescriptions": active,
	}, nil
}
