package reportengine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

// ErrInvalidParameter marks a generation request whose parameter values could
// not be interpreted. Wrap it with the offending name and value.
var ErrInvalidParameter = errors.New("invalid report parameter")

// Store is the read surface the aggregation strategies run against. Each
// method maps to one aggregate query; none of them mutate.
type Store interface {
	// PatientsSnapshot returns up to limit demographic rows matching the
	// filter, together with the unclamped total matching count.
	PatientsSnapshot(ctx context.Context, f patient.SnapshotFilter, limit int) ([]*patient.Patient, int64, error)

	AppointmentStatsByStatus(ctx context.Context, from, to time.Time) ([]*scheduling.StatusStat, error)

	BillingTotals(ctx context.Context, from, to *time.Time) (*billing.Totals, error)

	MedicationCounts(ctx context.Context) ([]*prescription.MedicationCount, error)
}

// Strategy computes the payload for one report type.
type Strategy func(ctx context.Context, store Store, params report.Params, now time.Time) (report.Payload, error)

// Engine dispatches a generation request to the strategy registered for the
// report's type. Types with no strategy produce an error payload rather than
// a failed run, so the attempt is still recorded as a snapshot.
type Engine struct {
	store      Store
	strategies map[report.ReportType]Strategy
	now        func() time.Time
	logger     *zap.Logger
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
	e.strategies = map[report.ReportType]Strategy{
		report.TypePatientList:          patientListStrategy,
		report.TypeAppointmentStats:     appointmentStatsStrategy,
		report.TypeBillingSummary:       billingSummaryStrategy,
		report.TypePrescriptionAnalysis: prescriptionAnalysisStrategy,
	}
	return e
}

// Generate runs the strategy for typ with the supplied parameters. A nil
// error with an "error" key in the payload means the type is recognised but
// has no strategy; a non-nil error means the run itself failed and no
// snapshot should be stored.
func (e *Engine) Generate(ctx context.Context, typ report.ReportType, params report.Params) (report.Payload, error) {
	strategy, ok := e.strategies[typ]
	if !ok {
		e.logger.Warn("no aggregation strategy for report type", zap.String("report_type", string(typ)))
		return report.Payload{"error": "unsupported report type: " + string(typ)}, nil
	}
	if params == nil {
		params = report.Params{}
	}
	return strategy(ctx, e.store, params, e.now())
}
