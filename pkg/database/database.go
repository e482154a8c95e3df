package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chartwell-health/chartwell/internal/config"
	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/careplan"
	"github.com/chartwell-health/chartwell/internal/domain/contact"
	"github.com/chartwell-health/chartwell/internal/domain/coordination"
	"github.com/chartwell-health/chartwell/internal/domain/imaging"
	"github.com/chartwell-health/chartwell/internal/domain/lab"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:          true,
		DisableAutomaticPing: false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"accounts", "ehr", "audit"}
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&patient.Patient{},
		&patient.MedicalHistory{},
		&patient.Allergy{},
		&patient.Immunization{},
		&prescription.Prescription{},
		&lab.LabTest{},
		&lab.LabResult{},
		&imaging.ImagingStudy{},
		&imaging.ImagingResult{},
		&scheduling.Appointment{},
		&scheduling.TelehealthSession{},
		&billing.BillingRecord{},
		&billing.InsurancePolicy{},
		&careplan.TreatmentPlan{},
		&careplan.ProgressNote{},
		&coordination.Alert{},
		&coordination.UserAlert{},
		&coordination.Task{},
		&report.Report{},
		&report.Parameter{},
		&report.Result{},
		&contact.Submission{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createConstraints(db); err != nil {
		return fmt.Errorf("creating constraints: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// createConstraints adds the foreign keys that carry the deletion semantics:
// deleting a patient removes every dependent clinical row, deleting a parent
// row with optional children nulls the reference instead. AutoMigrate does
// not manage these because the models deliberately avoid gorm associations.
func createConstraints(db *gorm.DB) error {
	type fk struct {
		name  string
		query string
	}

	addFK := func(name, table, column, refTable string, onDelete string) fk {
		return fk{
			name: name,
			query: fmt.Sprintf(
				`DO $$ BEGIN
					IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
						ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (id) ON DELETE %s;
					END IF;
				END $$`,
				name, table, name, column, refTable, onDelete,
			),
		}
	}

	constraints := []fk{
		addFK("fk_patients_user", "ehr.patients", "user_id", "accounts.users", "CASCADE"),

		addFK("fk_medical_histories_patient", "ehr.medical_histories", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_allergies_patient", "ehr.allergies", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_immunizations_patient", "ehr.immunizations", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_immunizations_administered_by", "ehr.immunizations", "administered_by", "accounts.users", "SET NULL"),

		addFK("fk_prescriptions_patient", "ehr.prescriptions", "patient_id", "ehr.patients", "CASCADE"),

		addFK("fk_lab_tests_patient", "ehr.lab_tests", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_lab_results_test", "ehr.lab_results", "lab_test_id", "ehr.lab_tests", "CASCADE"),

		addFK("fk_imaging_studies_patient", "ehr.imaging_studies", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_imaging_results_study", "ehr.imaging_results", "imaging_study_id", "ehr.imaging_studies", "CASCADE"),
		addFK("fk_imaging_results_radiologist", "ehr.imaging_results", "radiologist_id", "accounts.users", "SET NULL"),
		addFK("fk_imaging_results_reviewer", "ehr.imaging_results", "reviewed_by", "accounts.users", "SET NULL"),

		addFK("fk_appointments_patient", "ehr.appointments", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_telehealth_sessions_patient", "ehr.telehealth_sessions", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_telehealth_sessions_appointment", "ehr.telehealth_sessions", "appointment_id", "ehr.appointments", "SET NULL"),

		addFK("fk_billing_records_patient", "ehr.billing_records", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_billing_records_appointment", "ehr.billing_records", "appointment_id", "ehr.appointments", "SET NULL"),
		addFK("fk_insurance_policies_patient", "ehr.insurance_policies", "patient_id", "ehr.patients", "CASCADE"),

		addFK("fk_treatment_plans_patient", "ehr.treatment_plans", "patient_id", "ehr.patients", "CASCADE"),
		addFK("fk_progress_notes_plan", "ehr.progress_notes", "treatment_plan_id", "ehr.treatment_plans", "CASCADE"),

		addFK("fk_user_alerts_alert", "ehr.user_alerts", "alert_id", "ehr.alerts", "CASCADE"),
		addFK("fk_user_alerts_user", "ehr.user_alerts", "user_id", "accounts.users", "CASCADE"),

		addFK("fk_report_parameters_report", "ehr.report_parameters", "report_id", "ehr.reports", "CASCADE"),
		addFK("fk_report_results_report", "ehr.report_results", "report_id", "ehr.reports", "CASCADE"),
	}

	for _, c := range constraints {
		if err := db.Exec(c.query).Error; err != nil {
			return fmt.Errorf("adding constraint %s: %w", c.name, err)
		}
	}

	return nil
}
