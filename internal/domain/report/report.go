package report

import (
	"time"

	"github.com/google/uuid"
)

type ReportType string

const (
	TypePatientList          ReportType = "PATIENT_LIST"
	TypeAppointmentStats     ReportType = "APPOINTMENT_STATS"
	TypeBillingSummary       ReportType = "BILLING_SUMMARY"
	TypePrescriptionAnalysis ReportType = "PRESCRIPTION_ANALYSIS"
	TypeCustom               ReportType = "CUSTOM"
)

func (t ReportType) IsValid() bool {
	switch t {
	case TypePatientList, TypeAppointmentStats, TypeBillingSummary, TypePrescriptionAnalysis, TypeCustom:
		return true
	}
	return false
}

// Report is a named template for a fixed aggregation strategy.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Title       string     `gorm:"column:title;type:varchar(255);not null;uniqueIndex"`
	Type        ReportType `gorm:"column:report_type;type:varchar(50);not null;index"`
	Description string     `gorm:"column:description;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Report) TableName() string {
	return "ehr.reports"
}

// Parameter declares the expected input shape for a report. Declarations are
// descriptive only; execution does not enforce them.
type Parameter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ReportID uuid.UUID `gorm:"column:report_id;type:uuid;not null;index"`

	Name         string `gorm:"column:name;type:varchar(100);not null"`
	DataType     string `gorm:"column:data_type;type:varchar(50);not null"`
	IsRequired   bool   `gorm:"column:is_required;default:true"`
	DefaultValue string `gorm:"column:default_value;type:varchar(255)"`
}

func (Parameter) TableName() string {
	return "ehr.report_parameters"
}

// Result is an immutable snapshot of one generation run: the exact parameter
// mapping used (including defaulted values), the computed payload, who
// generated it and when. Results are never mutated after creation and are
// deleted only with their report.
type Result struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GeneratedAt time.Time `gorm:"autoCreateTime;index"`

	ReportID uuid.UUID `gorm:"column:report_id;type:uuid;not null;index"`

	Parameters Params  `gorm:"column:parameters;serializer:json"`
	ResultData Payload `gorm:"column:result_data;serializer:json"`

	GeneratedBy uuid.UUID `gorm:"column:generated_by;type:uuid;not null"`
}

func (Result) TableName() string {
	return "ehr.report_results"
}

// Params is the parameter mapping supplied to a generation run.
type Params map[string]string

// Payload is the schema-free computed output of an aggregation strategy.
type Payload map[string]any

type CreateReportCommand struct {
	Title       string
	Type        ReportType
	Description string
	CreatedBy   uuid.UUID
}

type UpdateReportCommand struct {
	Title       *string
	Description *string
}

type ListReportsQuery struct {
	Type     *ReportType
	Search   string // matches title
	Page     int
	PageSize int
}

type PagedReports struct {
	Reports    []*Report
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
