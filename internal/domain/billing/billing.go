package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordStatus string

const (
	StatusPending  RecordStatus = "Pending"
	StatusPaid     RecordStatus = "Paid"
	StatusDenied   RecordStatus = "Denied"
	StatusAppealed RecordStatus = "Appealed"
)

func (s RecordStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusDenied, StatusAppealed:
		return true
	}
	return false
}

// BillingRecord holds monetary amounts as fixed-precision decimals; floats
// are never used for money.
type BillingRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	// Nulled when the referenced appointment is deleted; the billing record
	// itself survives.
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	ServiceDate        time.Time       `gorm:"column:service_date;not null;index"`
	ServiceDescription string          `gorm:"column:service_description;type:varchar(255);not null"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Status             RecordStatus    `gorm:"column:status;type:varchar(20);not null;default:'Pending';index"`

	InsuranceClaim bool   `gorm:"column:insurance_claim;default:false"`
	ClaimID        string `gorm:"column:claim_id;type:varchar(100)"`

	PaymentDate   *time.Time       `gorm:"column:payment_date"`
	PaymentAmount *decimal.Decimal `gorm:"column:payment_amount;type:decimal(10,2)"`

	Notes string `gorm:"column:notes;type:text"`
}

func (BillingRecord) TableName() string {
	return "ehr.billing_records"
}

type InsurancePolicy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	ProviderName          string `gorm:"column:provider_name;type:varchar(255);not null"`
	PolicyNumber          string `gorm:"column:policy_number;type:varchar(100);not null"`
	GroupNumber           string `gorm:"column:group_number;type:varchar(100)"`
	SubscriberName        string `gorm:"column:subscriber_name;type:varchar(255);not null"`
	RelationshipToPatient string `gorm:"column:relationship_to_patient;type:varchar(100);not null"`

	CoverageStartDate time.Time  `gorm:"column:coverage_start_date;not null"`
	CoverageEndDate   *time.Time `gorm:"column:coverage_end_date"`
	IsActive          bool       `gorm:"column:is_active;default:true"`
	Notes             string     `gorm:"column:notes;type:text"`
}

func (InsurancePolicy) TableName() string {
	return "ehr.insurance_policies"
}

type CreateRecordCommand struct {
	PatientID          uuid.UUID
	AppointmentID      *uuid.UUID
	ServiceDate        time.Time
	ServiceDescription string
	Amount             decimal.Decimal
	InsuranceClaim     bool
	ClaimID            string
	Notes              string
}

type UpdateRecordCommand struct {
	ServiceDate        *time.Time
	ServiceDescription *string
	Amount             *decimal.Decimal
	Status             *RecordStatus
	InsuranceClaim     *bool
	ClaimID            *string
	PaymentDate        *time.Time
	PaymentAmount      *decimal.Decimal
	Notes              *string
}

type CreatePolicyCommand struct {
	PatientID             uuid.UUID
	ProviderName          string
	PolicyNumber          string
	GroupNumber           string
	SubscriberName        string
	RelationshipToPatient string
	CoverageStartDate     time.Time
	CoverageEndDate       *time.Time
	Notes                 string
}

type UpdatePolicyCommand struct {
	ProviderName          *string
	PolicyNumber          *string
	GroupNumber           *string
	SubscriberName        *string
	RelationshipToPatient *string
	CoverageStartDate     *time.Time
	CoverageEndDate       *time.Time
	IsActive              *bool
	Notes                 *string
}

type ListRecordsQuery struct {
	PatientID *uuid.UUID
	Status    *RecordStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedRecords struct {
	Records    []*BillingRecord
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

type ListPoliciesQuery struct {
	PatientID *uuid.UUID
	IsActive  *bool
	Search    string // matches provider or subscriber name
	Page      int
	PageSize  int
}

type PagedPolicies struct {
	Policies   []*InsurancePolicy
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

// Totals is the billing summary aggregation over a filtered set. Sums over an
// empty set are zero, never null.
type Totals struct {
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalRecords int64           `json:"total_records"`
}
