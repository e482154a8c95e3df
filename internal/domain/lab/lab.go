package lab

import (
	"time"

	"github.com/google/uuid"
)

// Test status lifecycle:
//
//	PENDING → (result created) → COMPLETED → (result deleted) → PENDING
//
// COLLECTED, PROCESSING and CANCELLED are set manually and are not driven by
// automatic transitions. Attaching a result completes the test from any
// status; deleting the result always reverts it to PENDING.
type TestStatus string

const (
	StatusPending    TestStatus = "PENDING"
	StatusCollected  TestStatus = "COLLECTED"
	StatusProcessing TestStatus = "PROCESSING"
	StatusCompleted  TestStatus = "COMPLETED"
	StatusCancelled  TestStatus = "CANCELLED"
)

func (s TestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCollected, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type LabTest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID          uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	OrderingProviderID uuid.UUID `gorm:"column:ordering_provider_id;type:uuid;not null;index"`

	TestName string     `gorm:"column:test_name;type:varchar(255);not null"`
	TestDate time.Time  `gorm:"column:test_date;not null"`
	LabName  string     `gorm:"column:lab_name;type:varchar(255)"`
	Status   TestStatus `gorm:"column:status;type:varchar(50);not null;default:'PENDING';index"`
	Notes    string     `gorm:"column:notes;type:text"`
}

func (LabTest) TableName() string {
	return "ehr.lab_tests"
}

// AttachResult records the side effect of a result being filed: the test is
// complete no matter what status it was in.
func (t *LabTest) AttachResult() {
	t.Status = StatusCompleted
}

// DetachResult reverts the test to PENDING after its result is deleted,
// regardless of the intervening status.
func (t *LabTest) DetachResult() {
	t.Status = StatusPending
}

// LabResult is one-to-one with its parent test; a test has at most one result
// and the result is deleted with the test.
type LabResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	LabTestID uuid.UUID `gorm:"column:lab_test_id;type:uuid;not null;uniqueIndex"`

	ResultDate     time.Time `gorm:"column:result_date;not null"`
	ResultValue    string    `gorm:"column:result_value;type:varchar(100);not null"`
	ReferenceRange string    `gorm:"column:reference_range;type:varchar(100)"`
	Units          string    `gorm:"column:units;type:varchar(50)"`
	AbnormalFlag   bool      `gorm:"column:abnormal_flag;default:false"`
	Interpretation string    `gorm:"column:interpretation;type:text"`

	ReviewedBy   *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedDate *time.Time `gorm:"column:reviewed_date"`
}

func (LabResult) TableName() string {
	return "ehr.lab_results"
}

type CreateTestCommand struct {
	PatientID          uuid.UUID
	OrderingProviderID uuid.UUID
	TestName           string
	TestDate           time.Time
	LabName            string
	Notes              string
}

type UpdateTestCommand struct {
	TestName *string
	TestDate *time.Time
	LabName  *string
	Status   *TestStatus
	Notes    *string
}

type CreateResultCommand struct {
	LabTestID      uuid.UUID
	ResultDate     time.Time
	ResultValue    string
	ReferenceRange string
	Units          string
	AbnormalFlag   bool
	Interpretation string
	ReviewedBy     *uuid.UUID
}

type UpdateResultCommand struct {
	ResultDate     *time.Time
	ResultValue    *string
	ReferenceRange *string
	Units          *string
	AbnormalFlag   *bool
	Interpretation *string
}

type ListTestsQuery struct {
	PatientID          *uuid.UUID
	OrderingProviderID *uuid.UUID
	Status             *TestStatus
	Search             string // matches test name
	Page               int
	PageSize           int
}

type PagedTests struct {
	Tests      []*LabTest
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
