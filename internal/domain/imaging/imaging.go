package imaging

import (
	"time"

	"github.com/google/uuid"
)

type StudyStatus string

const (
	StatusPending   StudyStatus = "Pending"
	StatusCompleted StudyStatus = "Completed"
	StatusCancelled StudyStatus = "Cancelled"
)

func (s StudyStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type ImagingStudy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID          uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	OrderingProviderID uuid.UUID `gorm:"column:ordering_provider_id;type:uuid;not null;index"`

	StudyType string      `gorm:"column:study_type;type:varchar(255);not null"`
	StudyDate time.Time   `gorm:"column:study_date;not null"`
	Facility  string      `gorm:"column:facility;type:varchar(255)"`
	Status    StudyStatus `gorm:"column:status;type:varchar(50);not null;default:'Pending';index"`
	Notes     string      `gorm:"column:notes;type:text"`
}

func (ImagingStudy) TableName() string {
	return "ehr.imaging_studies"
}

// Editable reports whether the study can still be modified: completed studies
// are frozen. The caller supplies whether the actor holds doctor-level
// privilege; both conditions must hold.
func (s *ImagingStudy) Editable(doctorLevel bool) bool {
	return doctorLevel && s.Status != StatusCompleted
}

// ImagingResult is one-to-one with its parent study.
type ImagingResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ImagingStudyID uuid.UUID `gorm:"column:imaging_study_id;type:uuid;not null;uniqueIndex"`

	ResultDate time.Time `gorm:"column:result_date;not null"`
	Findings   string    `gorm:"column:findings;type:text;not null"`
	Impression string    `gorm:"column:impression;type:text;not null"`

	RadiologistID *uuid.UUID `gorm:"column:radiologist_id;type:uuid"`
	ReviewedBy    *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedDate  *time.Time `gorm:"column:reviewed_date"`
}

func (ImagingResult) TableName() string {
	return "ehr.imaging_results"
}

type CreateStudyCommand struct {
	PatientID          uuid.UUID
	OrderingProviderID uuid.UUID
	StudyType          string
	StudyDate          time.Time
	Facility           string
	Notes              string
}

type UpdateStudyCommand struct {
	StudyType *string
	StudyDate *time.Time
	Facility  *string
	Status    *StudyStatus
	Notes     *string
}

type CreateResultCommand struct {
	ImagingStudyID uuid.UUID
	ResultDate     time.Time
	Findings       string
	Impression     string
	RadiologistID  *uuid.UUID
	ReviewedBy     *uuid.UUID
}

type UpdateResultCommand struct {
	ResultDate *time.Time
	Findings   *string
	Impression *string
}

type ListStudiesQuery struct {
	PatientID          *uuid.UUID
	OrderingProviderID *uuid.UUID
	Status             *StudyStatus
	Search             string // matches study type
	Page               int
	PageSize           int
}

type PagedStudies struct {
	Studies    []*ImagingStudy
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
