package careplan

import (
	"time"

	"github.com/google/uuid"
)

type TreatmentPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index"`

	Diagnosis string     `gorm:"column:diagnosis;type:varchar(255);not null"`
	StartDate time.Time  `gorm:"column:start_date;not null"`
	EndDate   *time.Time `gorm:"column:end_date"`
	Goals     string     `gorm:"column:goals;type:text;not null"`
	IsActive  bool       `gorm:"column:is_active;default:true;index"`
}

func (TreatmentPlan) TableName() string {
	return "ehr.treatment_plans"
}

// ProgressNote is a dated SOAP entry under a treatment plan; notes are
// deleted with their plan.
type ProgressNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	TreatmentPlanID uuid.UUID `gorm:"column:treatment_plan_id;type:uuid;not null;index"`
	AuthorID        uuid.UUID `gorm:"column:author_id;type:uuid;not null;index"`

	NoteDate   time.Time `gorm:"column:note_date;not null"`
	Subjective string    `gorm:"column:subjective;type:text"`
	Objective  string    `gorm:"column:objective;type:text"`
	Assessment string    `gorm:"column:assessment;type:text"`
	Plan       string    `gorm:"column:plan;type:text"`
}

func (ProgressNote) TableName() string {
	return "ehr.progress_notes"
}

type CreatePlanCommand struct {
	PatientID  uuid.UUID
	ProviderID uuid.UUID
	Diagnosis  string
	StartDate  time.Time
	EndDate    *time.Time
	Goals      string
}

type UpdatePlanCommand struct {
	Diagnosis *string
	StartDate *time.Time
	EndDate   *time.Time
	Goals     *string
	IsActive  *bool
}

type CreateNoteCommand struct {
	TreatmentPlanID uuid.UUID
	AuthorID        uuid.UUID
	NoteDate        time.Time
	Subjective      string
	Objective       string
	Assessment      string
	Plan            string
}

type UpdateNoteCommand struct {
	NoteDate   *time.Time
	Subjective *string
	Objective  *string
	Assessment *string
	Plan       *string
}

type ListPlansQuery struct {
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	IsActive   *bool
	Search     string // matches diagnosis
	Page       int
	PageSize   int
}

type PagedPlans struct {
	Plans      []*TreatmentPlan
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
