package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type AllergySeverity string

const (
	SeverityMild            AllergySeverity = "Mild"
	SeverityModerate        AllergySeverity = "Moderate"
	SeveritySevere          AllergySeverity = "Severe"
	SeverityLifeThreatening AllergySeverity = "Life-threatening"
)

func (s AllergySeverity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityLifeThreatening:
		return true
	}
	return false
}

// Patient is the demographic record. It owns every clinical row in the
// system: deleting a patient cascades to histories, allergies, immunizations,
// prescriptions, lab tests, imaging studies, treatment plans, appointments
// and insurance policies. Billing records survive an appointment delete with
// their appointment reference nulled.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// One-to-one link to the account that owns this record. A patient row is
	// meaningless without its user account and is deleted with it.
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Gender      Gender    `gorm:"column:gender;type:varchar(1);not null"`

	Address          string `gorm:"column:address;type:text"`
	PhoneNumber      string `gorm:"column:phone_number;type:varchar(20)"`
	EmergencyContact string `gorm:"column:emergency_contact;type:varchar(100)"`
	EmergencyPhone   string `gorm:"column:emergency_phone;type:varchar(20)"`
	BloodType        string `gorm:"column:blood_type;type:varchar(5)"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "ehr.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type MedicalHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Condition     string    `gorm:"column:condition;type:varchar(255);not null"`
	DiagnosisDate time.Time `gorm:"column:diagnosis_date;not null"`
	Severity      string    `gorm:"column:severity;type:varchar(100)"`
	IsChronic     bool      `gorm:"column:is_chronic;default:false"`
	Notes         string    `gorm:"column:notes;type:text"`
}

func (MedicalHistory) TableName() string {
	return "ehr.medical_histories"
}

type Allergy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Allergen  string          `gorm:"column:allergen;type:varchar(255);not null"`
	Reaction  string          `gorm:"column:reaction;type:text;not null"`
	Severity  AllergySeverity `gorm:"column:severity;type:varchar(20);not null"`
	OnsetDate time.Time       `gorm:"column:onset_date;not null"`
	IsActive  bool            `gorm:"column:is_active;default:true"`
	Notes     string          `gorm:"column:notes;type:text"`
}

func (Allergy) TableName() string {
	return "ehr.allergies"
}

type Immunization struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Vaccine            string     `gorm:"column:vaccine;type:varchar(255);not null"`
	AdministrationDate time.Time  `gorm:"column:administration_date;not null"`
	NextDoseDate       *time.Time `gorm:"column:next_dose_date"`
	// Nulled if the administering user account is removed.
	AdministeredBy *uuid.UUID `gorm:"column:administered_by;type:uuid"`
	LotNumber      string     `gorm:"column:lot_number;type:varchar(100)"`
	Notes          string     `gorm:"column:notes;type:text"`
}

func (Immunization) TableName() string {
	return "ehr.immunizations"
}

type CreatePatientCommand struct {
	UserID           uuid.UUID
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           Gender
	Address          string
	PhoneNumber      string
	EmergencyContact string
	EmergencyPhone   string
	BloodType        string
	CreatedBy        uuid.UUID
}

type UpdatePatientCommand struct {
	FirstName        *string
	LastName         *string
	DateOfBirth      *time.Time
	Gender           *Gender
	Address          *string
	PhoneNumber      *string
	EmergencyContact *string
	EmergencyPhone   *string
	BloodType        *string
	UpdatedBy        uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list views.
type ListPatientsQuery struct {
	Search   string // matches first name, last name or phone number
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

// SnapshotFilter narrows the demographic rows a report snapshot is built
// from. Both date of birth bounds are inclusive.
type SnapshotFilter struct {
	Gender         *Gender
	BornOnOrBefore *time.Time
	BornOnOrAfter  *time.Time
}

type CreateMedicalHistoryCommand struct {
	PatientID     uuid.UUID
	Condition     string
	DiagnosisDate time.Time
	Severity      string
	IsChronic     bool
	Notes         string
}

type UpdateMedicalHistoryCommand struct {
	Condition     *string
	DiagnosisDate *time.Time
	Severity      *string
	IsChronic     *bool
	Notes         *string
}

type CreateAllergyCommand struct {
	PatientID uuid.UUID
	Allergen  string
	Reaction  string
	Severity  AllergySeverity
	OnsetDate time.Time
	IsActive  bool
	Notes     string
}

type UpdateAllergyCommand struct {
	Allergen  *string
	Reaction  *string
	Severity  *AllergySeverity
	OnsetDate *time.Time
	IsActive  *bool
	Notes     *string
}

type CreateImmunizationCommand struct {
	PatientID          uuid.UUID
	Vaccine            string
	AdministrationDate time.Time
	NextDoseDate       *time.Time
	AdministeredBy     *uuid.UUID
	LotNumber          string
	Notes              string
}

type UpdateImmunizationCommand struct {
	Vaccine            *string
	AdministrationDate *time.Time
	NextDoseDate       *time.Time
	LotNumber          *string
	Notes              *string
}
