package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Frequency codes follow standard prescription shorthand.
type Frequency string

const (
	FrequencyOnceDaily   Frequency = "QD"
	FrequencyTwiceDaily  Frequency = "BID"
	FrequencyThreeDaily  Frequency = "TID"
	FrequencyFourDaily   Frequency = "QID"
	FrequencyAtBedtime   Frequency = "QHS"
	FrequencyAsNeeded    Frequency = "PRN"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeDaily,
		FrequencyFourDaily, FrequencyAtBedtime, FrequencyAsNeeded:
		return true
	}
	return false
}

type Prescription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID    uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	PrescriberID uuid.UUID `gorm:"column:prescriber_id;type:uuid;not null;index"`

	Medication string    `gorm:"column:medication;type:varchar(255);not null;index"`
	Dosage     string    `gorm:"column:dosage;type:varchar(100);not null"`
	Frequency  Frequency `gorm:"column:frequency;type:varchar(10);not null"`

	StartDate time.Time  `gorm:"column:start_date;not null"`
	EndDate   *time.Time `gorm:"column:end_date"`

	Refills      int    `gorm:"column:refills;default:0"`
	IsActive     bool   `gorm:"column:is_active;default:true;index"`
	Instructions string `gorm:"column:instructions;type:text"`
}

func (Prescription) TableName() string {
	return "ehr.prescriptions"
}

type CreatePrescriptionCommand struct {
	PatientID    uuid.UUID
	PrescriberID uuid.UUID
	Medication   string
	Dosage       string
	Frequency    Frequency
	StartDate    time.Time
	EndDate      *time.Time
	Refills      int
	Instructions string
}

type UpdatePrescriptionCommand struct {
	Medication   *string
	Dosage       *string
	Frequency    *Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	Refills      *int
	IsActive     *bool
	Instructions *string
}

type ListPrescriptionsQuery struct {
	PatientID    *uuid.UUID
	PrescriberID *uuid.UUID
	IsActive     *bool
	Search       string // matches medication name
	Page         int
	PageSize     int
}

type PagedPrescriptions struct {
	Prescriptions []*Prescription
	TotalCount    int64
	Page          int
	PageSize      int
	TotalPages    int
}
