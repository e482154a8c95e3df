package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentNoShow    AppointmentStatus = "No-Show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionScheduled  SessionStatus = "Scheduled"
	SessionInProgress SessionStatus = "In Progress"
	SessionCompleted  SessionStatus = "Completed"
	SessionCancelled  SessionStatus = "Cancelled"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionScheduled, SessionInProgress, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index"`

	DateTime     time.Time         `gorm:"column:date_time;not null;index"`
	DurationMins int               `gorm:"column:duration_mins;not null"`
	Reason       string            `gorm:"column:reason;type:text;not null"`
	Status       AppointmentStatus `gorm:"column:status;type:varchar(20);not null;default:'Scheduled';index"`
	Notes        string            `gorm:"column:notes;type:text"`
}

func (Appointment) TableName() string {
	return "ehr.appointments"
}

func (a *Appointment) EndsAt() time.Time {
	return a.DateTime.Add(time.Duration(a.DurationMins) * time.Minute)
}

// TelehealthSession optionally references an appointment; the reference is
// nulled when the appointment is deleted.
type TelehealthSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID     uuid.UUID  `gorm:"column:patient_id;type:uuid;not null;index"`
	ProviderID    uuid.UUID  `gorm:"column:provider_id;type:uuid;not null;index"`
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	SessionDate  time.Time     `gorm:"column:session_date;not null;index"`
	DurationMins int           `gorm:"column:duration_mins;not null"`
	Status       SessionStatus `gorm:"column:status;type:varchar(20);not null;default:'Scheduled';index"`
	JoinURL      string        `gorm:"column:join_url;type:varchar(500)"`
	RecordingURL string        `gorm:"column:recording_url;type:varchar(500)"`
	Notes        string        `gorm:"column:notes;type:text"`
}

func (TelehealthSession) TableName() string {
	return "ehr.telehealth_sessions"
}

type CreateAppointmentCommand struct {
	PatientID    uuid.UUID
	ProviderID   uuid.UUID
	DateTime     time.Time
	DurationMins int
	Reason       string
	Notes        string
}

type UpdateAppointmentCommand struct {
	DateTime     *time.Time
	DurationMins *int
	Reason       *string
	Status       *AppointmentStatus
	Notes        *string
}

type CreateSessionCommand struct {
	PatientID     uuid.UUID
	ProviderID    uuid.UUID
	AppointmentID *uuid.UUID
	SessionDate   time.Time
	DurationMins  int
	JoinURL       string
	Notes         string
}

type UpdateSessionCommand struct {
	SessionDate  *time.Time
	DurationMins *int
	Status       *SessionStatus
	JoinURL      *string
	RecordingURL *string
	Notes        *string
}

type ListAppointmentsQuery struct {
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	Status     *AppointmentStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}

type ListSessionsQuery struct {
	PatientID  *uuid.UUID
	ProviderID *uuid.UUID
	Status     *SessionStatus
	Page       int
	PageSize   int
}

type PagedSessions struct {
	Sessions   []*TelehealthSession
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

// StatusStat is one row of the appointment statistics aggregation: the row
// count and average duration for a status within a date window.
type StatusStat struct {
	Status      AppointmentStatus `json:"status"`
	Count       int64             `json:"count"`
	DurationAvg float64           `json:"duration_avg"`
}
