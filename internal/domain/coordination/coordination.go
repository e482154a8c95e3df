package coordination

import (
	"time"

	"github.com/google/uuid"
)

type AlertPriority string

const (
	PriorityLow      AlertPriority = "Low"
	PriorityMedium   AlertPriority = "Medium"
	PriorityHigh     AlertPriority = "High"
	PriorityCritical AlertPriority = "Critical"
)

func (p AlertPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskCancelled  TaskStatus = "Cancelled"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Alert is broadcast content with a priority and an active window.
// Per-recipient read state lives in UserAlert.
type Alert struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Title    string        `gorm:"column:title;type:varchar(255);not null"`
	Message  string        `gorm:"column:message;type:text;not null"`
	Priority AlertPriority `gorm:"column:priority;type:varchar(20);not null;default:'Medium'"`

	StartDate time.Time  `gorm:"column:start_date;not null"`
	EndDate   *time.Time `gorm:"column:end_date"`
	IsActive  bool       `gorm:"column:is_active;default:true;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Alert) TableName() string {
	return "ehr.alerts"
}

// UserAlert records per-recipient read state, unique per (alert, user) pair.
type UserAlert struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	AlertID uuid.UUID `gorm:"column:alert_id;type:uuid;not null;uniqueIndex:ux_user_alerts_alert_user"`
	UserID  uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_user_alerts_alert_user"`

	IsRead bool       `gorm:"column:is_read;default:false;index"`
	ReadAt *time.Time `gorm:"column:read_at"`
}

func (UserAlert) TableName() string {
	return "ehr.user_alerts"
}

// MarkRead flips the read flag once; the original read timestamp is kept on
// repeated calls.
func (ua *UserAlert) MarkRead(at time.Time) {
	if ua.IsRead {
		return
	}
	ua.IsRead = true
	ua.ReadAt = &at
}

type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Title       string `gorm:"column:title;type:varchar(255);not null"`
	Description string `gorm:"column:description;type:text"`

	AssignedTo uuid.UUID `gorm:"column:assigned_to;type:uuid;not null;index"`
	CreatedBy  uuid.UUID `gorm:"column:created_by;type:uuid;not null"`

	DueDate  time.Time    `gorm:"column:due_date;not null;index"`
	Priority TaskPriority `gorm:"column:priority;type:varchar(20);not null;default:'Medium'"`
	Status   TaskStatus   `gorm:"column:status;type:varchar(20);not null;default:'Pending';index"`
}

func (Task) TableName() string {
	return "ehr.tasks"
}

type CreateAlertCommand struct {
	Title     string
	Message   string
	Priority  AlertPriority
	StartDate time.Time
	EndDate   *time.Time
	CreatedBy uuid.UUID
}

type UpdateAlertCommand struct {
	Title     *string
	Message   *string
	Priority  *AlertPriority
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

type CreateTaskCommand struct {
	Title       string
	Description string
	AssignedTo  uuid.UUID
	DueDate     time.Time
	Priority    TaskPriority
	CreatedBy   uuid.UUID
}

type UpdateTaskCommand struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
	Priority    *TaskPriority
	Status      *TaskStatus
}

type ListAlertsQuery struct {
	IsActive *bool
	Priority *AlertPriority
	Page     int
	PageSize int
}

type PagedAlerts struct {
	Alerts     []*Alert
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}

type ListTasksQuery struct {
	AssignedTo *uuid.UUID
	Status     *TaskStatus
	Priority   *TaskPriority
	Page       int
	PageSize   int
}

type PagedTasks struct {
	Tasks      []*Task
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
