package coordination

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateAlert(ctx context.Context, a *Alert) error
	GetAlert(ctx context.Context, id uuid.UUID) (*Alert, error)
	UpdateAlert(ctx context.Context, id uuid.UUID, cmd *UpdateAlertCommand) (*Alert, error)
	// DeleteAlert removes the alert and its per-user read rows.
	DeleteAlert(ctx context.Context, id uuid.UUID) error
	ListAlerts(ctx context.Context, q *ListAlertsQuery) (*PagedAlerts, error)

	// GetUserAlert returns the read-state row for one recipient.
	GetUserAlert(ctx context.Context, alertID, userID uuid.UUID) (*UserAlert, error)
	SaveUserAlert(ctx context.Context, ua *UserAlert) error
	ListUserAlerts(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*UserAlert, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, cmd *UpdateTaskCommand) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListTasks(ctx context.Context, q *ListTasksQuery) (*PagedTasks, error)
}
