package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/coordination"
)

type CoordinationRepository struct {
	db *gorm.DB
}

func NewCoordinationRepository(db *gorm.DB) *CoordinationRepository {
	return &CoordinationRepository{db: db}
}

func (r *CoordinationRepository) CreateAlert(ctx context.Context, a *coordination.Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *CoordinationRepository) GetAlert(ctx context.Context, id uuid.UUID) (*coordination.Alert, error) {
	var a coordination.Alert
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, coordination.ErrAlertNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *CoordinationRepository) UpdateAlert(ctx context.Context, id uuid.UUID, cmd *coordination.UpdateAlertCommand) (*coordination.Alert, error) {
	updates := map[string]any{}
	if cmd.Title != nil {
		updates["title"] = *cmd.Title
	}
	if cmd.Message != nil {
		updates["message"] = *cmd.Message
	}
	if cmd.Priority != nil {
		updates["priority"] = *cmd.Priority
	}
	if cmd.StartDate != nil {
		updates["start_date"] = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		updates["end_date"] = *cmd.EndDate
	}
	if cmd.IsActive != nil {
		updates["is_active"] = *cmd.IsActive
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&coordination.Alert{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, coordination.ErrAlertNotFound
		}
	}
	return r.GetAlert(ctx, id)
}

func (r *CoordinationRepository) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&coordination.Alert{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coordination.ErrAlertNotFound
	}
	return nil
}

func (r *CoordinationRepository) ListAlerts(ctx context.Context, q *coordination.ListAlertsQuery) (*coordination.PagedAlerts, error) {
	db := r.db.WithContext(ctx).Model(&coordination.Alert{})

	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if q.Priority != nil {
		db = db.Where("priority = ?", *q.Priority)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var alerts []*coordination.Alert
	if err := paginate(db, q.Page, q.PageSize).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}

	return &coordination.PagedAlerts{
		Alerts:     alerts,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *CoordinationRepository) GetUserAlert(ctx context.Context, alertID, userID uuid.UUID) (*coordination.UserAlert, error) {
	var ua coordination.UserAlert
	err := r.db.WithContext(ctx).
		Where("alert_id = ? AND user_id = ?", alertID, userID).
		First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, coordination.ErrUserAlertNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ua, nil
}

func (r *CoordinationRepository) SaveUserAlert(ctx context.Context, ua *coordination.UserAlert) error {
	return r.db.WithContext(ctx).Save(ua).Error
}

func (r *CoordinationRepository) ListUserAlerts(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*coordination.UserAlert, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("is_read = false")
	}

	var alerts []*coordination.UserAlert
	err := db.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *CoordinationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&coordination.UserAlert{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

func (r *CoordinationRepository) CreateTask(ctx context.Context, t *coordination.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *CoordinationRepository) GetTask(ctx context.Context, id uuid.UUID) (*coordination.Task, error) {
	var t coordination.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, coordination.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CoordinationRepository) UpdateTask(ctx context.Context, id uuid.UUID, cmd *coordination.UpdateTaskCommand) (*coordination.Task, error) {
	updates := map[string]any{}
	if cmd.Title != nil {
		updates["title"] = *cmd.Title
	}
	if cmd.Description != nil {
		updates["description"] = *cmd.Description
	}
	if cmd.AssignedTo != nil {
		updates["assigned_to"] = *cmd.AssignedTo
	}
	if cmd.DueDate != nil {
		updates["due_date"] = *cmd.DueDate
	}
	if cmd.Priority != nil {
		updates["priority"] = *cmd.Priority
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&coordination.Task{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, coordination.ErrTaskNotFound
		}
	}
	return r.GetTask(ctx, id)
}

func (r *CoordinationRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&coordination.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return coordination.ErrTaskNotFound
	}
	return nil
}

func (r *CoordinationRepository) ListTasks(ctx context.Context, q *coordination.ListTasksQuery) (*coordination.PagedTasks, error) {
	db := r.db.WithContext(ctx).Model(&coordination.Task{})

	if q.AssignedTo != nil {
		db = db.Where("assigned_to = ?", *q.AssignedTo)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Priority != nil {
		db = db.Where("priority = ?", *q.Priority)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var tasks []*coordination.Task
	if err := paginate(db, q.Page, q.PageSize).Order("due_date").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return &coordination.PagedTasks{
		Tasks:      tasks,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}
