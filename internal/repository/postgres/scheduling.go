package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
)

type SchedulingRepository struct {
	db *gorm.DB
}

func NewSchedulingRepository(db *gorm.DB) *SchedulingRepository {
	return &SchedulingRepository{db: db}
}

func (r *SchedulingRepository) CreateAppointment(ctx context.Context, a *scheduling.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *SchedulingRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var a scheduling.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduling.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SchedulingRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, cmd *scheduling.UpdateAppointmentCommand) (*scheduling.Appointment, error) {
	updates := map[string]any{}
	if cmd.DateTime != nil {
		updates["date_time"] = *cmd.DateTime
	}
	if cmd.DurationMins != nil {
		updates["duration_mins"] = *cmd.DurationMins
	}
	if cmd.Reason != nil {
		updates["reason"] = *cmd.Reason
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&scheduling.Appointment{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, scheduling.ErrAppointmentNotFound
		}
	}
	return r.GetAppointment(ctx, id)
}

func (r *SchedulingRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&scheduling.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return scheduling.ErrAppointmentNotFound
	}
	return nil
}

func (r *SchedulingRepository) ListAppointments(ctx context.Context, q *scheduling.ListAppointmentsQuery) (*scheduling.PagedAppointments, error) {
	db := r.db.WithContext(ctx).Model(&scheduling.Appointment{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.ProviderID != nil {
		db = db.Where("provider_id = ?", *q.ProviderID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		db = db.Where("date_time >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("date_time < ?", *q.DateTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var appointments []*scheduling.Appointment
	if err := paginate(db, q.Page, q.PageSize).Order("date_time").Find(&appointments).Error; err != nil {
		return nil, err
	}

	return &scheduling.PagedAppointments{
		Appointments: appointments,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages(total, q.PageSize),
	}, nil
}

func (r *SchedulingRepository) CreateSession(ctx context.Context, s *scheduling.TelehealthSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SchedulingRepository) GetSession(ctx context.Context, id uuid.UUID) (*scheduling.TelehealthSession, error) {
	var s scheduling.TelehealthSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scheduling.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SchedulingRepository) UpdateSession(ctx context.Context, id uuid.UUID, cmd *scheduling.UpdateSessionCommand) (*scheduling.TelehealthSession, error) {
	updates := map[string]any{}
	if cmd.SessionDate != nil {
		updates["session_date"] = *cmd.SessionDate
	}
	if cmd.DurationMins != nil {
		updates["duration_mins"] = *cmd.DurationMins
	}
	if cmd.Status != nil {
		updates["status"] = *cmd.Status
	}
	if cmd.JoinURL != nil {
		updates["join_url"] = *cmd.JoinURL
	}
	if cmd.RecordingURL != nil {
		updates["recording_url"] = *cmd.RecordingURL
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&scheduling.TelehealthSession{}).
			Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, scheduling.ErrSessionNotFound
		}
	}
	return r.GetSession(ctx, id)
}

func (r *SchedulingRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&scheduling.TelehealthSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return scheduling.ErrSessionNotFound
	}
	return nil
}

func (r *SchedulingRepository) ListSessions(ctx context.Context, q *scheduling.ListSessionsQuery) (*scheduling.PagedSessions, error) {
	db := r.db.WithContext(ctx).Model(&scheduling.TelehealthSession{})

	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.ProviderID != nil {
		db = db.Where("provider_id = ?", *q.ProviderID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	var sessions []*scheduling.TelehealthSession
	if err := paginate(db, q.Page, q.PageSize).Order("session_date").Find(&sessions).Error; err != nil {
		return nil, err
	}

	return &scheduling.PagedSessions{
		Sessions:   sessions,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *SchedulingRepository) StatsByStatus(ctx context.Context, from, to time.Time) ([]*scheduling.StatusStat, error) {
	var stats []*scheduling.StatusStat
	err := r.db.WithContext(ctx).Model(&scheduling.Appointment{}).
		Select("status, COUNT(*) AS count, COALESCE(AVG(duration_mins), 0) AS duration_avg").
		Where("date_time >= ? AND date_time <= ?", from, to).
		Group("status").
		Order("count DESC").
		Scan(&stats).Error
	return stats, err
}
