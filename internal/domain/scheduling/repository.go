package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateAppointment(ctx context.Context, a *Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, cmd *UpdateAppointmentCommand) (*Appointment, error)
	// DeleteAppointment removes the appointment; telehealth sessions and
	// billing records that reference it keep their rows with the reference
	// nulled by FK constraint.
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	ListAppointments(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	CreateSession(ctx context.Context, s *TelehealthSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*TelehealthSession, error)
	UpdateSession(ctx context.Context, id uuid.UUID, cmd *UpdateSessionCommand) (*TelehealthSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ListSessions(ctx context.Context, q *ListSessionsQuery) (*PagedSessions, error)

	// StatsByStatus groups appointments inside [from, to] by status with a
	// row count and average duration per group. Feeds the appointment
	// statistics report.
	StatsByStatus(ctx context.Context, from, to time.Time) ([]*StatusStat, error)
}
