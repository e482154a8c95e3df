package access

import (
	"errors"

	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain"
)

var (
	// ErrUnauthenticated means no valid acting identity was supplied.
	// Handlers surface it as a redirect-to-login, not a terminal failure.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrDenied means the identity lacks the required capability level
	// or ownership of the target entity.
	ErrDenied = errors.New("forbidden: insufficient permissions")
)

// Level is the minimum role requirement an operation declares.
// Each level is a strict superset check against role membership.
type Level int

const (
	// Authenticated admits any logged-in identity.
	Authenticated Level = iota
	// Staff admits ADMIN, DOCTOR, NURSE and STAFF.
	Staff
	// Doctor admits ADMIN and DOCTOR.
	Doctor
	// Admin admits ADMIN only.
	Admin
)

func (l Level) String() string {
	switch l {
	case Authenticated:
		return "authenticated"
	case Staff:
		return "staff"
	case Doctor:
		return "doctor"
	case Admin:
		return "admin"
	}
	return "unknown"
}

var membership = map[Level][]domain.Role{
	Staff:  {domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RoleStaff},
	Doctor: {domain.RoleAdmin, domain.RoleDoctor},
	Admin:  {domain.RoleAdmin},
}

// Actor is the authenticated identity performing an operation, resolved once
// per request by the auth middleware and passed through to every service call.
type Actor struct {
	UserID    uuid.UUID
	Role      domain.Role
	PatientID *uuid.UUID
}

// Can reports whether the actor's role satisfies the given capability level.
func (a Actor) Can(l Level) bool {
	if l == Authenticated {
		return a.Role.IsValid()
	}
	for _, r := range membership[l] {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Require returns ErrDenied unless the actor satisfies the level.
func (a Actor) Require(l Level) error {
	if !a.Can(l) {
		return ErrDenied
	}
	return nil
}

// IsAdmin reports whether the actor holds the Administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// ScopeOwner narrows a collection query's owner filter to the actor.
// Administrators are never narrowed; every other role only sees rows where
// the owning field (provider, prescriber, ordering provider, assignee) equals
// their own identity. The caller's requested filter is discarded for
// non-admins so an actor cannot widen the scope by supplying someone else's id.
func (a Actor) ScopeOwner(requested *uuid.UUID) *uuid.UUID {
	if a.IsAdmin() {
		return requested
	}
	id := a.UserID
	return &id
}

// OwnsOrCan reports whether the actor is the owner of the row or holds the
// given fallback level. Used for single-row mutations such as a task status
// update, where the assignee may act on their own row regardless of role.
func (a Actor) OwnsOrCan(owner uuid.UUID, fallback Level) bool {
	return a.UserID == owner || a.Can(fallback)
}
