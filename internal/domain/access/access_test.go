package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/chartwell-health/chartwell/internal/domain"
)

func TestCapabilityMatrix(t *testing.T) {
	tests := []struct {
		role  domain.Role
		level Level
		want  bool
	}{
		{domain.RoleAdmin, Authenticated, true},
		{domain.RoleAdmin, Staff, true},
		{domain.RoleAdmin, Doctor, true},
		{domain.RoleAdmin, Admin, true},

		{domain.RoleDoctor, Authenticated, true},
		{domain.RoleDoctor, Staff, true},
		{domain.RoleDoctor, Doctor, true},
		{domain.RoleDoctor, Admin, false},

		{domain.RoleNurse, Authenticated, true},
		{domain.RoleNurse, Staff, true},
		{domain.RoleNurse, Doctor, false},
		{domain.RoleNurse, Admin, false},

		{domain.RoleStaff, Authenticated, true},
		{domain.RoleStaff, Staff, true},
		{domain.RoleStaff, Doctor, false},
		{domain.RoleStaff, Admin, false},

		{domain.RolePatient, Authenticated, true},
		{domain.RolePatient, Staff, false},
		{domain.RolePatient, Doctor, false},
		{domain.RolePatient, Admin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.level.String(), func(t *testing.T) {
			a := Actor{UserID: uuid.New(), Role: tt.role}
			assert.Equal(t, tt.want, a.Can(tt.level))
			if tt.want {
				assert.NoError(t, a.Require(tt.level))
			} else {
				assert.ErrorIs(t, a.Require(tt.level), ErrDenied)
			}
		})
	}
}

func TestUnknownRoleFailsEveryLevel(t *testing.T) {
	a := Actor{UserID: uuid.New(), Role: domain.Role("INTRUDER")}
	for _, l := range []Level{Authenticated, Staff, Doctor, Admin} {
		assert.False(t, a.Can(l), l.String())
	}
}

func TestScopeOwnerNarrowsNonAdmins(t *testing.T) {
	other := uuid.New()

	doctor := Actor{UserID: uuid.New(), Role: domain.RoleDoctor}
	got := doctor.ScopeOwner(&other)
	assert.Equal(t, doctor.UserID, *got, "a non-admin's requested filter must be replaced with their own id")

	got = doctor.ScopeOwner(nil)
	assert.Equal(t, doctor.UserID, *got)

	admin := Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
	assert.Equal(t, &other, admin.ScopeOwner(&other))
	assert.Nil(t, admin.ScopeOwner(nil))
}

func TestOwnsOrCan(t *testing.T) {
	owner := uuid.New()

	assignee := Actor{UserID: owner, Role: domain.RolePatient}
	assert.True(t, assignee.OwnsOrCan(owner, Staff), "the owner passes regardless of role")

	nurse := Actor{UserID: uuid.New(), Role: domain.RoleNurse}
	assert.True(t, nurse.OwnsOrCan(owner, Staff), "staff capability passes without ownership")

	stranger := Actor{UserID: uuid.New(), Role: domain.RolePatient}
	assert.False(t, stranger.OwnsOrCan(owner, Staff))
}
