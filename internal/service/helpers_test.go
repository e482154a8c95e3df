package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
)

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func newTestAudit() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, nil, zap.NewNop(), 64, time.Second)
}

func adminActor() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func doctorActor() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: domain.RoleDoctor}
}

func nurseActor() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: domain.RoleNurse}
}

func staffActor() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: domain.RoleStaff}
}

func patientActor() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: domain.RolePatient}
}
