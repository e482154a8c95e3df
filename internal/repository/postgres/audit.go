package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain"
)

// AuditRepository is append-only; audit rows are never updated or deleted
// through the application.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
