package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/chartwell-health/chartwell/internal/domain/contact"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, s *contact.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ContactRepository) List(ctx context.Context, limit int) ([]*contact.Submission, error) {
	var subs []*contact.Submission
	err := r.db.WithContext(ctx).
		Order("received_at DESC").
		Limit(limit).
		Find(&subs).Error
	return subs, err
}
