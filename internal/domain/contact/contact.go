package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Submission is an inbound message from the public contact form. Rows are
// written once and only read back by administrators.
type Submission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceivedAt time.Time `gorm:"autoCreateTime;index"`

	Name    string `gorm:"column:name;type:varchar(100);not null"`
	Email   string `gorm:"column:email;type:varchar(255);not null"`
	Subject string `gorm:"column:subject;type:varchar(255)"`
	Message string `gorm:"column:message;type:text;not null"`
}

func (Submission) TableName() string {
	return "ehr.contact_submissions"
}

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	List(ctx context.Context, limit int) ([]*Submission, error)
}
