package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/contact"
	"github.com/chartwell-health/chartwell/internal/notifier"
)

// ContactService handles the public intake form. It is the one unauthenticated
// write path in the system, so it validates strictly and reveals nothing about
// downstream failures.
type ContactService struct {
	repo     contact.Repository
	notifier notifier.Notifier
	log      *zap.Logger
}

func NewContactService(repo contact.Repository, n notifier.Notifier, log *zap.Logger) *ContactService {
	return &ContactService{repo: repo, notifier: n, log: log}
}

type ContactCommand struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Submit stores the submission and then notifies the intake channel. The
// submission is kept even when notification fails; the caller sees only a
// generic dependency failure in that case.
func (s *ContactService) Submit(ctx context.Context, cmd *ContactCommand) (*contact.Submission, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(cmd.Message) == "" {
		errs = append(errs, "message is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	sub := &contact.Submission{
		Name:    strings.TrimSpace(cmd.Name),
		Email:   strings.ToLower(strings.TrimSpace(cmd.Email)),
		Subject: strings.TrimSpace(cmd.Subject),
		Message: cmd.Message,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		s.log.Error("failed to store contact submission", zap.Error(err))
		return nil, fmt.Errorf("storing submission: %w", err)
	}

	msg := notifier.Message{
		From:    sub.Email,
		Subject: sub.Subject,
		Body:    sub.Message,
	}
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Error("contact notification failed",
			zap.String("submission_id", sub.ID.String()),
			zap.Error(err),
		)
		return nil, ErrDependencyFailure
	}

	return sub, nil
}

// Recent returns the latest submissions for administrative review.
func (s *ContactService) Recent(ctx context.Context, actor access.Actor, limit int) ([]*contact.Submission, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}
