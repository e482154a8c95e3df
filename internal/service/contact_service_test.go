package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/domain/contact"
	"github.com/chartwell-health/chartwell/internal/notifier"
)

type fakeContactRepo struct {
	submissions []*contact.Submission
}

func (f *fakeContactRepo) Create(_ context.Context, s *contact.Submission) error {
	f.submissions = append(f.submissions, s)
	return nil
}

func (f *fakeContactRepo) List(_ context.Context, _ int) ([]*contact.Submission, error) {
	return f.submissions, nil
}

type failingNotifier struct{ err error }

func (n *failingNotifier) Notify(_ context.Context, _ notifier.Message) error {
	return n.err
}

func TestSubmitRequiresNameEmailAndMessage(t *testing.T) {
	svc := NewContactService(&fakeContactRepo{}, notifier.NewLogNotifier(zap.NewNop()), zap.NewNop())

	_, err := svc.Submit(context.Background(), &ContactCommand{Subject: "hello"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestSubmitNormalizesEmail(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, notifier.NewLogNotifier(zap.NewNop()), zap.NewNop())

	sub, err := svc.Submit(context.Background(), &ContactCommand{
		Name:    "  Dana Reyes ",
		Email:   " Dana.Reyes@Example.COM ",
		Message: "Is the portal down?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", sub.Name)
	assert.Equal(t, "dana.reyes@example.com", sub.Email)
	assert.Len(t, repo.submissions, 1)
}

func TestSubmitKeepsSubmissionWhenNotifierFails(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := NewContactService(repo, &failingNotifier{err: errors.New("relay unreachable")}, zap.NewNop())

	_, err := svc.Submit(context.Background(), &ContactCommand{
		Name:    "Dana Reyes",
		Email:   "dana@example.com",
		Message: "Is the portal down?",
	})
	assert.ErrorIs(t, err, ErrDependencyFailure)
	assert.Len(t, repo.submissions, 1)
}
