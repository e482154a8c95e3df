package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrDependencyFailure covers collaborator outages (mail relay, etc).
	// Handlers map it to a generic upstream failure without detail.
	ErrDependencyFailure = errors.New("a downstream dependency failed")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      string
}
