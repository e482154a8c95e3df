package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chartwell-health/chartwell/internal/config"
	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
)

// UserService is the administrator-facing side of account management.
// All operations require the Admin capability level.
type UserService struct {
	repo     UserRepository
	cfg      config.AuthConfig
	auditSvc *AuditService
	log      *zap.Logger
}

func NewUserService(repo UserRepository, cfg config.AuthConfig, auditSvc *AuditService, log *zap.Logger) *UserService {
	return &UserService{repo: repo, cfg: cfg, auditSvc: auditSvc, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, actor access.Actor, cmd *domain.CreateUserCommand, ip string) (*domain.User, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}

	var errs []string
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if len(cmd.Password) < s.cfg.MinPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", s.cfg.MinPasswordLength))
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:          email,
		PasswordHash:   string(hash),
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		Role:           cmd.Role,
		Status:         domain.UserStatusActive,
		PhoneNumber:    strings.TrimSpace(cmd.PhoneNumber),
		LicenseNumber:  strings.TrimSpace(cmd.LicenseNumber),
		Specialization: strings.TrimSpace(cmd.Specialization),
		Department:     strings.TrimSpace(cmd.Department),
		IsVerified:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(domain.ActionCreate),
		ResourceType: "user",
		ResourceID:   u.ID.String(),
		IPAddress:    ip,
	})

	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, actor access.Actor, id uuid.UUID) (*domain.User, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, actor access.Actor, id uuid.UUID, cmd *domain.UpdateUserCommand, ip string) (*domain.User, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}

	var errs []string
	if cmd.Role != nil && !cmd.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	if cmd.Status != nil && !cmd.Status.IsValid() {
		errs = append(errs, "status is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	u, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(domain.ActionUpdate),
		ResourceType: "user",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor access.Actor, id uuid.UUID, ip string) error {
	if err := actor.Require(access.Admin); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       actor.UserID,
		UserRole:     string(actor.Role),
		Action:       string(domain.ActionDelete),
		ResourceType: "user",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *UserService) ListUsers(ctx context.Context, actor access.Actor, q *domain.ListUsersQuery) (*domain.PagedUsers, error) {
	if err := actor.Require(access.Admin); err != nil {
		return nil, err
	}
	normalizePage(&q.Page, &q.PageSize)
	return s.repo.List(ctx, q)
}

// normalizePage clamps pagination inputs to sane bounds.
func normalizePage(page, pageSize *int) {
	if *pageSize <= 0 || *pageSize > 100 {
		*pageSize = 20
	}
	if *page <= 0 {
		*page = 1
	}
}
