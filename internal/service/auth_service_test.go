package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chartwell-health/chartwell/internal/config"
	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/pkg/auth"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User

	lastAttemptSuccess *bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = uuid.New()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id uuid.UUID, _ *domain.UpdateUserCommand) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ *domain.ListUsersQuery) (*domain.PagedUsers, error) {
	return &domain.PagedUsers{}, nil
}

func (f *fakeUserRepo) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool, maxFailed int, lockFor time.Duration) error {
	f.lastAttemptSuccess = &success
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if success {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
		return nil
	}
	u.FailedLoginCount++
	if u.FailedLoginCount >= maxFailed {
		until := time.Now().Add(lockFor)
		u.LockedUntil = &until
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		DefaultSignupRole: "STAFF",
		MaxFailedLogins:   3,
		LockoutDuration:   15 * time.Minute,
		MinPasswordLength: 12,
		BcryptCost:        bcrypt.MinCost,
	}
}

func newAuthService(repo UserRepository) *AuthService {
	jwtMgr := auth.NewJWTManager(config.JWTConfig{
		Secret:          "unit-test-secret-key-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "chartwell-test",
	})
	return NewAuthService(repo, jwtMgr, testAuthConfig(), newTestAudit(), nil, zap.NewNop())
}

func seedUser(repo *fakeUserRepo, email, password string, status domain.UserStatus) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Dana",
		LastName:     "Reyes",
		Role:         domain.RoleStaff,
		Status:       status,
	}
	repo.users[u.ID] = u
	return u
}

func TestRegisterGrantsConfiguredDefaultRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	u, err := svc.Register(context.Background(), &RegisterCommand{
		Email:     "New.Hire@Example.com",
		Password:  "correct horse battery",
		FirstName: "New",
		LastName:  "Hire",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)
	assert.Equal(t, "new.hire@example.com", u.Email)
	assert.Equal(t, domain.UserStatusActive, u.Status)
}

func TestRegisterFallsBackToStaffOnUnknownConfiguredRole(t *testing.T) {
	repo := newFakeUserRepo()
	jwtMgr := auth.NewJWTManager(config.JWTConfig{Secret: "unit-test-secret-key-0123456789", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	cfg := testAuthConfig()
	cfg.DefaultSignupRole = "SUPERUSER"
	svc := NewAuthService(repo, jwtMgr, cfg, newTestAudit(), nil, zap.NewNop())

	u, err := svc.Register(context.Background(), &RegisterCommand{
		Email:     "hire@example.com",
		Password:  "correct horse battery",
		FirstName: "New",
		LastName:  "Hire",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	_, err := svc.Register(context.Background(), &RegisterCommand{
		Email:     "DANA@example.com",
		Password:  "correct horse battery",
		FirstName: "Dana",
		LastName:  "Reyes",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), &RegisterCommand{
		Email:     "hire@example.com",
		Password:  "short",
		FirstName: "New",
		LastName:  "Hire",
	})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	u := seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	pair, got, err := svc.Login(context.Background(), "dana@example.com", "correct horse battery", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, repo.lastAttemptSuccess)
	assert.True(t, *repo.lastAttemptSuccess)
}

func TestLoginWrongPasswordIsIndistinguishableFromUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	_, _, err := svc.Login(context.Background(), "dana@example.com", "wrong password!!", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "wrong password!!", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(context.Background(), "dana@example.com", "wrong password!!", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := svc.Login(context.Background(), "dana@example.com", "correct horse battery", "")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusInactive)

	_, _, err := svc.Login(context.Background(), "dana@example.com", "correct horse battery", "")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshTokenRevalidatesUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	u := seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	pair, _, err := svc.Login(context.Background(), "dana@example.com", "correct horse battery", "")
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	u.Status = domain.UserStatusInactive
	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	u := seedUser(repo, "dana@example.com", "correct horse battery", domain.UserStatusActive)

	err := svc.ChangePassword(context.Background(), u.ID, "not the password", "a brand new passphrase")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), u.ID, "correct horse battery", "a brand new passphrase")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "dana@example.com", "a brand new passphrase", "")
	assert.NoError(t, err)
}
