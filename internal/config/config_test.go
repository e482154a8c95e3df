package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-not-for-production-use")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chartwell-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "STAFF", cfg.Auth.DefaultSignupRole)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 10_000, cfg.Audit.BufferSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-not-for-production-use")
	t.Setenv("AUTH_DEFAULT_SIGNUP_ROLE", "NURSE")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "NURSE", cfg.Auth.DefaultSignupRole)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoadRejectsUnknownSignupRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-not-for-production-use")
	t.Setenv("AUTH_DEFAULT_SIGNUP_ROLE", "ADMIN")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_DEFAULT_SIGNUP_ROLE")
}

func TestProductionValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_SSLMODE", "disable")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
	assert.Contains(t, err.Error(), "DB_SSLMODE=disable")
	assert.Contains(t, err.Error(), "DB_PASSWORD is required")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "chartwell", User: "svc", Password: "pw", SSLMode: "require"}
	assert.Equal(t, "host=db user=svc password=pw dbname=chartwell port=5432 sslmode=require TimeZone=UTC", d.DSN())
}
