package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartwell-health/chartwell/internal/config"
	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "chartwell-test",
	})
}

func tokenFor(t *testing.T, m *auth.JWTManager, role domain.Role) string {
	t.Helper()
	pair, err := m.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  "someone@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func authRouter(m *auth.JWTManager, level access.Level) *gin.Engine {
	r := gin.New()
	grp := r.Group("/protected", Authenticate(m))
	if level != access.Authenticated {
		grp.Use(RequireLevel(level))
	}
	grp.GET("", func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": string(actor.Role)})
	})
	return r
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	r := authRouter(testJWTManager(), access.Authenticated)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	r := authRouter(testJWTManager(), access.Authenticated)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	m := testJWTManager()
	other := auth.NewJWTManager(config.JWTConfig{
		Secret:          "a-different-secret-entirely-here!!!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "chartwell-test",
	})
	r := authRouter(m, access.Authenticated)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, other, domain.RoleAdmin))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateResolvesActor(t *testing.T) {
	m := testJWTManager()
	r := authRouter(m, access.Authenticated)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, domain.RoleDoctor))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DOCTOR")
}

func TestRequireLevelBlocksInsufficientRole(t *testing.T) {
	m := testJWTManager()
	r := authRouter(m, access.Admin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, domain.RoleStaff))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireLevelAdmitsSufficientRole(t *testing.T) {
	m := testJWTManager()
	r := authRouter(m, access.Doctor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, m, domain.RoleAdmin))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	id := w.Header().Get(requestIDHeader)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestIDHonoursUpstreamValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "upstream-id-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-id-42", w.Header().Get(requestIDHeader))
}
