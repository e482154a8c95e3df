package v1

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/lab"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
	"github.com/chartwell-health/chartwell/internal/service"
)

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"patient not found", patient.ErrPatientNotFound, http.StatusNotFound},
		{"lab test not found", lab.ErrTestNotFound, http.StatusNotFound},
		{"report not found", report.ErrReportNotFound, http.StatusNotFound},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"duplicate result", lab.ErrResultAlreadyExists, http.StatusConflict},
		{"title taken", report.ErrReportTitleTaken, http.StatusConflict},
		{"scheduled in past", scheduling.ErrScheduledInPast, http.StatusBadRequest},
		{"invalid gender", patient.ErrInvalidGender, http.StatusBadRequest},
		{"unauthenticated", access.ErrUnauthenticated, http.StatusUnauthorized},
		{"denied", access.ErrDenied, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked account", service.ErrAccountLocked, http.StatusTooManyRequests},
		{"notifier down", service.ErrDependencyFailure, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tc.err)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRespondServiceErrorValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &service.ValidationError{Fields: []string{"name is required", "email is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
	assert.Contains(t, w.Body.String(), "email is required")
}

func TestRespondServiceErrorWrappedErrorStillMaps(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, errors.Join(errors.New("loading row"), scheduling.ErrAppointmentNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
