package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/domain/access"
	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/domain/careplan"
	"github.com/chartwell-health/chartwell/internal/domain/coordination"
	"github.com/chartwell-health/chartwell/internal/domain/imaging"
	"github.com/chartwell-health/chartwell/internal/domain/lab"
	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
	"github.com/chartwell-health/chartwell/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, patient.ErrHistoryNotFound),
		errors.Is(err, patient.ErrAllergyNotFound),
		errors.Is(err, patient.ErrImmunizationNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, lab.ErrTestNotFound),
		errors.Is(err, lab.ErrResultNotFound),
		errors.Is(err, imaging.ErrStudyNotFound),
		errors.Is(err, imaging.ErrResultNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound),
		errors.Is(err, scheduling.ErrSessionNotFound),
		errors.Is(err, billing.ErrRecordNotFound),
		errors.Is(err, billing.ErrPolicyNotFound),
		errors.Is(err, careplan.ErrPlanNotFound),
		errors.Is(err, careplan.ErrNoteNotFound),
		errors.Is(err, coordination.ErrAlertNotFound),
		errors.Is(err, coordination.ErrUserAlertNotFound),
		errors.Is(err, coordination.ErrTaskNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, report.ErrParameterNotFound),
		errors.Is(err, report.ErrResultNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, lab.ErrResultAlreadyExists),
		errors.Is(err, imaging.ErrResultAlreadyExists),
		errors.Is(err, report.ErrReportTitleTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, patient.ErrInvalidSeverity),
		errors.Is(err, patient.ErrInvalidDateOfBirth),
		errors.Is(err, lab.ErrInvalidStatus),
		errors.Is(err, imaging.ErrInvalidStatus),
		errors.Is(err, imaging.ErrStudyNotEditable),
		errors.Is(err, scheduling.ErrScheduledInPast),
		errors.Is(err, scheduling.ErrSessionInPast),
		errors.Is(err, scheduling.ErrInvalidStatus),
		errors.Is(err, scheduling.ErrInvalidDuration),
		errors.Is(err, billing.ErrInvalidStatus),
		errors.Is(err, billing.ErrNegativeAmount),
		errors.Is(err, billing.ErrCoverageEndFirst),
		errors.Is(err, careplan.ErrEndBeforeStart),
		errors.Is(err, coordination.ErrDueDateInPast),
		errors.Is(err, coordination.ErrEndBeforeStart),
		errors.Is(err, coordination.ErrInvalidPriority),
		errors.Is(err, coordination.ErrInvalidStatus),
		errors.Is(err, report.ErrInvalidReportType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, access.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})

	case errors.Is(err, access.ErrDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	case errors.Is(err, service.ErrDependencyFailure):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "a downstream service is unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func queryUUID(c *gin.Context, key string) *uuid.UUID {
	if raw := c.Query(key); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return &id
		}
	}
	return nil
}

func queryBool(c *gin.Context, key string) *bool {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return &v
		}
	}
	return nil
}

func queryTime(c *gin.Context, key string) *time.Time {
	if raw := c.Query(key); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return &t
		}
	}
	return nil
}
