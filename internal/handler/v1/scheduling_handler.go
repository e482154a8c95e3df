package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/scheduling"
	"github.com/chartwell-health/chartwell/internal/service"
)

type SchedulingHandler struct {
	svc *service.SchedulingService
}

func NewSchedulingHandler(svc *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{svc: svc}
}

type createAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	ProviderID   uuid.UUID `json:"provider_id" binding:"required"`
	DateTime     time.Time `json:"date_time" binding:"required"`
	DurationMins int       `json:"duration_mins" binding:"required"`
	Reason       string    `json:"reason" binding:"required"`
	Notes        string    `json:"notes"`
}

func (h *SchedulingHandler) CreateAppointment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.svc.CreateAppointment(c.Request.Context(), actor, &scheduling.CreateAppointmentCommand{
		PatientID:    req.PatientID,
		ProviderID:   req.ProviderID,
		DateTime:     req.DateTime,
		DurationMins: req.DurationMins,
		Reason:       req.Reason,
		Notes:        req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, appt)
}

func (h *SchedulingHandler) GetAppointment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	appt, err := h.svc.GetAppointment(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appt)
}

type updateAppointmentRequest struct {
	DateTime     *time.Time `json:"date_time"`
	DurationMins *int       `json:"duration_mins"`
	Reason       *string    `json:"reason"`
	Status       *string    `json:"status"`
	Notes        *string    `json:"notes"`
}

func (h *SchedulingHandler) UpdateAppointment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &scheduling.UpdateAppointmentCommand{
		DateTime:     req.DateTime,
		DurationMins: req.DurationMins,
		Reason:       req.Reason,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		s := scheduling.AppointmentStatus(*req.Status)
		cmd.Status = &s
	}

	appt, err := h.svc.UpdateAppointment(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appt)
}

func (h *SchedulingHandler) DeleteAppointment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAppointment(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "appointment deleted"})
}

func (h *SchedulingHandler) ListAppointments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &scheduling.ListAppointmentsQuery{
		PatientID:  queryUUID(c, "patient_id"),
		ProviderID: queryUUID(c, "provider_id"),
		DateFrom:   queryTime(c, "date_from"),
		DateTo:     queryTime(c, "date_to"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := scheduling.AppointmentStatus(raw)
		q.Status = &s
	}

	page, err := h.svc.ListAppointments(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createSessionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	ProviderID    uuid.UUID  `json:"provider_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	SessionDate   time.Time  `json:"session_date" binding:"required"`
	DurationMins  int        `json:"duration_mins" binding:"required"`
	JoinURL       string     `json:"join_url"`
	Notes         string     `json:"notes"`
}

func (h *SchedulingHandler) CreateSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.svc.CreateSession(c.Request.Context(), actor, &scheduling.CreateSessionCommand{
		PatientID:     req.PatientID,
		ProviderID:    req.ProviderID,
		AppointmentID: req.AppointmentID,
		SessionDate:   req.SessionDate,
		DurationMins:  req.DurationMins,
		JoinURL:       req.JoinURL,
		Notes:         req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, sess)
}

func (h *SchedulingHandler) GetSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	sess, err := h.svc.GetSession(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sess)
}

type updateSessionRequest struct {
	SessionDate  *time.Time `json:"session_date"`
	DurationMins *int       `json:"duration_mins"`
	Status       *string    `json:"status"`
	JoinURL      *string    `json:"join_url"`
	RecordingURL *string    `json:"recording_url"`
	Notes        *string    `json:"notes"`
}

func (h *SchedulingHandler) UpdateSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &scheduling.UpdateSessionCommand{
		SessionDate:  req.SessionDate,
		DurationMins: req.DurationMins,
		JoinURL:      req.JoinURL,
		RecordingURL: req.RecordingURL,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		s := scheduling.SessionStatus(*req.Status)
		cmd.Status = &s
	}

	sess, err := h.svc.UpdateSession(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sess)
}

func (h *SchedulingHandler) DeleteSession(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSession(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "telehealth session deleted"})
}

func (h *SchedulingHandler) ListSessions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &scheduling.ListSessionsQuery{
		PatientID:  queryUUID(c, "patient_id"),
		ProviderID: queryUUID(c, "provider_id"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := scheduling.SessionStatus(raw)
		q.Status = &s
	}

	page, err := h.svc.ListSessions(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
