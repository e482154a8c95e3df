package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/coordination"
	"github.com/chartwell-health/chartwell/internal/service"
)

type CoordinationHandler struct {
	svc *service.CoordinationService
}

func NewCoordinationHandler(svc *service.CoordinationService) *CoordinationHandler {
	return &CoordinationHandler{svc: svc}
}

type createAlertRequest struct {
	Title     string     `json:"title" binding:"required"`
	Message   string     `json:"message" binding:"required"`
	Priority  string     `json:"priority"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

func (h *CoordinationHandler) CreateAlert(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CreateAlert(c.Request.Context(), actor, &coordination.CreateAlertCommand{
		Title:     req.Title,
		Message:   req.Message,
		Priority:  coordination.AlertPriority(req.Priority),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedBy: actor.UserID,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *CoordinationHandler) GetAlert(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAlert(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type updateAlertRequest struct {
	Title     *string    `json:"title"`
	Message   *string    `json:"message"`
	Priority  *string    `json:"priority"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
}

func (h *CoordinationHandler) UpdateAlert(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &coordination.UpdateAlertCommand{
		Title:     req.Title,
		Message:   req.Message,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	}
	if req.Priority != nil {
		p := coordination.AlertPriority(*req.Priority)
		cmd.Priority = &p
	}

	a, err := h.svc.UpdateAlert(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *CoordinationHandler) DeleteAlert(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAlert(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "alert deleted"})
}

func (h *CoordinationHandler) ListAlerts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &coordination.ListAlertsQuery{
		IsActive: queryBool(c, "is_active"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("priority"); raw != "" {
		p := coordination.AlertPriority(raw)
		q.Priority = &p
	}

	page, err := h.svc.ListAlerts(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

func (h *CoordinationHandler) MarkAlertRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	ua, err := h.svc.MarkAlertRead(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ua)
}

func (h *CoordinationHandler) ListMyAlerts(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	unreadOnly := false
	if v := queryBool(c, "unread_only"); v != nil {
		unreadOnly = *v
	}

	alerts, err := h.svc.ListMyAlerts(c.Request.Context(), actor, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, alerts)
}

type createTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	AssignedTo  uuid.UUID `json:"assigned_to" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Priority    string    `json:"priority"`
}

func (h *CoordinationHandler) CreateTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.svc.CreateTask(c.Request.Context(), actor, &coordination.CreateTaskCommand{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    coordination.TaskPriority(req.Priority),
		CreatedBy:   actor.UserID,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, t)
}

func (h *CoordinationHandler) GetTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.GetTask(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
}

func (h *CoordinationHandler) UpdateTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &coordination.UpdateTaskCommand{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := coordination.TaskPriority(*req.Priority)
		cmd.Priority = &p
	}
	if req.Status != nil {
		s := coordination.TaskStatus(*req.Status)
		cmd.Status = &s
	}

	t, err := h.svc.UpdateTask(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

func (h *CoordinationHandler) DeleteTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "task deleted"})
}

func (h *CoordinationHandler) ListTasks(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &coordination.ListTasksQuery{
		AssignedTo: queryUUID(c, "assigned_to"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := coordination.TaskStatus(raw)
		q.Status = &s
	}
	if raw := c.Query("priority"); raw != "" {
		p := coordination.TaskPriority(raw)
		q.Priority = &p
	}

	page, err := h.svc.ListTasks(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
