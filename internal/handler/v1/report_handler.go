package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chartwell-health/chartwell/internal/domain/report"
	"github.com/chartwell-health/chartwell/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type createReportRequest struct {
	Title       string `json:"title" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}

	rep, err := h.svc.CreateReport(c.Request.Context(), actor, &report.CreateReportCommand{
		Title:       req.Title,
		Type:        report.ReportType(req.Type),
		Description: req.Description,
		CreatedBy:   actor.UserID,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, rep)
}

func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rep, err := h.svc.GetReport(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rep)
}

type updateReportRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *ReportHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	rep, err := h.svc.UpdateReport(c.Request.Context(), actor, id, &report.UpdateReportCommand{
		Title:       req.Title,
		Description: req.Description,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rep)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteReport(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "report deleted"})
}

func (h *ReportHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := report.ListReportsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("type"); raw != "" {
		t := report.ReportType(raw)
		q.Type = &t
	}

	page, err := h.svc.ListReports(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type addParameterRequest struct {
	Name         string `json:"name" binding:"required"`
	DataType     string `json:"data_type" binding:"required"`
	IsRequired   bool   `json:"is_required"`
	DefaultValue string `json:"default_value"`
}

func (h *ReportHandler) AddParameter(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reportID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addParameterRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.AddParameter(c.Request.Context(), actor, reportID, &report.Parameter{
		Name:         req.Name,
		DataType:     req.DataType,
		IsRequired:   req.IsRequired,
		DefaultValue: req.DefaultValue,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *ReportHandler) DeleteParameter(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "paramID")
	if !ok {
		return
	}

	if err := h.svc.DeleteParameter(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "report parameter deleted"})
}

func (h *ReportHandler) ListParameters(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reportID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	params, err := h.svc.ListParameters(c.Request.Context(), actor, reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, params)
}

type generateRequest struct {
	Parameters report.Params `json:"parameters"`
}

func (h *ReportHandler) Generate(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reportID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req generateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), actor, reportID, req.Parameters, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, result)
}

func (h *ReportHandler) GetResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "resultID")
	if !ok {
		return
	}

	result, err := h.svc.GetResult(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *ReportHandler) ListResults(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reportID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	results, err := h.svc.ListResults(c.Request.Context(), actor, reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, results)
}
