package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/lab"
	"github.com/chartwell-health/chartwell/internal/service"
)

type LabHandler struct {
	svc *service.LabService
}

func NewLabHandler(svc *service.LabService) *LabHandler {
	return &LabHandler{svc: svc}
}

type createLabTestRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	TestName  string    `json:"test_name" binding:"required"`
	TestDate  time.Time `json:"test_date" binding:"required"`
	LabName   string    `json:"lab_name"`
	Notes     string    `json:"notes"`
}

func (h *LabHandler) CreateTest(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createLabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.svc.CreateTest(c.Request.Context(), actor, &lab.CreateTestCommand{
		PatientID:          req.PatientID,
		OrderingProviderID: actor.UserID,
		TestName:           req.TestName,
		TestDate:           req.TestDate,
		LabName:            req.LabName,
		Notes:              req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, t)
}

func (h *LabHandler) GetTest(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.GetTest(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

type updateLabTestRequest struct {
	TestName *string    `json:"test_name"`
	TestDate *time.Time `json:"test_date"`
	LabName  *string    `json:"lab_name"`
	Status   *string    `json:"status"`
	Notes    *string    `json:"notes"`
}

func (h *LabHandler) UpdateTest(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateLabTestRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &lab.UpdateTestCommand{
		TestName: req.TestName,
		TestDate: req.TestDate,
		LabName:  req.LabName,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		s := lab.TestStatus(*req.Status)
		cmd.Status = &s
	}

	t, err := h.svc.UpdateTest(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, t)
}

func (h *LabHandler) DeleteTest(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTest(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "lab test deleted"})
}

func (h *LabHandler) ListTests(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &lab.ListTestsQuery{
		PatientID:          queryUUID(c, "patient_id"),
		OrderingProviderID: queryUUID(c, "ordering_provider_id"),
		Search:             c.Query("search"),
		Page:               parseQueryInt(c, "page", 1),
		PageSize:           parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := lab.TestStatus(raw)
		q.Status = &s
	}

	page, err := h.svc.ListTests(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createLabResultRequest struct {
	LabTestID      uuid.UUID  `json:"lab_test_id" binding:"required"`
	ResultDate     time.Time  `json:"result_date" binding:"required"`
	ResultValue    string     `json:"result_value" binding:"required"`
	ReferenceRange string     `json:"reference_range"`
	Units          string     `json:"units"`
	AbnormalFlag   bool       `json:"abnormal_flag"`
	Interpretation string     `json:"interpretation"`
	ReviewedBy     *uuid.UUID `json:"reviewed_by"`
}

func (h *LabHandler) CreateResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createLabResultRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.CreateResult(c.Request.Context(), actor, &lab.CreateResultCommand{
		LabTestID:      req.LabTestID,
		ResultDate:     req.ResultDate,
		ResultValue:    req.ResultValue,
		ReferenceRange: req.ReferenceRange,
		Units:          req.Units,
		AbnormalFlag:   req.AbnormalFlag,
		Interpretation: req.Interpretation,
		ReviewedBy:     req.ReviewedBy,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, res)
}

func (h *LabHandler) GetResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	res, err := h.svc.GetResult(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, res)
}

type updateLabResultRequest struct {
	ResultDate     *time.Time `json:"result_date"`
	ResultValue    *string    `json:"result_value"`
	ReferenceRange *string    `json:"reference_range"`
	Units          *string    `json:"units"`
	AbnormalFlag   *bool      `json:"abnormal_flag"`
	Interpretation *string    `json:"interpretation"`
}

func (h *LabHandler) UpdateResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateLabResultRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.UpdateResult(c.Request.Context(), actor, id, &lab.UpdateResultCommand{
		ResultDate:     req.ResultDate,
		ResultValue:    req.ResultValue,
		ReferenceRange: req.ReferenceRange,
		Units:          req.Units,
		AbnormalFlag:   req.AbnormalFlag,
		Interpretation: req.Interpretation,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *LabHandler) DeleteResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteResult(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "lab result deleted"})
}
