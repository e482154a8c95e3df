package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/imaging"
	"github.com/chartwell-health/chartwell/internal/service"
)

type ImagingHandler struct {
	svc *service.ImagingService
}

func NewImagingHandler(svc *service.ImagingService) *ImagingHandler {
	return &ImagingHandler{svc: svc}
}

type createStudyRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	StudyType string    `json:"study_type" binding:"required"`
	StudyDate time.Time `json:"study_date" binding:"required"`
	Facility  string    `json:"facility"`
	Notes     string    `json:"notes"`
}

func (h *ImagingHandler) CreateStudy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createStudyRequest
	if !bindJSON(c, &req) {
		return
	}

	study, err := h.svc.CreateStudy(c.Request.Context(), actor, &imaging.CreateStudyCommand{
		PatientID:          req.PatientID,
		OrderingProviderID: actor.UserID,
		StudyType:          req.StudyType,
		StudyDate:          req.StudyDate,
		Facility:           req.Facility,
		Notes:              req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, study)
}

func (h *ImagingHandler) GetStudy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	study, err := h.svc.GetStudy(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, study)
}

type updateStudyRequest struct {
	StudyType *string    `json:"study_type"`
	StudyDate *time.Time `json:"study_date"`
	Facility  *string    `json:"facility"`
	Status    *string    `json:"status"`
	Notes     *string    `json:"notes"`
}

func (h *ImagingHandler) UpdateStudy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateStudyRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &imaging.UpdateStudyCommand{
		StudyType: req.StudyType,
		StudyDate: req.StudyDate,
		Facility:  req.Facility,
		Notes:     req.Notes,
	}
	if req.Status != nil {
		s := imaging.StudyStatus(*req.Status)
		cmd.Status = &s
	}

	study, err := h.svc.UpdateStudy(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, study)
}

func (h *ImagingHandler) DeleteStudy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteStudy(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "imaging study deleted"})
}

func (h *ImagingHandler) ListStudies(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &imaging.ListStudiesQuery{
		PatientID:          queryUUID(c, "patient_id"),
		OrderingProviderID: queryUUID(c, "ordering_provider_id"),
		Search:             c.Query("search"),
		Page:               parseQueryInt(c, "page", 1),
		PageSize:           parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := imaging.StudyStatus(raw)
		q.Status = &s
	}

	page, err := h.svc.ListStudies(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createImagingResultRequest struct {
	ImagingStudyID uuid.UUID  `json:"imaging_study_id" binding:"required"`
	ResultDate     time.Time  `json:"result_date" binding:"required"`
	Findings       string     `json:"findings" binding:"required"`
	Impression     string     `json:"impression" binding:"required"`
	RadiologistID  *uuid.UUID `json:"radiologist_id"`
	ReviewedBy     *uuid.UUID `json:"reviewed_by"`
}

func (h *ImagingHandler) CreateResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createImagingResultRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.CreateResult(c.Request.Context(), actor, &imaging.CreateResultCommand{
		ImagingStudyID: req.ImagingStudyID,
		ResultDate:     req.ResultDate,
		Findings:       req.Findings,
		Impression:     req.Impression,
		RadiologistID:  req.RadiologistID,
		ReviewedBy:     req.ReviewedBy,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, res)
}

func (h *ImagingHandler) GetResult(c *gin.Context) {
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

type updateImagingResultRequest struct {
	ResultDate *time.Time `json:"result_date"`
	Findings   *string    `json:"findings"`
	Impression *string    `json:"impression"`
}

func (h *ImagingHandler) UpdateResult(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateImagingResultRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.svc.UpdateResult(c.Request.Context(), actor, id, &imaging.UpdateResultCommand{
		ResultDate: req.ResultDate,
		Findings:   req.Findings,
		Impression: req.Impression,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *ImagingHandler) DeleteResult(c *gin.Context) {
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
	c.JSON(http.StatusOK, APIResponse[any]{Message: "imaging result deleted"})
}
