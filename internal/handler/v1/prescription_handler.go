package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/prescription"
	"github.com/chartwell-health/chartwell/internal/service"
)

type PrescriptionHandler struct {
	svc *service.PrescriptionService
}

func NewPrescriptionHandler(svc *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc}
}

type createPrescriptionRequest struct {
	PatientID    uuid.UUID  `json:"patient_id" binding:"required"`
	Medication   string     `json:"medication" binding:"required"`
	Dosage       string     `json:"dosage" binding:"required"`
	Frequency    string     `json:"frequency" binding:"required"`
	StartDate    time.Time  `json:"start_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
	Refills      int        `json:"refills"`
	Instructions string     `json:"instructions"`
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), actor, &prescription.CreatePrescriptionCommand{
		PatientID:    req.PatientID,
		PrescriberID: actor.UserID,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Frequency:    prescription.Frequency(req.Frequency),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Refills:      req.Refills,
		Instructions: req.Instructions,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePrescriptionRequest struct {
	Medication   *string    `json:"medication"`
	Dosage       *string    `json:"dosage"`
	Frequency    *string    `json:"frequency"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Refills      *int       `json:"refills"`
	IsActive     *bool      `json:"is_active"`
	Instructions *string    `json:"instructions"`
}

func (h *PrescriptionHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &prescription.UpdatePrescriptionCommand{
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Refills:      req.Refills,
		IsActive:     req.IsActive,
		Instructions: req.Instructions,
	}
	if req.Frequency != nil {
		f := prescription.Frequency(*req.Frequency)
		cmd.Frequency = &f
	}

	p, err := h.svc.Update(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "prescription deleted"})
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), actor, &prescription.ListPrescriptionsQuery{
		PatientID:    queryUUID(c, "patient_id"),
		PrescriberID: queryUUID(c, "prescriber_id"),
		IsActive:     queryBool(c, "is_active"),
		Search:       c.Query("search"),
		Page:         parseQueryInt(c, "page", 1),
		PageSize:     parseQueryInt(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
