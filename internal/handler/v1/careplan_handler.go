package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/careplan"
	"github.com/chartwell-health/chartwell/internal/service"
)

type CarePlanHandler struct {
	svc *service.CarePlanService
}

func NewCarePlanHandler(svc *service.CarePlanService) *CarePlanHandler {
	return &CarePlanHandler{svc: svc}
}

type createPlanRequest struct {
	PatientID uuid.UUID  `json:"patient_id" binding:"required"`
	Diagnosis string     `json:"diagnosis" binding:"required"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
	Goals     string     `json:"goals" binding:"required"`
}

func (h *CarePlanHandler) CreatePlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.svc.CreatePlan(c.Request.Context(), actor, &careplan.CreatePlanCommand{
		PatientID:  req.PatientID,
		ProviderID: actor.UserID,
		Diagnosis:  req.Diagnosis,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Goals:      req.Goals,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, plan)
}

func (h *CarePlanHandler) GetPlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	plan, err := h.svc.GetPlan(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, plan)
}

type updatePlanRequest struct {
	Diagnosis *string    `json:"diagnosis"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Goals     *string    `json:"goals"`
	IsActive  *bool      `json:"is_active"`
}

func (h *CarePlanHandler) UpdatePlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.svc.UpdatePlan(c.Request.Context(), actor, id, &careplan.UpdatePlanCommand{
		Diagnosis: req.Diagnosis,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Goals:     req.Goals,
		IsActive:  req.IsActive,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, plan)
}

func (h *CarePlanHandler) DeletePlan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePlan(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "treatment plan deleted"})
}

func (h *CarePlanHandler) ListPlans(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	page, err := h.svc.ListPlans(c.Request.Context(), actor, &careplan.ListPlansQuery{
		PatientID:  queryUUID(c, "patient_id"),
		ProviderID: queryUUID(c, "provider_id"),
		IsActive:   queryBool(c, "is_active"),
		Search:     c.Query("search"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createNoteRequest struct {
	TreatmentPlanID uuid.UUID `json:"treatment_plan_id" binding:"required"`
	NoteDate        time.Time `json:"note_date" binding:"required"`
	Subjective      string    `json:"subjective"`
	Objective       string    `json:"objective"`
	Assessment      string    `json:"assessment"`
	Plan            string    `json:"plan"`
}

func (h *CarePlanHandler) CreateNote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.svc.CreateNote(c.Request.Context(), actor, &careplan.CreateNoteCommand{
		TreatmentPlanID: req.TreatmentPlanID,
		AuthorID:        actor.UserID,
		NoteDate:        req.NoteDate,
		Subjective:      req.Subjective,
		Objective:       req.Objective,
		Assessment:      req.Assessment,
		Plan:            req.Plan,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, note)
}

func (h *CarePlanHandler) GetNote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	note, err := h.svc.GetNote(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, note)
}

type updateNoteRequest struct {
	NoteDate   *time.Time `json:"note_date"`
	Subjective *string    `json:"subjective"`
	Objective  *string    `json:"objective"`
	Assessment *string    `json:"assessment"`
	Plan       *string    `json:"plan"`
}

func (h *CarePlanHandler) UpdateNote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.svc.UpdateNote(c.Request.Context(), actor, id, &careplan.UpdateNoteCommand{
		NoteDate:   req.NoteDate,
		Subjective: req.Subjective,
		Objective:  req.Objective,
		Assessment: req.Assessment,
		Plan:       req.Plan,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, note)
}

func (h *CarePlanHandler) DeleteNote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteNote(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "progress note deleted"})
}

func (h *CarePlanHandler) ListNotes(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	planID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), actor, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, notes)
}
