package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chartwell-health/chartwell/internal/domain/patient"
	"github.com/chartwell-health/chartwell/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

type createPatientRequest struct {
	UserID           uuid.UUID `json:"user_id" binding:"required"`
	FirstName        string    `json:"first_name" binding:"required"`
	LastName         string    `json:"last_name" binding:"required"`
	DateOfBirth      time.Time `json:"date_of_birth" binding:"required"`
	Gender           string    `json:"gender" binding:"required"`
	Address          string    `json:"address"`
	PhoneNumber      string    `json:"phone_number"`
	EmergencyContact string    `json:"emergency_contact"`
	EmergencyPhone   string    `json:"emergency_phone"`
	BloodType        string    `json:"blood_type"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), actor, &patient.CreatePatientCommand{
		UserID:           req.UserID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           patient.Gender(req.Gender),
		Address:          req.Address,
		PhoneNumber:      req.PhoneNumber,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodType:        req.BloodType,
		CreatedBy:        actor.UserID,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), actor, id, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePatientRequest struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           *string    `json:"gender"`
	Address          *string    `json:"address"`
	PhoneNumber      *string    `json:"phone_number"`
	EmergencyContact *string    `json:"emergency_contact"`
	EmergencyPhone   *string    `json:"emergency_phone"`
	BloodType        *string    `json:"blood_type"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		PhoneNumber:      req.PhoneNumber,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodType:        req.BloodType,
		UpdatedBy:        actor.UserID,
	}
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		cmd.Gender = &g
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePatient(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "patient deleted"})
}

func (h *PatientHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	page, err := h.svc.ListPatients(c.Request.Context(), actor, &patient.ListPatientsQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createHistoryRequest struct {
	PatientID     uuid.UUID `json:"patient_id" binding:"required"`
	Condition     string    `json:"condition" binding:"required"`
	DiagnosisDate time.Time `json:"diagnosis_date" binding:"required"`
	Severity      string    `json:"severity"`
	IsChronic     bool      `json:"is_chronic"`
	Notes         string    `json:"notes"`
}

func (h *PatientHandler) CreateHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	hist, err := h.svc.CreateHistory(c.Request.Context(), actor, &patient.CreateMedicalHistoryCommand{
		PatientID:     req.PatientID,
		Condition:     req.Condition,
		DiagnosisDate: req.DiagnosisDate,
		Severity:      req.Severity,
		IsChronic:     req.IsChronic,
		Notes:         req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, hist)
}

func (h *PatientHandler) GetHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	hist, err := h.svc.GetHistory(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hist)
}

type updateHistoryRequest struct {
	Condition     *string    `json:"condition"`
	DiagnosisDate *time.Time `json:"diagnosis_date"`
	Severity      *string    `json:"severity"`
	IsChronic     *bool      `json:"is_chronic"`
	Notes         *string    `json:"notes"`
}

func (h *PatientHandler) UpdateHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	hist, err := h.svc.UpdateHistory(c.Request.Context(), actor, id, &patient.UpdateMedicalHistoryCommand{
		Condition:     req.Condition,
		DiagnosisDate: req.DiagnosisDate,
		Severity:      req.Severity,
		IsChronic:     req.IsChronic,
		Notes:         req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hist)
}

func (h *PatientHandler) DeleteHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteHistory(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "medical history deleted"})
}

func (h *PatientHandler) ListHistories(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	hists, err := h.svc.ListHistories(c.Request.Context(), actor, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hists)
}

type createAllergyRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Allergen  string    `json:"allergen" binding:"required"`
	Reaction  string    `json:"reaction" binding:"required"`
	Severity  string    `json:"severity" binding:"required"`
	OnsetDate time.Time `json:"onset_date" binding:"required"`
	IsActive  bool      `json:"is_active"`
	Notes     string    `json:"notes"`
}

func (h *PatientHandler) CreateAllergy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createAllergyRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CreateAllergy(c.Request.Context(), actor, &patient.CreateAllergyCommand{
		PatientID: req.PatientID,
		Allergen:  req.Allergen,
		Reaction:  req.Reaction,
		Severity:  patient.AllergySeverity(req.Severity),
		OnsetDate: req.OnsetDate,
		IsActive:  req.IsActive,
		Notes:     req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *PatientHandler) GetAllergy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAllergy(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type updateAllergyRequest struct {
	Allergen  *string    `json:"allergen"`
	Reaction  *string    `json:"reaction"`
	Severity  *string    `json:"severity"`
	OnsetDate *time.Time `json:"onset_date"`
	IsActive  *bool      `json:"is_active"`
	Notes     *string    `json:"notes"`
}

func (h *PatientHandler) UpdateAllergy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAllergyRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdateAllergyCommand{
		Allergen:  req.Allergen,
		Reaction:  req.Reaction,
		OnsetDate: req.OnsetDate,
		IsActive:  req.IsActive,
		Notes:     req.Notes,
	}
	if req.Severity != nil {
		s := patient.AllergySeverity(*req.Severity)
		cmd.Severity = &s
	}

	a, err := h.svc.UpdateAllergy(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *PatientHandler) DeleteAllergy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteAllergy(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "allergy deleted"})
}

func (h *PatientHandler) ListAllergies(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	allergies, err := h.svc.ListAllergies(c.Request.Context(), actor, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, allergies)
}

type createImmunizationRequest struct {
	PatientID          uuid.UUID  `json:"patient_id" binding:"required"`
	Vaccine            string     `json:"vaccine" binding:"required"`
	AdministrationDate time.Time  `json:"administration_date" binding:"required"`
	NextDoseDate       *time.Time `json:"next_dose_date"`
	AdministeredBy     *uuid.UUID `json:"administered_by"`
	LotNumber          string     `json:"lot_number"`
	Notes              string     `json:"notes"`
}

func (h *PatientHandler) CreateImmunization(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createImmunizationRequest
	if !bindJSON(c, &req) {
		return
	}

	imm, err := h.svc.CreateImmunization(c.Request.Context(), actor, &patient.CreateImmunizationCommand{
		PatientID:          req.PatientID,
		Vaccine:            req.Vaccine,
		AdministrationDate: req.AdministrationDate,
		NextDoseDate:       req.NextDoseDate,
		AdministeredBy:     req.AdministeredBy,
		LotNumber:          req.LotNumber,
		Notes:              req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, imm)
}

func (h *PatientHandler) GetImmunization(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	imm, err := h.svc.GetImmunization(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, imm)
}

type updateImmunizationRequest struct {
	Vaccine            *string    `json:"vaccine"`
	AdministrationDate *time.Time `json:"administration_date"`
	NextDoseDate       *time.Time `json:"next_dose_date"`
	LotNumber          *string    `json:"lot_number"`
	Notes              *string    `json:"notes"`
}

func (h *PatientHandler) UpdateImmunization(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateImmunizationRequest
	if !bindJSON(c, &req) {
		return
	}

	imm, err := h.svc.UpdateImmunization(c.Request.Context(), actor, id, &patient.UpdateImmunizationCommand{
		Vaccine:            req.Vaccine,
		AdministrationDate: req.AdministrationDate,
		NextDoseDate:       req.NextDoseDate,
		LotNumber:          req.LotNumber,
		Notes:              req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, imm)
}

func (h *PatientHandler) DeleteImmunization(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteImmunization(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "immunization deleted"})
}

func (h *PatientHandler) ListImmunizations(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	imms, err := h.svc.ListImmunizations(c.Request.Context(), actor, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, imms)
}
