package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chartwell-health/chartwell/internal/domain/billing"
	"github.com/chartwell-health/chartwell/internal/service"
)

type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

type createBillingRecordRequest struct {
	PatientID          uuid.UUID       `json:"patient_id" binding:"required"`
	AppointmentID      *uuid.UUID      `json:"appointment_id"`
	ServiceDate        time.Time       `json:"service_date" binding:"required"`
	ServiceDescription string          `json:"service_description" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	InsuranceClaim     bool            `json:"insurance_claim"`
	ClaimID            string          `json:"claim_id"`
	Notes              string          `json:"notes"`
}

func (h *BillingHandler) CreateRecord(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createBillingRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.svc.CreateRecord(c.Request.Context(), actor, &billing.CreateRecordCommand{
		PatientID:          req.PatientID,
		AppointmentID:      req.AppointmentID,
		ServiceDate:        req.ServiceDate,
		ServiceDescription: req.ServiceDescription,
		Amount:             req.Amount,
		InsuranceClaim:     req.InsuranceClaim,
		ClaimID:            req.ClaimID,
		Notes:              req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, rec)
}

func (h *BillingHandler) GetRecord(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetRecord(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

type updateBillingRecordRequest struct {
	ServiceDate        *time.Time       `json:"service_date"`
	ServiceDescription *string          `json:"service_description"`
	Amount             *decimal.Decimal `json:"amount"`
	Status             *string          `json:"status"`
	InsuranceClaim     *bool            `json:"insurance_claim"`
	ClaimID            *string          `json:"claim_id"`
	PaymentDate        *time.Time       `json:"payment_date"`
	PaymentAmount      *decimal.Decimal `json:"payment_amount"`
	Notes              *string          `json:"notes"`
}

func (h *BillingHandler) UpdateRecord(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateBillingRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &billing.UpdateRecordCommand{
		ServiceDate:        req.ServiceDate,
		ServiceDescription: req.ServiceDescription,
		Amount:             req.Amount,
		InsuranceClaim:     req.InsuranceClaim,
		ClaimID:            req.ClaimID,
		PaymentDate:        req.PaymentDate,
		PaymentAmount:      req.PaymentAmount,
		Notes:              req.Notes,
	}
	if req.Status != nil {
		s := billing.RecordStatus(*req.Status)
		cmd.Status = &s
	}

	rec, err := h.svc.UpdateRecord(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *BillingHandler) DeleteRecord(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteRecord(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "billing record deleted"})
}

func (h *BillingHandler) ListRecords(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &billing.ListRecordsQuery{
		PatientID: queryUUID(c, "patient_id"),
		DateFrom:  queryTime(c, "date_from"),
		DateTo:    queryTime(c, "date_to"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		s := billing.RecordStatus(raw)
		q.Status = &s
	}

	page, err := h.svc.ListRecords(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}

type createPolicyRequest struct {
	PatientID             uuid.UUID  `json:"patient_id" binding:"required"`
	ProviderName          string     `json:"provider_name" binding:"required"`
	PolicyNumber          string     `json:"policy_number" binding:"required"`
	GroupNumber           string     `json:"group_number"`
	SubscriberName        string     `json:"subscriber_name" binding:"required"`
	RelationshipToPatient string     `json:"relationship_to_patient" binding:"required"`
	CoverageStartDate     time.Time  `json:"coverage_start_date" binding:"required"`
	CoverageEndDate       *time.Time `json:"coverage_end_date"`
	Notes                 string     `json:"notes"`
}

func (h *BillingHandler) CreatePolicy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createPolicyRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePolicy(c.Request.Context(), actor, &billing.CreatePolicyCommand{
		PatientID:             req.PatientID,
		ProviderName:          req.ProviderName,
		PolicyNumber:          req.PolicyNumber,
		GroupNumber:           req.GroupNumber,
		SubscriberName:        req.SubscriberName,
		RelationshipToPatient: req.RelationshipToPatient,
		CoverageStartDate:     req.CoverageStartDate,
		CoverageEndDate:       req.CoverageEndDate,
		Notes:                 req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *BillingHandler) GetPolicy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPolicy(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePolicyRequest struct {
	ProviderName          *string    `json:"provider_name"`
	PolicyNumber          *string    `json:"policy_number"`
	GroupNumber           *string    `json:"group_number"`
	SubscriberName        *string    `json:"subscriber_name"`
	RelationshipToPatient *string    `json:"relationship_to_patient"`
	CoverageStartDate     *time.Time `json:"coverage_start_date"`
	CoverageEndDate       *time.Time `json:"coverage_end_date"`
	IsActive              *bool      `json:"is_active"`
	Notes                 *string    `json:"notes"`
}

func (h *BillingHandler) UpdatePolicy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePolicyRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdatePolicy(c.Request.Context(), actor, id, &billing.UpdatePolicyCommand{
		ProviderName:          req.ProviderName,
		PolicyNumber:          req.PolicyNumber,
		GroupNumber:           req.GroupNumber,
		SubscriberName:        req.SubscriberName,
		RelationshipToPatient: req.RelationshipToPatient,
		CoverageStartDate:     req.CoverageStartDate,
		CoverageEndDate:       req.CoverageEndDate,
		IsActive:              req.IsActive,
		Notes:                 req.Notes,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *BillingHandler) DeletePolicy(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePolicy(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "insurance policy deleted"})
}

func (h *BillingHandler) ListPolicies(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	page, err := h.svc.ListPolicies(c.Request.Context(), actor, &billing.ListPoliciesQuery{
		PatientID: queryUUID(c, "patient_id"),
		IsActive:  queryBool(c, "is_active"),
		Search:    c.Query("search"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
