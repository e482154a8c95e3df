package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/chartwell-health/chartwell/internal/service"
)

type ContactHandler struct {
	svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.svc.Submit(c.Request.Context(), &service.ContactCommand{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, sub)
}

func (h *ContactHandler) Recent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	subs, err := h.svc.Recent(c.Request.Context(), actor, parseQueryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, subs)
}
