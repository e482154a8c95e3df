package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chartwell-health/chartwell/internal/domain"
	"github.com/chartwell-health/chartwell/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Role           string `json:"role" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
}

func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), actor, &domain.CreateUserCommand{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           domain.Role(req.Role),
		PhoneNumber:    req.PhoneNumber,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		Department:     req.Department,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, user)
}

type updateUserRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Role           *string `json:"role"`
	Status         *string `json:"status"`
	PhoneNumber    *string `json:"phone_number"`
	LicenseNumber  *string `json:"license_number"`
	Specialization *string `json:"specialization"`
	Department     *string `json:"department"`
	IsVerified     *bool   `json:"is_verified"`
}

func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &domain.UpdateUserCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		Department:     req.Department,
		IsVerified:     req.IsVerified,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		cmd.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		cmd.Status = &status
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), actor, id, cmd, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), actor, id, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "user deleted"})
}

func (h *UserHandler) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	q := &domain.ListUsersQuery{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		q.Role = &role
	}

	page, err := h.svc.ListUsers(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, page)
}
