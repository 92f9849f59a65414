package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
	"github.com/siaochanwu/appointment-api/pkg/response"
)

type userRoleService interface {
	List(ctx context.Context, filter models.UserRoleFilter) ([]models.UserRole, error)
	Create(ctx context.Context, req dto.CreateUserRoleRequest) (*models.UserRole, error)
	Update(ctx context.Context, id int64, req dto.UpdateUserRoleRequest) (*models.UserRole, error)
}

// UserRoleHandler exposes role assignment endpoints.
type UserRoleHandler struct {
	service userRoleService
}

// NewUserRoleHandler builds a new handler.
func NewUserRoleHandler(service userRoleService) *UserRoleHandler {
	return &UserRoleHandler{service: service}
}

// List godoc
// @Summary List role assignments
// @Tags UserRoles
// @Produce json
// @Param userId query int false "Filter by user"
// @Param roleId query int false "Filter by role"
// @Success 200 {object} response.Envelope
// @Router /userRoles [get]
func (h *UserRoleHandler) List(c *gin.Context) {
	userID, err := queryInt64(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	roleID, err := queryInt64(c, "roleId")
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.List(c.Request.Context(), models.UserRoleFilter{UserID: userID, RoleID: roleID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Create godoc
// @Summary Assign role to user
// @Tags UserRoles
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRoleRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /userRoles [post]
func (h *UserRoleHandler) Create(c *gin.Context) {
	var req dto.CreateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user role payload"))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update role assignment
// @Tags UserRoles
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body dto.UpdateUserRoleRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /userRoles/{id} [put]
func (h *UserRoleHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user role payload"))
		return
	}
	assignment, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
