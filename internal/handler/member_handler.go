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

type memberService interface {
	List(ctx context.Context, filter models.MemberFilter) ([]models.Member, error)
	Get(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, req dto.CreateMemberRequest) (*models.Member, error)
	Update(ctx context.Context, id int64, req dto.UpdateMemberRequest) (*models.Member, error)
}

// MemberHandler exposes patient endpoints.
type MemberHandler struct {
	service memberService
}

// NewMemberHandler builds a new handler.
func NewMemberHandler(service memberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// List godoc
// @Summary List members
// @Tags Members
// @Produce json
// @Param name query string false "Filter by name"
// @Param code query string false "Filter by code"
// @Param mobile query string false "Filter by mobile"
// @Success 200 {object} response.Envelope
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	id, err := queryInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.MemberFilter{
		ID:     id,
		Name:   c.Query("name"),
		Code:   c.Query("code"),
		Mobile: c.Query("mobile"),
	}
	members, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Get godoc
// @Summary Get member by ID
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Register member
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body dto.CreateMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}
	member, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param payload body dto.UpdateMemberRequest true "Member payload"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}
	member, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}
