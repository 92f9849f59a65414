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

type itemService interface {
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	Get(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, req dto.CreateItemRequest) (*models.Item, error)
	Update(ctx context.Context, id int64, req dto.UpdateItemRequest) (*models.Item, error)
}

// ItemHandler exposes service item endpoints.
type ItemHandler struct {
	service itemService
}

// NewItemHandler builds a new handler.
func NewItemHandler(service itemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List godoc
// @Summary List service items
// @Tags Items
// @Produce json
// @Param type query string false "Filter by type"
// @Param name query string false "Filter by name"
// @Param code query string false "Filter by code"
// @Success 200 {object} response.Envelope
// @Router /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	id, err := queryInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ItemFilter{
		ID:   id,
		Type: c.Query("type"),
		Name: c.Query("name"),
		Code: c.Query("code"),
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get service item by ID
// @Tags Items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create service item
// @Tags Items
// @Accept json
// @Produce json
// @Param payload body dto.CreateItemRequest true "Item payload"
// @Success 201 {object} response.Envelope
// @Router /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid item payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update service item
// @Tags Items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param payload body dto.UpdateItemRequest true "Item payload"
// @Success 200 {object} response.Envelope
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid item payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
