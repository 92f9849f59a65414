package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
	"github.com/siaochanwu/appointment-api/pkg/response"
)

type appointmentService interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	Get(ctx context.Context, id int64) (*models.Appointment, error)
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error)
	Update(ctx context.Context, id int64, req dto.UpdateAppointmentRequest) (*models.Appointment, error)
}

// AppointmentHandler exposes appointment booking endpoints.
type AppointmentHandler struct {
	service appointmentService
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(service appointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List godoc
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param doctorId query int false "Filter by doctor"
// @Param roomId query int false "Filter by room"
// @Param memberId query int false "Filter by member"
// @Param serviceItemId query string false "Filter by service item, comma separated for several"
// @Param appointmentDate query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status, comma separated for several"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	filter, err := appointmentFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	appointments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointments, nil)
}

// Get godoc
// @Summary Get appointment by ID
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment, nil)
}

// Create godoc
// @Summary Book appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}
	appointment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appointment)
}

// Update godoc
// @Summary Update appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param payload body dto.UpdateAppointmentRequest true "Appointment payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}
	appointment, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appointment, nil)
}

func appointmentFilterFromQuery(c *gin.Context) (models.AppointmentFilter, error) {
	var filter models.AppointmentFilter
	var err error
	if filter.ID, err = queryInt64(c, "id"); err != nil {
		return filter, err
	}
	if filter.DoctorID, err = queryInt64(c, "doctorId"); err != nil {
		return filter, err
	}
	if filter.RoomID, err = queryInt64(c, "roomId"); err != nil {
		return filter, err
	}
	if filter.MemberID, err = queryInt64(c, "memberId"); err != nil {
		return filter, err
	}
	filter.AppointmentDate = c.Query("appointmentDate")
	filter.StartTime = c.Query("startTime")
	filter.EndTime = c.Query("endTime")

	if raw := c.Query("serviceItemId"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, convErr := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if convErr != nil || id <= 0 {
				return filter, appErrors.Clone(appErrors.ErrValidation, "serviceItemId must be a positive integer")
			}
			filter.ServiceItemIDs = append(filter.ServiceItemIDs, id)
		}
		if len(filter.ServiceItemIDs) == 1 {
			filter.ServiceItemID = filter.ServiceItemIDs[0]
			filter.ServiceItemIDs = nil
		}
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, convErr := strconv.Atoi(strings.TrimSpace(part))
			if convErr != nil {
				return filter, appErrors.Clone(appErrors.ErrValidation, "status must be an integer")
			}
			filter.Statuses = append(filter.Statuses, models.AppointmentStatus(status))
		}
		if len(filter.Statuses) == 1 {
			filter.Status = filter.Statuses[0]
			filter.Statuses = nil
		}
	}
	return filter, nil
}
