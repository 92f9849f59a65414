package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
	"github.com/siaochanwu/appointment-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error)
	Get(ctx context.Context, id int64) (*models.DoctorSchedule, error)
	Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.DoctorSchedule, error)
	Update(ctx context.Context, id int64, req dto.UpdateScheduleRequest) (*models.DoctorSchedule, error)
	WorkingDays(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.WorkingDay, error)
	AvailableTimes(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.TimeSlot, error)
}

// ScheduleHandler exposes recurring schedule CRUD plus the derived
// working-day and available-time lookups.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary List doctor schedules
// @Tags DoctorSchedules
// @Produce json
// @Param doctorId query int false "Filter by doctor"
// @Param roomId query int false "Filter by room"
// @Param dayOfWeek query int false "Filter by day of week (0=Sunday)"
// @Success 200 {object} response.Envelope
// @Router /doctorSchedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	id, err := queryInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	doctorID, err := queryInt64(c, "doctorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	roomID, err := queryInt64(c, "roomId")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.DoctorScheduleFilter{
		ID:        id,
		DoctorID:  doctorID,
		RoomID:    roomID,
		StartTime: c.Query("startTime"),
		EndTime:   c.Query("endTime"),
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, convErr := strconv.Atoi(raw)
		if convErr != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be an integer"))
			return
		}
		filter.DayOfWeek = &day
	}
	schedules, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}

// Get godoc
// @Summary Get doctor schedule by ID
// @Tags DoctorSchedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /doctorSchedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create godoc
// @Summary Create doctor schedule
// @Tags DoctorSchedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /doctorSchedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update doctor schedule
// @Tags DoctorSchedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param payload body dto.UpdateScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /doctorSchedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// WorkingDays godoc
// @Summary List dated working days for a doctor
// @Tags DoctorSchedules
// @Produce json
// @Param id path int true "Doctor ID"
// @Param startDate query string true "Range start (YYYY-MM-DD)"
// @Param endDate query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /doctorSchedules/{id}/workingDays [get]
func (h *ScheduleHandler) WorkingDays(c *gin.Context) {
	doctorID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability query"))
		return
	}
	days, err := h.service.WorkingDays(c.Request.Context(), doctorID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": days})
}

// AvailableTimes godoc
// @Summary List bookable time slots for a doctor
// @Tags DoctorSchedules
// @Produce json
// @Param id path int true "Doctor ID"
// @Param startDate query string true "Range start (YYYY-MM-DD)"
// @Param endDate query string true "Range end (YYYY-MM-DD)"
// @Param intervalMinutes query int false "Slot length in minutes"
// @Success 200 {object} map[string]interface{}
// @Router /doctorSchedules/{id}/availableTimes [get]
func (h *ScheduleHandler) AvailableTimes(c *gin.Context) {
	doctorID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability query"))
		return
	}
	slots, err := h.service.AvailableTimes(c.Request.Context(), doctorID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": slots})
}
