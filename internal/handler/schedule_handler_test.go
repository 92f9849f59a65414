package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type scheduleServiceMock struct {
	listResp      []models.DoctorSchedule
	getResp       *models.DoctorSchedule
	createResp    *models.DoctorSchedule
	createErr     error
	updateResp    *models.DoctorSchedule
	updateErr     error
	workingDays   []models.WorkingDay
	workingErr    error
	slots         []models.TimeSlot
	slotsErr      error
	lastDoctorID  int64
	lastAvailable dto.AvailabilityQuery
}

func (m *scheduleServiceMock) List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error) {
	return m.listResp, nil
}

func (m *scheduleServiceMock) Get(ctx context.Context, id int64) (*models.DoctorSchedule, error) {
	return m.getResp, nil
}

func (m *scheduleServiceMock) Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.DoctorSchedule, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

func (m *scheduleServiceMock) Update(ctx context.Context, id int64, req dto.UpdateScheduleRequest) (*models.DoctorSchedule, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updateResp, nil
}

func (m *scheduleServiceMock) WorkingDays(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.WorkingDay, error) {
	m.lastDoctorID = doctorID
	m.lastAvailable = query
	return m.workingDays, m.workingErr
}

func (m *scheduleServiceMock) AvailableTimes(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.TimeSlot, error) {
	m.lastDoctorID = doctorID
	m.lastAvailable = query
	return m.slots, m.slotsErr
}

func TestScheduleHandlerAvailableTimes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scheduleServiceMock{slots: []models.TimeSlot{
		{Date: "2025-08-25", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2025-08-25", StartTime: "09:30", EndTime: "10:00"},
	}}
	handler := NewScheduleHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/doctorSchedules/10/availableTimes?startDate=2025-08-25&endDate=2025-08-25&intervalMinutes=30", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "10"}}

	handler.AvailableTimes(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(10), mock.lastDoctorID)
	assert.Equal(t, "2025-08-25", mock.lastAvailable.StartDate)
	assert.Equal(t, 30, mock.lastAvailable.IntervalMinutes)

	var body struct {
		Success bool              `json:"success"`
		Data    []models.TimeSlot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 2)
	assert.Equal(t, "09:00", body.Data[0].StartTime)
}

func TestScheduleHandlerWorkingDaysInvalidRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scheduleServiceMock{workingErr: appErrors.Clone(appErrors.ErrValidation, "invalid date range")}
	handler := NewScheduleHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/doctorSchedules/99/workingDays?startDate=2025-08-25&endDate=bogus", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	handler.WorkingDays(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid date range")
}

func TestScheduleHandlerWorkingDaysInvalidDoctorID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/doctorSchedules/abc/workingDays?startDate=2025-08-25&endDate=2025-08-31", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.WorkingDays(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scheduleServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "Schedule time conflicts with existing schedule")}
	handler := NewScheduleHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	day := 1
	body, _ := json.Marshal(dto.CreateScheduleRequest{DoctorID: 10, RoomID: 2, DayOfWeek: &day, StartTime: "09:00", EndTime: "12:00"})
	req, _ := http.NewRequest(http.MethodPost, "/doctorSchedules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Schedule time conflicts with existing schedule")
}

func TestScheduleHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/doctorSchedules", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
