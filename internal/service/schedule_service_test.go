package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type scheduleRepoStub struct {
	schedules  []models.DoctorSchedule
	candidates []models.DoctorSchedule
	created    *models.DoctorSchedule
	updated    *models.DoctorSchedule
	nextID     int64
}

func (s *scheduleRepoStub) List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error) {
	return s.schedules, nil
}

func (s *scheduleRepoStub) FindByID(ctx context.Context, id int64) (*models.DoctorSchedule, error) {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			schedule := s.schedules[i]
			return &schedule, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleRepoStub) FindActiveByDoctor(ctx context.Context, doctorID int64) ([]models.DoctorSchedule, error) {
	result := []models.DoctorSchedule{}
	for _, schedule := range s.schedules {
		if schedule.DoctorID == doctorID && schedule.IsActive && !schedule.Deleted {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func (s *scheduleRepoStub) FindConflictCandidates(ctx context.Context, q sqlx.QueryerContext, doctorID, roomID int64, dayOfWeek int, excludeID int64, forUpdate bool) ([]models.DoctorSchedule, error) {
	result := []models.DoctorSchedule{}
	for _, candidate := range s.candidates {
		if candidate.ID != excludeID {
			result = append(result, candidate)
		}
	}
	return result, nil
}

func (s *scheduleRepoStub) Create(ctx context.Context, q sqlx.QueryerContext, schedule *models.DoctorSchedule) error {
	s.nextID++
	schedule.ID = s.nextID
	s.created = schedule
	return nil
}

func (s *scheduleRepoStub) Update(ctx context.Context, q sqlx.ExtContext, schedule *models.DoctorSchedule) error {
	s.updated = schedule
	return nil
}

func (s *scheduleRepoStub) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type userReaderStub struct {
	inactive bool
}

func (s userReaderStub) FindActiveByID(ctx context.Context, id int64) (*models.User, error) {
	if s.inactive {
		return nil, sql.ErrNoRows
	}
	return &models.User{ID: id, Name: "Dr. Chen", IsActive: true}, nil
}

type roomReaderStub struct {
	deleted bool
}

func (s roomReaderStub) FindNonDeletedByID(ctx context.Context, id int64) (*models.Room, error) {
	if s.deleted {
		return nil, sql.ErrNoRows
	}
	return &models.Room{ID: id, Number: 101}, nil
}

type appointmentReaderStub struct {
	appointments []models.Appointment
}

func (s appointmentReaderStub) FindBlockingByDoctorAndDateRange(ctx context.Context, doctorID int64, startDate, endDate string) ([]models.Appointment, error) {
	return s.appointments, nil
}

func newScheduleService(repo *scheduleRepoStub, appointments appointmentReaderStub, cfg ScheduleServiceConfig) *ScheduleService {
	return NewScheduleService(repo, userReaderStub{}, roomReaderStub{}, appointments, validator.New(), nil, cfg)
}

func mondaySchedule() models.DoctorSchedule {
	return models.DoctorSchedule{
		ID:        1,
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "12:00",
		IsActive:  true,
	}
}

// 2025-08-25 is a Monday.
func mondayQuery() dto.AvailabilityQuery {
	return dto.AvailabilityQuery{StartDate: "2025-08-25", EndDate: "2025-08-25"}
}

func TestScheduleServiceAvailableTimesGeneratesSlots(t *testing.T) {
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{DefaultIntervalMinutes: 30})

	slots, err := svc.AvailableTimes(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, models.TimeSlot{Date: "2025-08-25", StartTime: "09:00", EndTime: "09:30"}, slots[0])
	assert.Equal(t, models.TimeSlot{Date: "2025-08-25", StartTime: "11:30", EndTime: "12:00"}, slots[5])
}

func TestScheduleServiceAvailableTimesExcludesBooked(t *testing.T) {
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	booked := appointmentReaderStub{appointments: []models.Appointment{{
		DoctorID:        10,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          models.AppointmentScheduled,
	}}}
	svc := newScheduleService(repo, booked, ScheduleServiceConfig{DefaultIntervalMinutes: 30})

	slots, err := svc.AvailableTimes(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, slot := range slots {
		assert.NotEqual(t, "10:00", slot.StartTime)
	}
}

func TestScheduleServiceAvailableTimesSlotFreedAfterCancellation(t *testing.T) {
	// A cancelled appointment is never returned by the blocking reader,
	// so the 10:00 slot reappears.
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{DefaultIntervalMinutes: 30})

	slots, err := svc.AvailableTimes(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestScheduleServiceAvailableTimesIdempotent(t *testing.T) {
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{DefaultIntervalMinutes: 30})

	first, err := svc.AvailableTimes(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	second, err := svc.AvailableTimes(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScheduleServiceWorkingDaysOrdered(t *testing.T) {
	wednesday := mondaySchedule()
	wednesday.ID = 2
	wednesday.DayOfWeek = 3
	wednesday.StartTime = "14:00"
	wednesday.EndTime = "17:00"
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule(), wednesday}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{})

	days, err := svc.WorkingDays(context.Background(), 10, dto.AvailabilityQuery{StartDate: "2025-08-25", EndDate: "2025-08-31"})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-08-25", days[0].Date)
	assert.Equal(t, 1, days[0].DayOfWeek)
	assert.Equal(t, "2025-08-27", days[1].Date)
	assert.Equal(t, 3, days[1].DayOfWeek)
}

func TestScheduleServiceWorkingDaysInvertedRangeEmpty(t *testing.T) {
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{})

	days, err := svc.WorkingDays(context.Background(), 10, dto.AvailabilityQuery{StartDate: "2025-08-31", EndDate: "2025-08-25"})
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestScheduleServiceWorkingDaysIgnoresDoctorFlag(t *testing.T) {
	// Availability reads expand whatever active schedules exist; the
	// doctor record itself is never consulted.
	repo := &scheduleRepoStub{schedules: []models.DoctorSchedule{mondaySchedule()}}
	svc := NewScheduleService(repo, userReaderStub{inactive: true}, roomReaderStub{}, appointmentReaderStub{}, validator.New(), nil, ScheduleServiceConfig{})

	days, err := svc.WorkingDays(context.Background(), 10, mondayQuery())
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-08-25", days[0].Date)
}

func TestScheduleServiceWorkingDaysUnknownDoctorEmpty(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{})

	days, err := svc.WorkingDays(context.Background(), 99, mondayQuery())
	require.NoError(t, err)
	assert.Empty(t, days)
}

func dayOfWeekPtr(d int) *int { return &d }

func TestScheduleServiceCreateConflict(t *testing.T) {
	existing := mondaySchedule()
	existing.StartTime = "10:00"
	existing.EndTime = "11:00"
	repo := &scheduleRepoStub{candidates: []models.DoctorSchedule{existing}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(1),
		StartTime: "10:30",
		EndTime:   "11:30",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Schedule time conflicts with existing schedule", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestScheduleServiceCreateAdjacentWindowsAllowed(t *testing.T) {
	existing := mondaySchedule()
	existing.StartTime = "09:00"
	existing.EndTime = "10:00"
	repo := &scheduleRepoStub{candidates: []models.DoctorSchedule{existing}}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{})

	schedule, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(1),
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, schedule.ID)
	assert.True(t, schedule.IsActive)
}

func TestScheduleServiceCreateInactiveDoctor(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, userReaderStub{inactive: true}, roomReaderStub{}, appointmentReaderStub{}, validator.New(), nil, ScheduleServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(1),
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "Doctor not found or inactive", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestScheduleServiceCreateInvalidDayOfWeek(t *testing.T) {
	svc := newScheduleService(&scheduleRepoStub{}, appointmentReaderStub{}, ScheduleServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(7),
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Invalid day of week", appErr.Message)
}

func TestScheduleServiceCreateChecksDoctorBeforeDayOfWeek(t *testing.T) {
	// Reference checks run before the day-of-week range check.
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, userReaderStub{inactive: true}, roomReaderStub{}, appointmentReaderStub{}, validator.New(), nil, ScheduleServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(7),
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Doctor not found or inactive", appErr.Message)
}

func TestScheduleServiceCreateInvertedTimes(t *testing.T) {
	svc := newScheduleService(&scheduleRepoStub{}, appointmentReaderStub{}, ScheduleServiceConfig{})

	_, err := svc.Create(context.Background(), dto.CreateScheduleRequest{
		DoctorID:  10,
		RoomID:    2,
		DayOfWeek: dayOfWeekPtr(1),
		StartTime: "12:00",
		EndTime:   "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceUpdateSkipsConflictCheckByDefault(t *testing.T) {
	existing := mondaySchedule()
	conflicting := mondaySchedule()
	conflicting.ID = 9
	repo := &scheduleRepoStub{
		schedules:  []models.DoctorSchedule{existing},
		candidates: []models.DoctorSchedule{conflicting},
	}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{ValidateOnUpdate: false})

	start := "09:30"
	_, err := svc.Update(context.Background(), existing.ID, dto.UpdateScheduleRequest{StartTime: &start})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "09:30", repo.updated.StartTime)
}

func TestScheduleServiceUpdateValidatesWhenConfigured(t *testing.T) {
	existing := mondaySchedule()
	conflicting := mondaySchedule()
	conflicting.ID = 9
	repo := &scheduleRepoStub{
		schedules:  []models.DoctorSchedule{existing},
		candidates: []models.DoctorSchedule{conflicting},
	}
	svc := newScheduleService(repo, appointmentReaderStub{}, ScheduleServiceConfig{ValidateOnUpdate: true})

	start := "09:30"
	_, err := svc.Update(context.Background(), existing.ID, dto.UpdateScheduleRequest{StartTime: &start})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}
