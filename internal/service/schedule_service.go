package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
	"github.com/siaochanwu/appointment-api/pkg/timeslot"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error)
	FindByID(ctx context.Context, id int64) (*models.DoctorSchedule, error)
	FindActiveByDoctor(ctx context.Context, doctorID int64) ([]models.DoctorSchedule, error)
	FindConflictCandidates(ctx context.Context, q sqlx.QueryerContext, doctorID, roomID int64, dayOfWeek int, excludeID int64, forUpdate bool) ([]models.DoctorSchedule, error)
	Create(ctx context.Context, q sqlx.QueryerContext, schedule *models.DoctorSchedule) error
	Update(ctx context.Context, q sqlx.ExtContext, schedule *models.DoctorSchedule) error
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type scheduleUserReader interface {
	FindActiveByID(ctx context.Context, id int64) (*models.User, error)
}

type scheduleRoomReader interface {
	FindNonDeletedByID(ctx context.Context, id int64) (*models.Room, error)
}

type scheduleAppointmentReader interface {
	FindBlockingByDoctorAndDateRange(ctx context.Context, doctorID int64, startDate, endDate string) ([]models.Appointment, error)
}

// ScheduleServiceConfig tunes conflict validation and slot generation.
type ScheduleServiceConfig struct {
	ValidateOnUpdate       bool
	DefaultIntervalMinutes int
}

// ScheduleService owns the recurring weekly schedules and the
// availability engine built on top of them: expanding rules into dated
// working days and carving bookable slots out of them.
type ScheduleService struct {
	repo         scheduleRepository
	users        scheduleUserReader
	rooms        scheduleRoomReader
	appointments scheduleAppointmentReader
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          ScheduleServiceConfig
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, users scheduleUserReader, rooms scheduleRoomReader, appointments scheduleAppointmentReader, validate *validator.Validate, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultIntervalMinutes <= 0 {
		cfg.DefaultIntervalMinutes = 30
	}
	return &ScheduleService{
		repo:         repo,
		users:        users,
		rooms:        rooms,
		appointments: appointments,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// List returns schedules matching the filter.
func (s *ScheduleService) List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error) {
	schedules, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Get fetches one schedule by ID.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.DoctorSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get schedule")
	}
	return schedule, nil
}

// Create validates references and time bounds, then inserts the schedule
// inside a transaction that locks potential conflicts, so two concurrent
// creates for the same doctor, room and weekday cannot both pass the
// overlap check.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*models.DoctorSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if req.StartTime >= req.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be before endTime")
	}

	if err := s.ensureDoctorActive(ctx, req.DoctorID); err != nil {
		return nil, err
	}
	if err := s.ensureRoomActive(ctx, req.RoomID); err != nil {
		return nil, err
	}
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid day of week")
	}

	schedule := &models.DoctorSchedule{
		DoctorID:  req.DoctorID,
		RoomID:    req.RoomID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		candidates, err := s.repo.FindConflictCandidates(ctx, tx, schedule.DoctorID, schedule.RoomID, schedule.DayOfWeek, 0, true)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
		}
		for _, other := range candidates {
			if timeslot.Overlaps(schedule.StartTime, schedule.EndTime, other.StartTime, other.EndTime) {
				return appErrors.Clone(appErrors.ErrConflict, "Schedule time conflicts with existing schedule")
			}
		}
		if err := s.repo.Create(ctx, tx, schedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule created",
		zap.Int64("id", schedule.ID),
		zap.Int64("doctorId", schedule.DoctorID),
		zap.Int("dayOfWeek", schedule.DayOfWeek))
	return schedule, nil
}

// Update applies partial changes. Conflict validation is repeated only
// when configured, matching create semantics including the row locks.
func (s *ScheduleService) Update(ctx context.Context, id int64, req dto.UpdateScheduleRequest) (*models.DoctorSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get schedule")
	}

	if req.DoctorID != nil {
		if err := s.ensureDoctorActive(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
		schedule.DoctorID = *req.DoctorID
	}
	if req.RoomID != nil {
		if err := s.ensureRoomActive(ctx, *req.RoomID); err != nil {
			return nil, err
		}
		schedule.RoomID = *req.RoomID
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid day of week")
		}
		schedule.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if schedule.StartTime >= schedule.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be before endTime")
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if req.Deleted != nil {
		schedule.Deleted = *req.Deleted
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if s.cfg.ValidateOnUpdate && schedule.IsActive && !schedule.Deleted {
			candidates, err := s.repo.FindConflictCandidates(ctx, tx, schedule.DoctorID, schedule.RoomID, schedule.DayOfWeek, schedule.ID, true)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
			}
			for _, other := range candidates {
				if timeslot.Overlaps(schedule.StartTime, schedule.EndTime, other.StartTime, other.EndTime) {
					return appErrors.Clone(appErrors.ErrConflict, "Schedule time conflicts with existing schedule")
				}
			}
		}
		if err := s.repo.Update(ctx, tx, schedule); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// WorkingDays expands the doctor's active weekly rules into dated
// occurrences over the inclusive date range, ordered by date then start
// time. A doctor with no active rules simply yields an empty list.
func (s *ScheduleService) WorkingDays(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.WorkingDay, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date range")
	}

	schedules, err := s.repo.FindActiveByDoctor(ctx, doctorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	dates, err := timeslot.DateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date range")
	}

	byDay := make(map[int][]models.DoctorSchedule)
	for _, schedule := range schedules {
		byDay[schedule.DayOfWeek] = append(byDay[schedule.DayOfWeek], schedule)
	}

	days := make([]models.WorkingDay, 0)
	for _, date := range dates {
		weekday, err := timeslot.DayOfWeek(date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date range")
		}
		for _, schedule := range byDay[weekday] {
			days = append(days, models.WorkingDay{DoctorSchedule: schedule, Date: date})
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].StartTime < days[j].StartTime
	})
	return days, nil
}

// AvailableTimes carves each working day into fixed-interval slots and
// drops every slot overlapping a blocking appointment. Cancelled and
// soft-deleted appointments free their slots again. The computation is
// always served fresh from the database.
func (s *ScheduleService) AvailableTimes(ctx context.Context, doctorID int64, query dto.AvailabilityQuery) ([]models.TimeSlot, error) {
	days, err := s.WorkingDays(ctx, doctorID, query)
	if err != nil {
		return nil, err
	}

	interval := query.IntervalMinutes
	if interval <= 0 {
		interval = s.cfg.DefaultIntervalMinutes
	}

	appointments, err := s.appointments.FindBlockingByDoctorAndDateRange(ctx, doctorID, query.StartDate, query.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
	}
	booked := make(map[string][]models.Appointment)
	for _, appointment := range appointments {
		booked[appointment.AppointmentDate] = append(booked[appointment.AppointmentDate], appointment)
	}

	slots := make([]models.TimeSlot, 0)
	for _, day := range days {
		steps, err := timeslot.Steps(day.StartTime, day.EndTime, interval)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid slot interval")
		}
		for _, step := range steps {
			free := true
			for _, appointment := range booked[day.Date] {
				if timeslot.Overlaps(step.Start, step.End, appointment.StartTime, appointment.EndTime) {
					free = false
					break
				}
			}
			if free {
				slots = append(slots, models.TimeSlot{Date: day.Date, StartTime: step.Start, EndTime: step.End})
			}
		}
	}
	return slots, nil
}

func (s *ScheduleService) ensureDoctorActive(ctx context.Context, doctorID int64) error {
	if _, err := s.users.FindActiveByID(ctx, doctorID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Doctor not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify doctor")
	}
	return nil
}

func (s *ScheduleService) ensureRoomActive(ctx context.Context, roomID int64) error {
	if _, err := s.rooms.FindNonDeletedByID(ctx, roomID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Room not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify room")
	}
	return nil
}
