package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	"github.com/siaochanwu/appointment-api/pkg/config"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type appointmentRepository interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	FindByID(ctx context.Context, id int64) (*models.Appointment, error)
	FindExact(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error)
	FindOverlapping(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error)
	Create(ctx context.Context, q sqlx.QueryerContext, appointment *models.Appointment) error
	Update(ctx context.Context, q sqlx.ExtContext, appointment *models.Appointment) error
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type appointmentMemberReader interface {
	FindActiveByID(ctx context.Context, id int64) (*models.Member, error)
}

type appointmentItemReader interface {
	FindNonDeletedByID(ctx context.Context, id int64) (*models.Item, error)
}

// AppointmentServiceConfig tunes duplicate detection.
type AppointmentServiceConfig struct {
	ConflictPolicy   string
	ValidateOnUpdate bool
}

// AppointmentService books and amends appointments. Creation validates
// every referenced entity and rejects double bookings per the configured
// conflict policy, all inside one transaction.
type AppointmentService struct {
	repo      appointmentRepository
	users     scheduleUserReader
	rooms     scheduleRoomReader
	members   appointmentMemberReader
	items     appointmentItemReader
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AppointmentServiceConfig
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(repo appointmentRepository, users scheduleUserReader, rooms scheduleRoomReader, members appointmentMemberReader, items appointmentItemReader, validate *validator.Validate, logger *zap.Logger, cfg AppointmentServiceConfig) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConflictPolicy != config.ConflictPolicyOverlap {
		cfg.ConflictPolicy = config.ConflictPolicyExact
	}
	return &AppointmentService{
		repo:      repo,
		users:     users,
		rooms:     rooms,
		members:   members,
		items:     items,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns appointments matching the filter.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return appointments, nil
}

// Get fetches one appointment by ID.
func (s *AppointmentService) Get(ctx context.Context, id int64) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get appointment")
	}
	return appointment, nil
}

// Create books an appointment. Reference checks run first and
// short-circuit; the duplicate check and insert share a transaction with
// the conflicting rows locked, so no appointment is persisted when any
// validation fails.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	if req.StartTime >= req.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be before endTime")
	}

	if err := s.ensureDoctorActive(ctx, req.DoctorID); err != nil {
		return nil, err
	}
	if err := s.ensureMemberActive(ctx, req.MemberID); err != nil {
		return nil, err
	}
	if err := s.ensureItemActive(ctx, req.ServiceItemID); err != nil {
		return nil, err
	}
	if err := s.ensureRoomActive(ctx, req.RoomID); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		DoctorID:        req.DoctorID,
		RoomID:          req.RoomID,
		MemberID:        req.MemberID,
		ServiceItemID:   req.ServiceItemID,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          models.AppointmentScheduled,
	}

	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkConflicts(ctx, tx, appointment, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, appointment); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment created",
		zap.Int64("id", appointment.ID),
		zap.Int64("doctorId", appointment.DoctorID),
		zap.String("date", appointment.AppointmentDate),
		zap.String("start", appointment.StartTime))
	return appointment, nil
}

// Update applies partial changes, including cancellation via status. The
// duplicate check is repeated only when configured and the appointment
// still blocks a slot after the patch.
func (s *AppointmentService) Update(ctx context.Context, id int64, req dto.UpdateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get appointment")
	}

	if req.DoctorID != nil {
		if err := s.ensureDoctorActive(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
		appointment.DoctorID = *req.DoctorID
	}
	if req.MemberID != nil {
		if err := s.ensureMemberActive(ctx, *req.MemberID); err != nil {
			return nil, err
		}
		appointment.MemberID = *req.MemberID
	}
	if req.ServiceItemID != nil {
		if err := s.ensureItemActive(ctx, *req.ServiceItemID); err != nil {
			return nil, err
		}
		appointment.ServiceItemID = *req.ServiceItemID
	}
	if req.RoomID != nil {
		if err := s.ensureRoomActive(ctx, *req.RoomID); err != nil {
			return nil, err
		}
		appointment.RoomID = *req.RoomID
	}
	if req.AppointmentDate != nil {
		appointment.AppointmentDate = *req.AppointmentDate
	}
	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if appointment.StartTime >= appointment.EndTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be before endTime")
	}
	if req.Status != nil {
		appointment.Status = models.AppointmentStatus(*req.Status)
	}
	if req.Deleted != nil {
		appointment.Deleted = *req.Deleted
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if s.cfg.ValidateOnUpdate && !appointment.Deleted && appointment.Status != models.AppointmentCancelled {
			if err := s.checkConflicts(ctx, tx, appointment, appointment.ID); err != nil {
				return err
			}
		}
		if err := s.repo.Update(ctx, tx, appointment); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) checkConflicts(ctx context.Context, tx *sqlx.Tx, appointment *models.Appointment, excludeID int64) error {
	var conflicts []models.Appointment
	var err error
	if s.cfg.ConflictPolicy == config.ConflictPolicyOverlap {
		conflicts, err = s.repo.FindOverlapping(ctx, tx, appointment.DoctorID, appointment.AppointmentDate, appointment.StartTime, appointment.EndTime, excludeID, true)
	} else {
		conflicts, err = s.repo.FindExact(ctx, tx, appointment.DoctorID, appointment.AppointmentDate, appointment.StartTime, appointment.EndTime, excludeID, true)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check appointment conflicts")
	}
	if len(conflicts) > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Appointment time already exists")
	}
	return nil
}

func (s *AppointmentService) ensureDoctorActive(ctx context.Context, doctorID int64) error {
	if _, err := s.users.FindActiveByID(ctx, doctorID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Doctor not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify doctor")
	}
	return nil
}

func (s *AppointmentService) ensureRoomActive(ctx context.Context, roomID int64) error {
	if _, err := s.rooms.FindNonDeletedByID(ctx, roomID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Room not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify room")
	}
	return nil
}

func (s *AppointmentService) ensureMemberActive(ctx context.Context, memberID int64) error {
	if _, err := s.members.FindActiveByID(ctx, memberID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Member not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify member")
	}
	return nil
}

func (s *AppointmentService) ensureItemActive(ctx context.Context, itemID int64) error {
	if _, err := s.items.FindNonDeletedByID(ctx, itemID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "Item not found or inactive")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify item")
	}
	return nil
}
