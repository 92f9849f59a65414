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
	"github.com/siaochanwu/appointment-api/pkg/config"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
)

type appointmentRepoStub struct {
	appointments []models.Appointment
	exact        []models.Appointment
	overlapping  []models.Appointment
	created      *models.Appointment
	updated      *models.Appointment
	nextID       int64
}

func (s *appointmentRepoStub) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	return s.appointments, nil
}

func (s *appointmentRepoStub) FindByID(ctx context.Context, id int64) (*models.Appointment, error) {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			appointment := s.appointments[i]
			return &appointment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *appointmentRepoStub) FindExact(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error) {
	result := []models.Appointment{}
	for _, appointment := range s.exact {
		if appointment.ID == excludeID {
			continue
		}
		if appointment.StartTime != startTime || appointment.EndTime != endTime {
			continue
		}
		result = append(result, appointment)
	}
	return result, nil
}

func (s *appointmentRepoStub) FindOverlapping(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error) {
	result := []models.Appointment{}
	for _, appointment := range s.overlapping {
		if appointment.ID != excludeID {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (s *appointmentRepoStub) Create(ctx context.Context, q sqlx.QueryerContext, appointment *models.Appointment) error {
	s.nextID++
	appointment.ID = s.nextID
	s.created = appointment
	return nil
}

func (s *appointmentRepoStub) Update(ctx context.Context, q sqlx.ExtContext, appointment *models.Appointment) error {
	s.updated = appointment
	return nil
}

func (s *appointmentRepoStub) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type memberReaderStub struct {
	inactive bool
}

func (s memberReaderStub) FindActiveByID(ctx context.Context, id int64) (*models.Member, error) {
	if s.inactive {
		return nil, sql.ErrNoRows
	}
	return &models.Member{ID: id, Name: "Alice", IsActive: true}, nil
}

type itemReaderStub struct {
	deleted bool
}

func (s itemReaderStub) FindNonDeletedByID(ctx context.Context, id int64) (*models.Item, error) {
	if s.deleted {
		return nil, sql.ErrNoRows
	}
	return &models.Item{ID: id, Name: "Consultation", Duration: 30}, nil
}

func newAppointmentService(repo *appointmentRepoStub, users userReaderStub, members memberReaderStub, items itemReaderStub, cfg AppointmentServiceConfig) *AppointmentService {
	return NewAppointmentService(repo, users, roomReaderStub{}, members, items, validator.New(), nil, cfg)
}

func bookingRequest() dto.CreateAppointmentRequest {
	return dto.CreateAppointmentRequest{
		DoctorID:        10,
		RoomID:          2,
		MemberID:        3,
		ServiceItemID:   4,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "10:30",
	}
}

func TestAppointmentServiceCreate(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	appointment, err := svc.Create(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.NotZero(t, appointment.ID)
	assert.Equal(t, models.AppointmentScheduled, appointment.Status)
	require.NotNil(t, repo.created)
}

func TestAppointmentServiceCreateInactiveDoctorPersistsNothing(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := newAppointmentService(repo, userReaderStub{inactive: true}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Doctor not found or inactive", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateInactiveMember(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{inactive: true}, itemReaderStub{}, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, "Member not found or inactive", appErrors.FromError(err).Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateDeletedItem(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{deleted: true}, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, "Item not found or inactive", appErrors.FromError(err).Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateDuplicateExact(t *testing.T) {
	repo := &appointmentRepoStub{exact: []models.Appointment{{
		ID:              5,
		DoctorID:        10,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          models.AppointmentScheduled,
	}}}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "Appointment time already exists", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateOverlapPolicy(t *testing.T) {
	repo := &appointmentRepoStub{overlapping: []models.Appointment{{
		ID:              5,
		DoctorID:        10,
		AppointmentDate: "2025-08-25",
		StartTime:       "09:45",
		EndTime:         "10:15",
		Status:          models.AppointmentScheduled,
	}}}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{ConflictPolicy: config.ConflictPolicyOverlap})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, "Appointment time already exists", appErrors.FromError(err).Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateExactPolicyIgnoresOverlap(t *testing.T) {
	// Under the default exact policy a merely overlapping booking is
	// allowed; only an identical (doctor, date, start, end) tuple collides.
	repo := &appointmentRepoStub{overlapping: []models.Appointment{{
		ID:              5,
		DoctorID:        10,
		AppointmentDate: "2025-08-25",
		StartTime:       "09:45",
		EndTime:         "10:15",
		Status:          models.AppointmentScheduled,
	}}}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	appointment, err := svc.Create(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.NotZero(t, appointment.ID)
}

func TestAppointmentServiceCreateExactPolicyAllowsDifferentDuration(t *testing.T) {
	// Same doctor, date and start but a longer end time is not a
	// duplicate under the exact policy.
	repo := &appointmentRepoStub{exact: []models.Appointment{{
		ID:              5,
		DoctorID:        10,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "11:00",
		Status:          models.AppointmentScheduled,
	}}}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	appointment, err := svc.Create(context.Background(), bookingRequest())
	require.NoError(t, err)
	assert.NotZero(t, appointment.ID)
	require.NotNil(t, repo.created)
}

func TestAppointmentServiceCreateDeletedRoom(t *testing.T) {
	repo := &appointmentRepoStub{}
	svc := NewAppointmentService(repo, userReaderStub{}, roomReaderStub{deleted: true}, memberReaderStub{}, itemReaderStub{}, validator.New(), nil, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, "Room not found or inactive", appErrors.FromError(err).Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCreateChecksMemberBeforeRoom(t *testing.T) {
	// The room check is an extra guard that runs after the doctor,
	// member and item lookups, so the member error wins here.
	repo := &appointmentRepoStub{}
	svc := NewAppointmentService(repo, userReaderStub{}, roomReaderStub{deleted: true}, memberReaderStub{inactive: true}, itemReaderStub{}, validator.New(), nil, AppointmentServiceConfig{})

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	assert.Equal(t, "Member not found or inactive", appErrors.FromError(err).Message)
	assert.Nil(t, repo.created)
}

func TestAppointmentServiceCancelViaUpdate(t *testing.T) {
	existing := models.Appointment{
		ID:              7,
		DoctorID:        10,
		RoomID:          2,
		MemberID:        3,
		ServiceItemID:   4,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          models.AppointmentScheduled,
	}
	repo := &appointmentRepoStub{appointments: []models.Appointment{existing}}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	status := int(models.AppointmentCancelled)
	updated, err := svc.Update(context.Background(), 7, dto.UpdateAppointmentRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, updated.Status)
	require.NotNil(t, repo.updated)
}

func TestAppointmentServiceUpdateRevalidatesWhenConfigured(t *testing.T) {
	existing := models.Appointment{
		ID:              7,
		DoctorID:        10,
		RoomID:          2,
		MemberID:        3,
		ServiceItemID:   4,
		AppointmentDate: "2025-08-25",
		StartTime:       "10:00",
		EndTime:         "10:30",
		Status:          models.AppointmentScheduled,
	}
	conflicting := existing
	conflicting.ID = 8
	repo := &appointmentRepoStub{
		appointments: []models.Appointment{existing},
		exact:        []models.Appointment{conflicting},
	}
	svc := newAppointmentService(repo, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{ValidateOnUpdate: true})

	start := "10:00"
	_, err := svc.Update(context.Background(), 7, dto.UpdateAppointmentRequest{StartTime: &start})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestAppointmentServiceUpdateNotFound(t *testing.T) {
	svc := newAppointmentService(&appointmentRepoStub{}, userReaderStub{}, memberReaderStub{}, itemReaderStub{}, AppointmentServiceConfig{})

	status := int(models.AppointmentConfirmed)
	_, err := svc.Update(context.Background(), 99, dto.UpdateAppointmentRequest{Status: &status})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
