package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/models"
)

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "doctor_id", "room_id", "member_id", "service_item_id", "appointment_date", "start_time", "end_time", "status", "deleted", "created_at", "updated_at"})
}

func TestAppointmentRepositoryFindBlockingByDoctorAndDateRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	rows := appointmentRows().
		AddRow(1, 10, 2, 3, 4, "2025-08-25", "09:00", "09:30", int(models.AppointmentScheduled), false, now(), now())
	mock.ExpectQuery("SELECT (.+) FROM appointments\\s+WHERE doctor_id = \\$1 AND appointment_date BETWEEN \\$2 AND \\$3\\s+AND deleted = FALSE AND status IN \\(\\$4, \\$5, \\$6, \\$7, \\$8\\)").
		WithArgs(int64(10), "2025-08-25", "2025-08-31",
			models.AppointmentScheduled, models.AppointmentConfirmed, models.AppointmentInProgress,
			models.AppointmentCompleted, models.AppointmentNoShow).
		WillReturnRows(rows)

	appointments, err := repo.FindBlockingByDoctorAndDateRange(context.Background(), 10, "2025-08-25", "2025-08-31")
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "09:00", appointments[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryFindExactLocksRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM appointments\\s+WHERE doctor_id = \\$1 AND appointment_date = \\$2 AND start_time = \\$3 AND end_time = \\$4(.+)FOR UPDATE").
		WithArgs(int64(10), "2025-08-25", "09:00", "09:30",
			models.AppointmentScheduled, models.AppointmentConfirmed, models.AppointmentInProgress,
			models.AppointmentCompleted, models.AppointmentNoShow).
		WillReturnRows(appointmentRows().AddRow(9, 10, 2, 3, 4, "2025-08-25", "09:00", "09:30", int(models.AppointmentScheduled), false, now(), now()))

	appointments, err := repo.FindExact(context.Background(), db, 10, "2025-08-25", "09:00", "09:30", 0, true)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, int64(9), appointments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryFindOverlapping(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM appointments\\s+WHERE doctor_id = \\$1 AND appointment_date = \\$2\\s+AND start_time < \\$3 AND end_time > \\$4(.+)AND id <> \\$10").
		WithArgs(int64(10), "2025-08-25", "10:00", "09:30",
			models.AppointmentScheduled, models.AppointmentConfirmed, models.AppointmentInProgress,
			models.AppointmentCompleted, models.AppointmentNoShow, int64(7)).
		WillReturnRows(appointmentRows())

	appointments, err := repo.FindOverlapping(context.Background(), db, 10, "2025-08-25", "09:30", "10:00", 7, false)
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(int64(10), int64(2), int64(3), int64(4), "2025-08-25", "09:00", "09:30", models.AppointmentScheduled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	appointment := &models.Appointment{
		DoctorID: 10, RoomID: 2, MemberID: 3, ServiceItemID: 4,
		AppointmentDate: "2025-08-25", StartTime: "09:00", EndTime: "09:30",
		Status: models.AppointmentScheduled,
	}
	err := repo.Create(context.Background(), db, appointment)
	require.NoError(t, err)
	assert.Equal(t, int64(11), appointment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryListWithStatuses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE deleted = FALSE AND doctor_id = \\$1 AND status IN \\(\\$2, \\$3\\)").
		WithArgs(int64(10), models.AppointmentScheduled, models.AppointmentConfirmed).
		WillReturnRows(appointmentRows())

	_, err := repo.List(context.Background(), models.AppointmentFilter{
		DoctorID: 10,
		Statuses: []models.AppointmentStatus{models.AppointmentScheduled, models.AppointmentConfirmed},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
