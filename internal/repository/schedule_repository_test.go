package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siaochanwu/appointment-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func now() time.Time { return time.Now() }

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "doctor_id", "room_id", "day_of_week", "start_time", "end_time", "is_active", "deleted", "created_at", "updated_at"})
}

func TestScheduleRepositoryFindActiveByDoctor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := scheduleRows().
		AddRow(1, 10, 2, 1, "09:00", "12:00", true, false, now(), now()).
		AddRow(2, 10, 2, 3, "14:00", "17:00", true, false, now(), now())
	mock.ExpectQuery("SELECT (.+) FROM doctor_schedules\\s+WHERE doctor_id = \\$1 AND is_active = TRUE AND deleted = FALSE\\s+ORDER BY day_of_week ASC, start_time ASC").
		WithArgs(int64(10)).
		WillReturnRows(rows)

	schedules, err := repo.FindActiveByDoctor(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, "09:00", schedules[0].StartTime)
	assert.Equal(t, 3, schedules[1].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindConflictCandidatesLocksRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM doctor_schedules\\s+WHERE doctor_id = \\$1 AND room_id = \\$2 AND day_of_week = \\$3(.+)FOR UPDATE").
		WithArgs(int64(10), int64(2), 1).
		WillReturnRows(scheduleRows().AddRow(5, 10, 2, 1, "10:00", "11:00", true, false, now(), now()))

	schedules, err := repo.FindConflictCandidates(context.Background(), db, 10, 2, 1, 0, true)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, int64(5), schedules[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindConflictCandidatesExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM doctor_schedules(.+)AND id <> \\$4").
		WithArgs(int64(10), int64(2), 1, int64(7)).
		WillReturnRows(scheduleRows())

	schedules, err := repo.FindConflictCandidates(context.Background(), db, 10, 2, 1, 7, false)
	require.NoError(t, err)
	assert.Empty(t, schedules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("INSERT INTO doctor_schedules").
		WithArgs(int64(10), int64(2), 1, "09:00", "12:00", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	schedule := &models.DoctorSchedule{DoctorID: 10, RoomID: 2, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsActive: true}
	err := repo.Create(context.Background(), db, schedule)
	require.NoError(t, err)
	assert.Equal(t, int64(42), schedule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryWithTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.WithTx(context.Background(), func(tx *sqlx.Tx) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
