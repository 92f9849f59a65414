package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const scheduleColumns = "id, doctor_id, room_id, day_of_week, to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time, is_active, deleted, created_at, updated_at"

// ScheduleRepository manages persistence for recurring doctor schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (r *ScheduleRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule tx: %w", err)
	}
	return nil
}

type scheduleRow struct {
	models.DoctorSchedule
	DoctorName *string `db:"doctor_name"`
	DoctorCode *string `db:"doctor_code"`
	RoomNumber *int    `db:"room_number"`
	RoomType   *string `db:"room_type"`
}

// List returns non-deleted schedules matching the filter, with doctor and
// room summaries joined in.
func (r *ScheduleRepository) List(ctx context.Context, filter models.DoctorScheduleFilter) ([]models.DoctorSchedule, error) {
	base := `SELECT s.id, s.doctor_id, s.room_id, s.day_of_week,
		to_char(s.start_time, 'HH24:MI') AS start_time, to_char(s.end_time, 'HH24:MI') AS end_time,
		s.is_active, s.deleted, s.created_at, s.updated_at,
		u.name AS doctor_name, u.code AS doctor_code,
		rm.number AS room_number, rm.type AS room_type
		FROM doctor_schedules s
		LEFT JOIN users u ON u.id = s.doctor_id
		LEFT JOIN rooms rm ON rm.id = s.room_id
		WHERE s.deleted = FALSE`
	var conditions []string
	var args []interface{}

	if filter.ID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.id = $%d", len(args)+1))
		args = append(args, filter.ID)
	}
	if filter.DoctorID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.doctor_id = $%d", len(args)+1))
		args = append(args, filter.DoctorID)
	}
	if filter.RoomID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DayOfWeek != nil {
		conditions = append(conditions, fmt.Sprintf("s.day_of_week = $%d", len(args)+1))
		args = append(args, *filter.DayOfWeek)
	}
	if filter.StartTime != "" {
		conditions = append(conditions, fmt.Sprintf("s.start_time = $%d", len(args)+1))
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != "" {
		conditions = append(conditions, fmt.Sprintf("s.end_time = $%d", len(args)+1))
		args = append(args, filter.EndTime)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.id ASC"

	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	schedules := make([]models.DoctorSchedule, 0, len(rows))
	for _, row := range rows {
		schedule := row.DoctorSchedule
		if row.DoctorName != nil {
			schedule.Doctor = &models.UserRef{ID: schedule.DoctorID, Name: *row.DoctorName}
			if row.DoctorCode != nil {
				schedule.Doctor.Code = *row.DoctorCode
			}
		}
		if row.RoomNumber != nil {
			schedule.Room = &models.RoomRef{ID: schedule.RoomID, Number: *row.RoomNumber}
			if row.RoomType != nil {
				schedule.Room.Type = *row.RoomType
			}
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// FindByID fetches a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.DoctorSchedule, error) {
	const query = "SELECT " + scheduleColumns + " FROM doctor_schedules WHERE id = $1"
	var schedule models.DoctorSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindActiveByDoctor returns the doctor's active weekly rules ordered by
// day of week then start time.
func (r *ScheduleRepository) FindActiveByDoctor(ctx context.Context, doctorID int64) ([]models.DoctorSchedule, error) {
	const query = "SELECT " + scheduleColumns + ` FROM doctor_schedules
		WHERE doctor_id = $1 AND is_active = TRUE AND deleted = FALSE
		ORDER BY day_of_week ASC, start_time ASC`
	var schedules []models.DoctorSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, doctorID); err != nil {
		return nil, fmt.Errorf("find schedules for doctor %d: %w", doctorID, err)
	}
	return schedules, nil
}

// FindConflictCandidates returns active schedules for the doctor in the room
// on the given weekday, excluding excludeID when non-zero. With forUpdate set
// the rows are locked so a concurrent insert cannot slip past the overlap
// check.
func (r *ScheduleRepository) FindConflictCandidates(ctx context.Context, q sqlx.QueryerContext, doctorID, roomID int64, dayOfWeek int, excludeID int64, forUpdate bool) ([]models.DoctorSchedule, error) {
	query := "SELECT " + scheduleColumns + ` FROM doctor_schedules
		WHERE doctor_id = $1 AND room_id = $2 AND day_of_week = $3
		AND is_active = TRUE AND deleted = FALSE`
	args := []interface{}{doctorID, roomID, dayOfWeek}
	if excludeID != 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	if forUpdate {
		query += " FOR UPDATE"
	}

	var schedules []models.DoctorSchedule
	if err := sqlx.SelectContext(ctx, q, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("find conflicting schedules: %w", err)
	}
	return schedules, nil
}

// Create inserts a new schedule using the given executor, which may be a
// transaction.
func (r *ScheduleRepository) Create(ctx context.Context, q sqlx.QueryerContext, schedule *models.DoctorSchedule) error {
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `INSERT INTO doctor_schedules (doctor_id, room_id, day_of_week, start_time, end_time, is_active, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8) RETURNING id`
	if err := q.QueryRowxContext(ctx, query,
		schedule.DoctorID, schedule.RoomID, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime,
		schedule.IsActive, schedule.CreatedAt, schedule.UpdatedAt,
	).Scan(&schedule.ID); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies an existing schedule using the given executor.
func (r *ScheduleRepository) Update(ctx context.Context, q sqlx.ExtContext, schedule *models.DoctorSchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE doctor_schedules SET doctor_id = :doctor_id, room_id = :room_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, is_active = :is_active, deleted = :deleted, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, q, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}
