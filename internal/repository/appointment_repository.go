package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const appointmentColumns = "id, doctor_id, room_id, member_id, service_item_id, to_char(appointment_date, 'YYYY-MM-DD') AS appointment_date, to_char(start_time, 'HH24:MI') AS start_time, to_char(end_time, 'HH24:MI') AS end_time, status, deleted, created_at, updated_at"

// AppointmentRepository manages persistence for booked appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (r *AppointmentRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin appointment tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit appointment tx: %w", err)
	}
	return nil
}

// List returns non-deleted appointments matching the filter.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	base := "SELECT " + appointmentColumns + " FROM appointments WHERE deleted = FALSE"
	var conditions []string
	var args []interface{}

	if filter.ID != 0 {
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)+1))
		args = append(args, filter.ID)
	}
	if filter.DoctorID != 0 {
		conditions = append(conditions, fmt.Sprintf("doctor_id = $%d", len(args)+1))
		args = append(args, filter.DoctorID)
	}
	if filter.RoomID != 0 {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.MemberID != 0 {
		conditions = append(conditions, fmt.Sprintf("member_id = $%d", len(args)+1))
		args = append(args, filter.MemberID)
	}
	if filter.ServiceItemID != 0 {
		conditions = append(conditions, fmt.Sprintf("service_item_id = $%d", len(args)+1))
		args = append(args, filter.ServiceItemID)
	}
	if len(filter.ServiceItemIDs) > 0 {
		placeholders := make([]string, 0, len(filter.ServiceItemIDs))
		for _, id := range filter.ServiceItemIDs {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, id)
		}
		conditions = append(conditions, "service_item_id IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.AppointmentDate != "" {
		conditions = append(conditions, fmt.Sprintf("appointment_date = $%d", len(args)+1))
		args = append(args, filter.AppointmentDate)
	}
	if filter.StartTime != "" {
		conditions = append(conditions, fmt.Sprintf("start_time = $%d", len(args)+1))
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != "" {
		conditions = append(conditions, fmt.Sprintf("end_time = $%d", len(args)+1))
		args = append(args, filter.EndTime)
	}
	if filter.Status != 0 {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, status)
		}
		conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY appointment_date ASC, start_time ASC"

	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// FindByID fetches an appointment by ID.
func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*models.Appointment, error) {
	const query = "SELECT " + appointmentColumns + " FROM appointments WHERE id = $1"
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// FindBlockingByDoctorAndDateRange returns the doctor's slot-consuming
// appointments within the inclusive date range. Cancelled and soft-deleted
// rows never block availability.
func (r *AppointmentRepository) FindBlockingByDoctorAndDateRange(ctx context.Context, doctorID int64, startDate, endDate string) ([]models.Appointment, error) {
	query := "SELECT " + appointmentColumns + ` FROM appointments
		WHERE doctor_id = $1 AND appointment_date BETWEEN $2 AND $3
		AND deleted = FALSE`
	args := []interface{}{doctorID, startDate, endDate}
	query += " AND " + statusInClause(&args, models.BlockingStatuses)
	query += " ORDER BY appointment_date ASC, start_time ASC"

	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("find blocking appointments for doctor %d: %w", doctorID, err)
	}
	return appointments, nil
}

// FindByDoctorAndDateRange returns every non-deleted appointment for the
// doctor within the inclusive date range regardless of status. Used for
// exports.
func (r *AppointmentRepository) FindByDoctorAndDateRange(ctx context.Context, doctorID int64, startDate, endDate string) ([]models.Appointment, error) {
	const query = "SELECT " + appointmentColumns + ` FROM appointments
		WHERE doctor_id = $1 AND appointment_date BETWEEN $2 AND $3 AND deleted = FALSE
		ORDER BY appointment_date ASC, start_time ASC`
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, startDate, endDate); err != nil {
		return nil, fmt.Errorf("find appointments for doctor %d: %w", doctorID, err)
	}
	return appointments, nil
}

// FindExact returns blocking appointments that duplicate the exact
// (doctor, date, start, end) tuple, excluding excludeID when non-zero. With
// forUpdate set the rows are locked for the duration of the surrounding
// transaction.
func (r *AppointmentRepository) FindExact(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error) {
	query := "SELECT " + appointmentColumns + ` FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND start_time = $3 AND end_time = $4
		AND deleted = FALSE`
	args := []interface{}{doctorID, date, startTime, endTime}
	query += " AND " + statusInClause(&args, models.BlockingStatuses)
	if excludeID != 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	if forUpdate {
		query += " FOR UPDATE"
	}

	var appointments []models.Appointment
	if err := sqlx.SelectContext(ctx, q, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("find exact appointment conflicts: %w", err)
	}
	return appointments, nil
}

// FindOverlapping returns blocking appointments for the doctor on the given
// date whose [start, end) interval intersects the candidate interval,
// excluding excludeID when non-zero.
func (r *AppointmentRepository) FindOverlapping(ctx context.Context, q sqlx.QueryerContext, doctorID int64, date, startTime, endTime string, excludeID int64, forUpdate bool) ([]models.Appointment, error) {
	query := "SELECT " + appointmentColumns + ` FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2
		AND start_time < $3 AND end_time > $4
		AND deleted = FALSE`
	args := []interface{}{doctorID, date, endTime, startTime}
	query += " AND " + statusInClause(&args, models.BlockingStatuses)
	if excludeID != 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	if forUpdate {
		query += " FOR UPDATE"
	}

	var appointments []models.Appointment
	if err := sqlx.SelectContext(ctx, q, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("find overlapping appointment conflicts: %w", err)
	}
	return appointments, nil
}

// Create inserts a new appointment using the given executor, which may be a
// transaction.
func (r *AppointmentRepository) Create(ctx context.Context, q sqlx.QueryerContext, appointment *models.Appointment) error {
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	const query = `INSERT INTO appointments (doctor_id, room_id, member_id, service_item_id, appointment_date, start_time, end_time, status, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10) RETURNING id`
	if err := q.QueryRowxContext(ctx, query,
		appointment.DoctorID, appointment.RoomID, appointment.MemberID, appointment.ServiceItemID,
		appointment.AppointmentDate, appointment.StartTime, appointment.EndTime, appointment.Status,
		appointment.CreatedAt, appointment.UpdatedAt,
	).Scan(&appointment.ID); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Update modifies an existing appointment using the given executor.
func (r *AppointmentRepository) Update(ctx context.Context, q sqlx.ExtContext, appointment *models.Appointment) error {
	appointment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE appointments SET doctor_id = :doctor_id, room_id = :room_id, member_id = :member_id, service_item_id = :service_item_id, appointment_date = :appointment_date, start_time = :start_time, end_time = :end_time, status = :status, deleted = :deleted, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, q, query, appointment); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// statusInClause appends the statuses to args and renders a matching
// "status IN (...)" fragment.
func statusInClause(args *[]interface{}, statuses []models.AppointmentStatus) string {
	placeholders := make([]string, 0, len(statuses))
	for _, status := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(*args)+1))
		*args = append(*args, status)
	}
	return "status IN (" + strings.Join(placeholders, ", ") + ")"
}
