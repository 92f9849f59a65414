package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/siaochanwu/appointment-api/internal/models"
)

const exportJobColumns = "id, format, doctor_id, to_char(start_date, 'YYYY-MM-DD') AS start_date, to_char(end_date, 'YYYY-MM-DD') AS end_date, status, result_path, error_message, created_at, finished_at"

// ExportJobRepository manages persistence for asynchronous export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository constructs an ExportJobRepository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

// Create inserts a new queued job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	job.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO export_jobs (id, format, doctor_id, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		job.ID, job.Format, job.DoctorID, job.StartDate, job.EndDate, job.Status, job.CreatedAt,
	); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// FindByID fetches a job by its identifier.
func (r *ExportJobRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	const query = "SELECT " + exportJobColumns + " FROM export_jobs WHERE id = $1"
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing transitions a job into the PROCESSING state.
func (r *ExportJobRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE export_jobs SET status = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, models.ExportStatusProcessing, id); err != nil {
		return fmt.Errorf("mark export job %s processing: %w", id, err)
	}
	return nil
}

// MarkCompleted records the result file path and finishes the job.
func (r *ExportJobRepository) MarkCompleted(ctx context.Context, id, resultPath string) error {
	const query = `UPDATE export_jobs SET status = $1, result_path = $2, finished_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, models.ExportStatusCompleted, resultPath, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark export job %s completed: %w", id, err)
	}
	return nil
}

// MarkFailed records the failure message and finishes the job.
func (r *ExportJobRepository) MarkFailed(ctx context.Context, id, message string) error {
	const query = `UPDATE export_jobs SET status = $1, error_message = $2, finished_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, models.ExportStatusFailed, message, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark export job %s failed: %w", id, err)
	}
	return nil
}
