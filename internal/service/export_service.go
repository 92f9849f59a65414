package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siaochanwu/appointment-api/internal/dto"
	"github.com/siaochanwu/appointment-api/internal/models"
	appErrors "github.com/siaochanwu/appointment-api/pkg/errors"
	"github.com/siaochanwu/appointment-api/pkg/export"
	"github.com/siaochanwu/appointment-api/pkg/jobs"
	"github.com/siaochanwu/appointment-api/pkg/timeslot"
)

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, resultPath string) error
	MarkFailed(ctx context.Context, id, message string) error
}

type exportAppointmentReader interface {
	FindByDoctorAndDateRange(ctx context.Context, doctorID int64, startDate, endDate string) ([]models.Appointment, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string) (jobID, relPath string, err error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

var appointmentExportHeaders = []string{"Date", "Start", "End", "Doctor ID", "Room ID", "Member ID", "Service Item ID", "Status"}

// ExportService queues appointment exports, renders them in the
// background and hands out signed download URLs for finished files.
type ExportService struct {
	repo         exportJobRepository
	appointments exportAppointmentReader
	users        scheduleUserReader
	storage      exportStorage
	signer       downloadSigner
	queue        jobEnqueuer
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewExportService constructs an ExportService. Call HandleJob from the
// queue worker registered for export jobs.
func NewExportService(repo exportJobRepository, appointments exportAppointmentReader, users scheduleUserReader, storage exportStorage, signer downloadSigner, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:         repo,
		appointments: appointments,
		users:        users,
		storage:      storage,
		signer:       signer,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		validator:    validate,
		logger:       logger,
	}
}

// SetQueue wires the background queue once it exists. The queue handler
// needs the service, so construction happens in two steps.
func (s *ExportService) SetQueue(queue jobEnqueuer) {
	s.queue = queue
}

// SetMetrics wires optional Prometheus counters for finished jobs.
func (s *ExportService) SetMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

// Enqueue validates the request, records a queued job and dispatches it.
func (s *ExportService) Enqueue(ctx context.Context, req dto.CreateExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if _, err := timeslot.DateRange(req.StartDate, req.EndDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date range")
	}
	if _, err := s.users.FindActiveByID(ctx, req.DoctorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Doctor not found or inactive")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify doctor")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue not running")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Format:    models.ExportFormat(req.Format),
		DoctorID:  req.DoctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.ExportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "appointment_export"}); err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, "failed to enqueue"); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.String("jobId", job.ID), zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	s.logger.Info("export job queued", zap.String("jobId", job.ID), zap.Int64("doctorId", job.DoctorID))
	return job, nil
}

// Status returns the job state. For completed jobs the response carries a
// signed, expiring download URL.
func (s *ExportService) Status(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get export job")
	}

	resp := &dto.ExportJobResponse{
		ID:        job.ID,
		Format:    string(job.Format),
		DoctorID:  job.DoctorID,
		StartDate: job.StartDate,
		EndDate:   job.EndDate,
		Status:    string(job.Status),
		Error:     job.ErrorMessage,
	}
	if job.Status == models.ExportStatusCompleted && job.ResultPath != nil && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.ResultPath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		url := "/exports/" + job.ID + "/download?token=" + token
		expires := expiresAt.UTC().Format(time.RFC3339)
		resp.DownloadURL = &url
		resp.ExpiresAt = &expires
	}
	return resp, nil
}

// ResolveDownload validates a download token and returns the stored file
// path for streaming.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "export downloads disabled")
	}
	jobID, relPath, err := s.signer.Parse(token)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get export job")
	}
	if job.Status != models.ExportStatusCompleted || job.ResultPath == nil || *job.ResultPath != relPath {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}
	return relPath, nil
}

// HandleJob renders one queued export. Wire it as the queue handler.
func (s *ExportService) HandleJob(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.FindByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}
	if record.Status == models.ExportStatusCompleted {
		return nil
	}
	if err := s.repo.MarkProcessing(ctx, record.ID); err != nil {
		return err
	}

	path, err := s.render(ctx, record)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, record.ID, err.Error()); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.String("jobId", record.ID), zap.Error(markErr))
		}
		s.metrics.RecordExportJob(string(models.ExportStatusFailed))
		return err
	}

	if err := s.repo.MarkCompleted(ctx, record.ID, path); err != nil {
		return err
	}
	s.metrics.RecordExportJob(string(models.ExportStatusCompleted))
	s.logger.Info("export job completed", zap.String("jobId", record.ID), zap.String("path", path))
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, error) {
	appointments, err := s.appointments.FindByDoctorAndDateRange(ctx, job.DoctorID, job.StartDate, job.EndDate)
	if err != nil {
		return "", fmt.Errorf("load appointments: %w", err)
	}

	dataset := export.Dataset{Headers: appointmentExportHeaders}
	for _, appointment := range appointments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":            appointment.AppointmentDate,
			"Start":           appointment.StartTime,
			"End":             appointment.EndTime,
			"Doctor ID":       strconv.FormatInt(appointment.DoctorID, 10),
			"Room ID":         strconv.FormatInt(appointment.RoomID, 10),
			"Member ID":       strconv.FormatInt(appointment.MemberID, 10),
			"Service Item ID": strconv.FormatInt(appointment.ServiceItemID, 10),
			"Status":          strconv.Itoa(int(appointment.Status)),
		})
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatPDF:
		title := fmt.Sprintf("Appointments %s to %s", job.StartDate, job.EndDate)
		payload, err = s.pdf.Render(dataset, title)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return "", fmt.Errorf("render export: %w", err)
	}

	filename := fmt.Sprintf("appointments_%d_%s.%s", job.DoctorID, job.ID, job.Format)
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	return path, nil
}
