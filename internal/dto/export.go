package dto

// CreateExportRequest queues an asynchronous appointment export for one
// doctor over an inclusive date range.
type CreateExportRequest struct {
	Format    string `json:"format" validate:"required,oneof=csv pdf"`
	DoctorID  int64  `json:"doctorId" validate:"required,gt=0"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// ExportJobResponse is the job status payload, with a signed download URL
// once the export completes.
type ExportJobResponse struct {
	ID          string  `json:"id"`
	Format      string  `json:"format"`
	DoctorID    int64   `json:"doctorId"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Status      string  `json:"status"`
	Error       *string `json:"error,omitempty"`
	DownloadURL *string `json:"downloadUrl,omitempty"`
	ExpiresAt   *string `json:"expiresAt,omitempty"`
}
