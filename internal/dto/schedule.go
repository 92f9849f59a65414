package dto

// CreateScheduleRequest describes payload for creating a recurring weekly
// schedule. DayOfWeek uses 0 for Sunday through 6 for Saturday; times are
// zero-padded "HH:mm".
type CreateScheduleRequest struct {
	DoctorID  int64  `json:"doctorId" validate:"required,gt=0"`
	RoomID    int64  `json:"roomId" validate:"required,gt=0"`
	DayOfWeek *int   `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	IsActive  *bool  `json:"isActive"`
}

// UpdateScheduleRequest describes payload for updating a schedule.
type UpdateScheduleRequest struct {
	DoctorID  *int64  `json:"doctorId" validate:"omitempty,gt=0"`
	RoomID    *int64  `json:"roomId" validate:"omitempty,gt=0"`
	DayOfWeek *int    `json:"dayOfWeek"`
	StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	IsActive  *bool   `json:"isActive"`
	Deleted   *bool   `json:"deleted"`
}

// AvailabilityQuery scopes working-day and available-time lookups to an
// inclusive date range.
type AvailabilityQuery struct {
	StartDate       string `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate         string `form:"endDate" validate:"required,datetime=2006-01-02"`
	IntervalMinutes int    `form:"intervalMinutes" validate:"omitempty,gt=0"`
}
