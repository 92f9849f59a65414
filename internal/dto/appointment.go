package dto

// CreateAppointmentRequest describes payload for booking an appointment.
// Status defaults to scheduled when omitted.
type CreateAppointmentRequest struct {
	DoctorID        int64  `json:"doctorId" validate:"required,gt=0"`
	RoomID          int64  `json:"roomId" validate:"required,gt=0"`
	MemberID        int64  `json:"memberId" validate:"required,gt=0"`
	ServiceItemID   int64  `json:"serviceItemId" validate:"required,gt=0"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime         string `json:"endTime" validate:"required,datetime=15:04"`
	Status          *int   `json:"status" validate:"omitempty,min=1,max=6"`
}

// UpdateAppointmentRequest describes payload for amending an appointment,
// including status transitions such as cancellation.
type UpdateAppointmentRequest struct {
	DoctorID        *int64  `json:"doctorId" validate:"omitempty,gt=0"`
	RoomID          *int64  `json:"roomId" validate:"omitempty,gt=0"`
	MemberID        *int64  `json:"memberId" validate:"omitempty,gt=0"`
	ServiceItemID   *int64  `json:"serviceItemId" validate:"omitempty,gt=0"`
	AppointmentDate *string `json:"appointmentDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime       *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime         *string `json:"endTime" validate:"omitempty,datetime=15:04"`
	Status          *int    `json:"status" validate:"omitempty,min=1,max=6"`
	Deleted         *bool   `json:"deleted"`
}
