package models

import "time"

// AppointmentStatus enumerates the appointment lifecycle.
type AppointmentStatus int

const (
	AppointmentScheduled  AppointmentStatus = 1
	AppointmentConfirmed  AppointmentStatus = 2
	AppointmentInProgress AppointmentStatus = 3
	AppointmentCompleted  AppointmentStatus = 4
	AppointmentNoShow     AppointmentStatus = 5
	AppointmentCancelled  AppointmentStatus = 6
)

// BlockingStatuses is the explicit set of statuses that consume a time
// slot. Cancelled appointments never block availability. Kept as an
// enumerated list rather than a numeric range so inserting a new status
// value cannot silently change slot generation.
var BlockingStatuses = []AppointmentStatus{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentInProgress,
	AppointmentCompleted,
	AppointmentNoShow,
}

// Appointment is a booked reservation of a doctor, room and service item
// for a member. AppointmentDate is an ISO "YYYY-MM-DD" string; times are
// "HH:mm" strings.
type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	DoctorID        int64             `db:"doctor_id" json:"doctorId"`
	RoomID          int64             `db:"room_id" json:"roomId"`
	MemberID        int64             `db:"member_id" json:"memberId"`
	ServiceItemID   int64             `db:"service_item_id" json:"serviceItemId"`
	AppointmentDate string            `db:"appointment_date" json:"appointmentDate"`
	StartTime       string            `db:"start_time" json:"startTime"`
	EndTime         string            `db:"end_time" json:"endTime"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Deleted         bool              `db:"deleted" json:"deleted"`
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updatedAt"`
}

// AppointmentFilter captures filtering criteria for listing appointments.
type AppointmentFilter struct {
	ID              int64
	DoctorID        int64
	RoomID          int64
	MemberID        int64
	ServiceItemID   int64
	ServiceItemIDs  []int64
	AppointmentDate string
	StartTime       string
	EndTime         string
	Status          AppointmentStatus
	Statuses        []AppointmentStatus
}
