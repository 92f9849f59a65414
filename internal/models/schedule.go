package models

import "time"

// DoctorSchedule is a recurring weekly availability rule: the doctor works
// in the given room every week on DayOfWeek (0=Sunday..6=Saturday) between
// StartTime and EndTime. Times are zero-padded "HH:mm" strings so
// lexicographic comparison equals chronological comparison.
type DoctorSchedule struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  int64     `db:"doctor_id" json:"doctorId"`
	RoomID    int64     `db:"room_id" json:"roomId"`
	DayOfWeek int       `db:"day_of_week" json:"dayOfWeek"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Doctor *UserRef `db:"-" json:"doctor,omitempty"`
	Room   *RoomRef `db:"-" json:"room,omitempty"`
}

// DoctorScheduleFilter captures filtering criteria for listing schedules.
type DoctorScheduleFilter struct {
	ID        int64
	DoctorID  int64
	RoomID    int64
	DayOfWeek *int
	StartTime string
	EndTime   string
}

// WorkingDay is one dated occurrence of a recurring schedule: the schedule
// paired with the concrete calendar date it falls on. Derived, never
// persisted.
type WorkingDay struct {
	DoctorSchedule
	Date string `json:"date"`
}

// TimeSlot is one bookable interval carved out of a working day. Derived,
// never persisted.
type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
