package models

import "time"

// Item is a bookable service item (consultation, treatment, checkup).
// Duration is the nominal length in minutes.
type Item struct {
	ID        int64     `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Duration  int       `db:"duration" json:"duration"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ItemFilter captures filtering criteria for listing service items.
type ItemFilter struct {
	ID   int64
	Type string
	Name string
	Code string
}
