package models

import "time"

// Room is a consultation room.
type Room struct {
	ID        int64     `db:"id" json:"id"`
	Number    int       `db:"number" json:"number"`
	Type      string    `db:"type" json:"type"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RoomFilter captures filtering criteria for listing rooms.
type RoomFilter struct {
	ID     int64
	Number int
	Type   string
}

// RoomRef is the trimmed projection embedded in schedule listings.
type RoomRef struct {
	ID     int64  `db:"id" json:"id"`
	Number int    `db:"number" json:"number"`
	Type   string `db:"type" json:"type"`
}
