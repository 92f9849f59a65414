package models

import "time"

// Role is a named staff role (e.g. doctor, nurse, receptionist).
type Role struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RoleFilter captures filtering criteria for listing roles.
type RoleFilter struct {
	ID   int64
	Name string
	Code string
}

// UserRole links a user to a role.
type UserRole struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	RoleID    int64     `db:"role_id" json:"roleId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// UserRoleFilter captures filtering criteria for listing role assignments.
type UserRoleFilter struct {
	UserID int64
	RoleID int64
}
