package models

import "time"

// Member is a registered patient. Code is allocated sequentially in the
// form E00000001 when the member is created.
type Member struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Code          string     `db:"code" json:"code"`
	Email         string     `db:"email" json:"email"`
	Birthday      *time.Time `db:"birthday" json:"birthday,omitempty"`
	Mobile        *string    `db:"mobile" json:"mobile,omitempty"`
	Address       *string    `db:"address" json:"address,omitempty"`
	CreatedUserID int64      `db:"created_user_id" json:"createdUserId"`
	IsActive      bool       `db:"is_active" json:"isActive"`
	Deleted       bool       `db:"deleted" json:"deleted"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// MemberFilter captures filtering criteria for listing members.
type MemberFilter struct {
	ID     int64
	Name   string
	Code   string
	Mobile string
}
