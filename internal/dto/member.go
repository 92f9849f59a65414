package dto

// CreateMemberRequest describes payload for registering a patient. The
// member code is allocated server-side and cannot be supplied.
type CreateMemberRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Birthday      *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Mobile        *string `json:"mobile"`
	Address       *string `json:"address"`
	CreatedUserID int64   `json:"createdUserId" validate:"required,gt=0"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateMemberRequest describes payload for updating a patient.
type UpdateMemberRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Mobile   *string `json:"mobile"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
	Deleted  *bool   `json:"deleted"`
}
