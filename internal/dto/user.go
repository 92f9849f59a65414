package dto

// CreateUserRequest describes payload for creating a clinic user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	IsActive *bool  `json:"isActive"`
}

// UpdateUserRequest describes payload for updating a clinic user. All
// fields are optional; absent fields keep their stored value.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
}
