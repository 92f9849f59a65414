package dto

// CreateRoleRequest describes payload for creating a role.
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// UpdateRoleRequest describes payload for updating a role.
type UpdateRoleRequest struct {
	Name    *string `json:"name"`
	Code    *string `json:"code"`
	Deleted *bool   `json:"deleted"`
}

// CreateUserRoleRequest assigns a role to a user.
type CreateUserRoleRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	RoleID int64 `json:"roleId" validate:"required,gt=0"`
}

// UpdateUserRoleRequest moves an assignment to a different user or role.
type UpdateUserRoleRequest struct {
	UserID *int64 `json:"userId" validate:"omitempty,gt=0"`
	RoleID *int64 `json:"roleId" validate:"omitempty,gt=0"`
}
