package dto

// CreateItemRequest describes payload for creating a service item.
// Duration is in minutes.
type CreateItemRequest struct {
	Type     string `json:"type" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Duration int    `json:"duration" validate:"required,gt=0"`
}

// UpdateItemRequest describes payload for updating a service item.
type UpdateItemRequest struct {
	Type     *string `json:"type"`
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	Duration *int    `json:"duration" validate:"omitempty,gt=0"`
	Deleted  *bool   `json:"deleted"`
}
