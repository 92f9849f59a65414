package dto

// CreateRoomRequest describes payload for creating a consultation room.
type CreateRoomRequest struct {
	Number int    `json:"number" validate:"required,gt=0"`
	Type   string `json:"type" validate:"required"`
}

// UpdateRoomRequest describes payload for updating a room.
type UpdateRoomRequest struct {
	Number  *int    `json:"number" validate:"omitempty,gt=0"`
	Type    *string `json:"type"`
	Deleted *bool   `json:"deleted"`
}
