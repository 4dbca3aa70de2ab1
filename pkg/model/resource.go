package model

import "time"

// Resource is a bookable unit (room, lab, equipment). Capacity and location
// are descriptive metadata only; the allocation engine grants exclusive
// ownership regardless of capacity.
type Resource struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity    int       `json:"capacity,omitempty" bson:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
