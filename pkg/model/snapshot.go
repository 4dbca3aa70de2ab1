package model

import "time"

// ResourceSnapshot captures one resource's full allocation state: its
// confirmed timeline in start order and every request the engine still tracks
// for it (waitlisted and terminal alike).
type ResourceSnapshot struct {
	ResourceID string           `json:"resource_id" bson:"resource_id"`
	Bookings   []Booking        `json:"bookings" bson:"bookings"`
	Requests   []BookingRequest `json:"requests" bson:"requests"`
}

// Snapshot is a complete export of engine state, sufficient to rebuild it:
// all resources plus the submission-sequence counter.
type Snapshot struct {
	ID        string             `json:"id,omitempty" bson:"_id,omitempty"`
	Seq       uint64             `json:"seq" bson:"seq"`
	Resources []ResourceSnapshot `json:"resources" bson:"resources"`
	SavedAt   time.Time          `json:"saved_at" bson:"saved_at"`
}
